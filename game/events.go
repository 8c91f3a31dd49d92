package game

import (
	"fmt"

	"bonuschess/rules"
)

type EventKind string

const (
	MoveEvent  EventKind = "move"
	BonusEvent EventKind = "bonus"
)

// Event is one transition as a relay would carry it between two peers.
// Feeding the same ordered events to a fresh Game reproduces the same state.
type Event struct {
	Kind    EventKind  `json:"kind"`
	Move    rules.Move `json:"move"`
	Granted bool       `json:"granted"`
}

func (e Event) String() string {
	if e.Kind == BonusEvent {
		return fmt.Sprintf("bonus %t", e.Granted)
	}
	return "move " + e.Move.String()
}

// Events returns a copy of the transitions applied so far.
func (g *Game) Events() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// Apply runs a single event through CommitMove or ResolveBonus.
func (g *Game) Apply(e Event) error {
	switch e.Kind {
	case MoveEvent:
		return g.CommitMove(e.Move)
	case BonusEvent:
		return g.ResolveBonus(e.Granted)
	}
	return fmt.Errorf("%w: kind %q", ErrBadEvent, e.Kind)
}

// Replay rebuilds a game from the standard start.
func Replay(firstMoverIsWhite bool, events []Event, opts ...Option) (*Game, error) {
	return replay(New(firstMoverIsWhite, opts...), events)
}

// ReplayFEN rebuilds a game that started from fen.
func ReplayFEN(fen string, events []Event, opts ...Option) (*Game, error) {
	g, err := FromFEN(fen, opts...)
	if err != nil {
		return nil, err
	}
	return replay(g, events)
}

func replay(g *Game, events []Event) (*Game, error) {
	for i, e := range events {
		if err := g.Apply(e); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, e, err)
		}
	}
	return g, nil
}
