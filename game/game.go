package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"bonuschess/rules"
)

// Game is one session: position, turn ownership, the pending-bonus flag, the
// ply counter and everything recorded along the way. It is changed only by
// CommitMove and ResolveBonus. A Game is not safe for concurrent use.
type Game struct {
	pos          rules.Position
	bonusPending bool
	ply          uint32
	// mover made the move whose bonus is pending.
	mover rules.Color

	history History
	seen    map[uint64]int
	events  []Event
	start   string

	log zerolog.Logger
}

type Option func(*Game)

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

// New starts from the standard array. The caller decides who moves first.
func New(firstMoverIsWhite bool, opts ...Option) *Game {
	first := rules.Black
	if firstMoverIsWhite {
		first = rules.White
	}
	return newGame(rules.StartPosition(first), opts)
}

// FromFEN starts from an arbitrary position, e.g. a puzzle setup.
func FromFEN(fen string, opts ...Option) (*Game, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos, opts), nil
}

func newGame(pos rules.Position, opts []Option) *Game {
	g := &Game{
		pos:   pos,
		seen:  map[uint64]int{pos.Hash(): 1},
		start: pos.FEN(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log.Debug().Str("fen", g.start).Msg("new game")
	return g
}

func (g *Game) Position() rules.Position { return g.pos }
func (g *Game) FEN() string              { return g.pos.FEN() }

// StartFEN is the position the game was created from.
func (g *Game) StartFEN() string { return g.start }

func (g *Game) SideToMove() rules.Color { return g.pos.SideToMove() }
func (g *Game) BonusPending() bool      { return g.bonusPending }
func (g *Game) Ply() uint32             { return g.ply }
func (g *Game) History() *History       { return &g.history }

// RepetitionCounts maps position hashes to the number of times they occurred.
func (g *Game) RepetitionCounts() map[uint64]int {
	out := make(map[uint64]int, len(g.seen))
	for k, v := range g.seen {
		out[k] = v
	}
	return out
}

// Status is recomputed on every call.
func (g *Game) Status() rules.Status {
	return g.pos.Verdict(g.pos.MoveCount(), g.seen[g.pos.Hash()])
}

// CommitMove plays m for the side to move and hands the turn to the opponent
// pending the coin flip. On error nothing changes.
func (g *Game) CommitMove(m rules.Move) error {
	if g.Status().Over() {
		return ErrGameAlreadyOver
	}
	if g.bonusPending {
		return ErrBonusUnresolved
	}
	legal, err := g.match(m)
	if err != nil {
		return err
	}
	next, err := g.pos.Apply(legal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	g.mover = g.pos.SideToMove()
	g.pos = next
	g.bonusPending = true
	g.ply++
	g.seen[next.Hash()]++
	g.history.append(newEntry(next, legal, g.mover))
	g.events = append(g.events, Event{Kind: MoveEvent, Move: legal})

	g.log.Debug().
		Str("move", legal.String()).
		Str("mover", g.mover.String()).
		Uint32("ply", g.ply).
		Msg("move committed")
	return nil
}

// match finds the legal move m names and sorts out promotion mismatches.
func (g *Game) match(m rules.Move) (rules.Move, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return rules.Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	promotes := false
	found := false
	for _, lm := range g.pos.LegalMoves() {
		if lm.From != m.From || lm.To != m.To {
			continue
		}
		found = true
		if lm.Promotion != rules.NoKind {
			promotes = true
		}
	}
	switch {
	case !found:
		return rules.Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	case promotes && m.Promotion == rules.NoKind:
		return rules.Move{}, fmt.Errorf("%w: %s", ErrPromotionRequired, m)
	case !promotes && m.Promotion != rules.NoKind:
		return rules.Move{}, fmt.Errorf("%w: %s", ErrPromotionNotAllowed, m)
	case promotes && !m.Promotion.CanPromoteTo():
		return rules.Move{}, fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, m.Promotion)
	}
	return m, nil
}
