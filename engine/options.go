package engine

import (
	"github.com/rs/zerolog"

	"bonuschess/rules"
)

const (
	DefaultDepth     = 3
	DefaultTableSize = 16
	maxDepth         = 32

	// DefaultBonusChance matches the odds the game is played with.
	DefaultBonusChance = 0.25
)

// Engine searches positions for the computer side. It keeps scratch state
// between calls, so use one Engine per goroutine.
type Engine struct {
	depth       int
	pruning     bool
	tableMB     int
	bonusChance float64
	eval        Evaluator
	pessimistic bool
	iterative   bool
	log         zerolog.Logger

	tt      *transTable
	killers killerTable
	states  stateStack
	stats   Stats
	// side the current search is choosing a move for
	rootSide rules.Color
}

type Option func(*Engine)

// WithDepth sets the search depth in half-moves. Chance nodes do not count.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		switch {
		case depth < 1:
			depth = 1
		case depth > maxDepth:
			depth = maxDepth
		}
		e.depth = depth
	}
}

// WithPruning toggles alpha-beta cutoffs. The chosen move and its value do not
// depend on it, only the node count does.
func WithPruning(enabled bool) Option {
	return func(e *Engine) {
		e.pruning = enabled
	}
}

// WithTableSize sets the transposition table size in MB; 0 disables it.
func WithTableSize(mb int) Option {
	return func(e *Engine) {
		if mb < 0 {
			mb = 0
		}
		e.tableMB = mb
	}
}

// WithBonusChance sets the probability the search assigns to a bonus turn.
func WithBonusChance(p float64) Option {
	return func(e *Engine) {
		switch {
		case p < 0:
			p = 0
		case p > 1:
			p = 1
		}
		e.bonusChance = p
	}
}

// WithEvaluator replaces the static evaluation used at the search horizon.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.eval = ev
		}
	}
}

// WithPessimism makes the search expect the coin to favour the opponent: the
// bonus chance after its own moves drops, and after the opponent's rises, by
// one percentage point per two pieces on the board.
func WithPessimism(enabled bool) Option {
	return func(e *Engine) {
		e.pessimistic = enabled
	}
}

// WithIterativeDeepening searches depths 1 to the target in turn, so each pass
// orders moves by the table entries the previous one left. Needs the table.
func WithIterativeDeepening(enabled bool) Option {
	return func(e *Engine) {
		e.iterative = enabled
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		depth:       DefaultDepth,
		pruning:     true,
		tableMB:     DefaultTableSize,
		bonusChance: DefaultBonusChance,
		eval:        Material{},
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tableMB > 0 {
		e.tt = newTransTable(e.tableMB)
	}
	return e
}

func (e *Engine) Depth() int { return e.depth }
