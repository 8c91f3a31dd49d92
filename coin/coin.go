// Package coin draws the random outcomes a game needs from the caller's side:
// bonus-turn flips and the first-mover choice. Two peers that build a Flipper
// from the same seed draw the same sequence.
package coin

import (
	"hash/fnv"
	"time"

	"golang.org/x/exp/rand"
)

// BonusChance is the probability that a completed move earns a bonus turn.
const BonusChance = 0.25

// Flipper is not safe for concurrent use; give each game its own.
type Flipper struct {
	rng    *rand.Rand
	chance float64
	seed   uint64
}

type Option func(*Flipper)

// WithChance overrides BonusChance. Values outside [0, 1] are clamped.
func WithChance(p float64) Option {
	return func(f *Flipper) {
		switch {
		case p < 0:
			p = 0
		case p > 1:
			p = 1
		}
		f.chance = p
	}
}

func New(seed uint64, opts ...Option) *Flipper {
	f := &Flipper{
		rng:    rand.New(rand.NewSource(seed)),
		chance: BonusChance,
		seed:   seed,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Daily seeds from the UTC calendar date of t, so every player of the same
// day's game sees the same first mover and the same flips.
func Daily(t time.Time, opts ...Option) *Flipper {
	return New(DailySeed(t), opts...)
}

func DailySeed(t time.Time) uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.UTC().Format(time.DateOnly)))
	return h.Sum64()
}

func (f *Flipper) Seed() uint64    { return f.seed }
func (f *Flipper) Chance() float64 { return f.chance }

// Bonus reports whether the move just made earns a bonus turn.
func (f *Flipper) Bonus() bool {
	return f.rng.Float64() < f.chance
}

func (f *Flipper) FirstMoverIsWhite() bool {
	return f.rng.Intn(2) == 0
}
