package coin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBonusFrequencyConverges(t *testing.T) {
	f := New(42)
	const flips = 200000
	granted := 0
	for i := 0; i < flips; i++ {
		if f.Bonus() {
			granted++
		}
	}
	require.InDelta(t, BonusChance, float64(granted)/flips, 0.01)
}

func TestWithChance(t *testing.T) {
	never := New(1, WithChance(0))
	always := New(1, WithChance(7))
	require.Equal(t, 1.0, always.Chance())
	for i := 0; i < 1000; i++ {
		require.False(t, never.Bonus())
		require.True(t, always.Bonus())
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 500; i++ {
		require.Equal(t, a.Bonus(), b.Bonus())
		require.Equal(t, a.FirstMoverIsWhite(), b.FirstMoverIsWhite())
	}
}

func TestDailySeed(t *testing.T) {
	morning := time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC)
	require.Equal(t, DailySeed(morning), DailySeed(evening))
	require.NotEqual(t, DailySeed(morning), DailySeed(nextDay))

	// local wall-clock time is folded to UTC first
	tokyo := time.FixedZone("JST", 9*60*60)
	require.Equal(t, DailySeed(evening), DailySeed(evening.In(tokyo)))

	a, b := Daily(morning), Daily(evening)
	require.Equal(t, a.Seed(), b.Seed())
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Bonus(), b.Bonus())
	}
}
