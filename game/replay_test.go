package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"bonuschess/rules"
)

// randomGame plays random legal moves with random bonus outcomes until the game
// ends or maxPly moves were made, checking the turn invariants on the way.
func randomGame(t *testing.T, seed uint64, maxPly int) *Game {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := New(rng.Intn(2) == 0)
	for i := 0; i < maxPly; i++ {
		moves := g.LegalMoves()
		require.Equal(t, g.Status().Kind == rules.InProgress, len(moves) > 0)
		if len(moves) == 0 {
			break
		}
		mover := g.SideToMove()
		historyLen := g.History().Len()
		m := moves[rng.Intn(len(moves))]
		require.NoError(t, g.CommitMove(m))
		require.Equal(t, historyLen+1, g.History().Len())
		require.True(t, g.History().WasHot(m.From, historyLen))
		require.True(t, g.History().WasHot(m.To, historyLen))

		if g.Status().Over() {
			require.ErrorIs(t, g.ResolveBonus(false), ErrGameAlreadyOver)
			break
		}
		granted := rng.Float64() < 0.25
		require.NoError(t, g.ResolveBonus(granted))
		require.Equal(t, historyLen+1, g.History().Len())
		if granted {
			require.Equal(t, mover, g.SideToMove())
		} else {
			require.Equal(t, mover.Opponent(), g.SideToMove())
		}
	}
	return g
}

func TestRandomGamesReplay(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		g := randomGame(t, seed, 120)
		firstIsWhite := true
		if g.History().Len() > 0 {
			e, _ := g.History().At(0)
			firstIsWhite = e.Mover() == rules.White
		}

		again, err := Replay(firstIsWhite, g.Events())
		require.NoError(t, err)
		require.Equal(t, g.FEN(), again.FEN())
		require.Equal(t, g.Status(), again.Status())
		require.Equal(t, g.Ply(), again.Ply())
		require.Equal(t, g.BonusPending(), again.BonusPending())
		require.Equal(t, g.History().Entries(), again.History().Entries())
	}
}

func TestEventsSurviveJSON(t *testing.T) {
	g := New(true)
	require.NoError(t, g.CommitMove(rules.Move{From: rules.Square{File: 4, Rank: 1}, To: rules.Square{File: 4, Rank: 3}}))
	require.NoError(t, g.ResolveBonus(true))
	require.NoError(t, g.CommitMove(rules.Move{From: rules.Square{File: 3, Rank: 1}, To: rules.Square{File: 3, Rank: 3}}))
	require.NoError(t, g.ResolveBonus(false))

	data, err := json.Marshal(g.Events())
	require.NoError(t, err)
	var events []Event
	require.NoError(t, json.Unmarshal(data, &events))
	require.Equal(t, g.Events(), events)

	again, err := ReplayFEN(rules.StartFEN, events)
	require.NoError(t, err)
	require.Equal(t, g.FEN(), again.FEN())
}

func TestReplayStopsAtBadEvent(t *testing.T) {
	_, err := Replay(true, []Event{{Kind: "noise"}})
	require.ErrorIs(t, err, ErrBadEvent)

	events := []Event{
		{Kind: MoveEvent, Move: rules.Move{From: rules.Square{File: 4, Rank: 1}, To: rules.Square{File: 4, Rank: 3}}},
		{Kind: MoveEvent, Move: rules.Move{From: rules.Square{File: 4, Rank: 6}, To: rules.Square{File: 4, Rank: 4}}},
	}
	_, err = Replay(true, events)
	require.ErrorIs(t, err, ErrBonusUnresolved)
}
