package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"bonuschess/rules"
)

func TestEvaluatorsAreAntisymmetric(t *testing.T) {
	fens := []string{
		rules.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 b - - 0 10",
	}
	evaluators := map[string]Evaluator{
		"material":   Material{},
		"proportion": Proportion{},
		"feature":    NewFeatureEval(),
	}
	for name, ev := range evaluators {
		for _, fen := range fens {
			pos := mustPos(t, fen)
			mirrored := mustPos(t, mirrorFEN(fen))
			got := ev.Evaluate(pos, pos.MoveCount())
			require.InDelta(t, -got, ev.Evaluate(mirrored, mirrored.MoveCount()), 1e-9, "%s %s", name, fen)
			require.Less(t, math.Abs(got), MateScore/10, "%s %s", name, fen)
		}
	}
}

func TestProportionIsWhitesShare(t *testing.T) {
	require.InDelta(t, 0, Proportion{}.Evaluate(mustPos(t, rules.StartFEN), 20), 1e-9)

	// queen and king against a bare king: 10 of 11 points are White's
	pos := mustPos(t, "4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	require.InDelta(t, (20.0/11-1)*1000, Proportion{}.Evaluate(pos, pos.MoveCount()), 1e-9)
}

func TestFeaturesOfTheStartPosition(t *testing.T) {
	pos := mustPos(t, rules.StartFEN)
	f := ExtractFeatures(pos, pos.MoveCount())

	require.Equal(t, 8.0, f.Pieces[rules.White][rules.Pawn])
	require.Equal(t, 2.0, f.Pieces[rules.Black][rules.Knight])
	require.Equal(t, 1.0, f.Pieces[rules.Black][rules.King])
	require.Equal(t, [2]float64{20, 20}, f.Mobility)
	// only the knight jumps to d3/f3 (d6/f6) are open around a home king
	require.Equal(t, [2]float64{2, 2}, f.KingDanger)
	require.Equal(t, [2]float64{0, 0}, f.PawnAdvancement)
	require.Equal(t, 1.0, f.SideToMove)

	fe := NewFeatureEval()
	require.InDelta(t, 3.0, fe.Raw(f), 1e-9)
	require.InDelta(t, (sigmoid(3.0/DefaultFeatureScale)-0.5)*2*featureRange, fe.Evaluate(pos, 20), 1e-9)
}

func TestFeaturesTrackPawnsAndKing(t *testing.T) {
	// white pawns on e5 and a2, black pawn on h3; black king out in the open
	pos := mustPos(t, "8/8/1k6/4P3/8/7p/P7/4K3 b - - 0 1")
	f := ExtractFeatures(pos, pos.MoveCount())

	require.InDelta(t, (3.0+0.0)/2, f.PawnAdvancement[rules.White], 1e-9)
	require.InDelta(t, 4.0, f.PawnAdvancement[rules.Black], 1e-9)
	require.Equal(t, -1.0, f.SideToMove)
	require.Equal(t, float64(pos.KingExposure(rules.Black)), f.KingDanger[rules.Black])
	require.Greater(t, f.KingDanger[rules.Black], f.KingDanger[rules.White])
	require.Equal(t, float64(pos.WithSideToMove(rules.White).MoveCount()), f.Mobility[rules.White])
}

func TestEvaluatorByName(t *testing.T) {
	for _, name := range []string{"material", "Proportion", "feature", ""} {
		ev, err := EvaluatorByName(name)
		require.NoError(t, err)
		require.NotNil(t, ev)
	}
	_, err := EvaluatorByName("nnue")
	require.ErrorIs(t, err, ErrUnknownEvaluator)
}

type countingEval struct {
	calls *int
}

func (c countingEval) Evaluate(pos rules.Position, mobility int) float64 {
	*c.calls++
	return Material{}.Evaluate(pos, mobility)
}

func TestWithEvaluatorIsUsedAtTheHorizon(t *testing.T) {
	pos := mustPos(t, rules.StartFEN)
	calls := 0
	res, err := New(WithDepth(1), WithEvaluator(countingEval{calls: &calls})).Search(pos, nil)
	require.NoError(t, err)
	require.NotZero(t, calls)
	require.Equal(t, res.Stats.Leaves, uint64(calls))

	plain, err := New(WithDepth(1)).Search(pos, nil)
	require.NoError(t, err)
	require.Equal(t, plain.Score, res.Score)
	require.Equal(t, plain.Move, res.Move)

	// a nil evaluator keeps the default
	_, err = New(WithDepth(1), WithEvaluator(nil)).Search(pos, nil)
	require.NoError(t, err)
}

func TestFeatureEvalStillFindsMate(t *testing.T) {
	pos := mustPos(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	for _, ev := range []Evaluator{Proportion{}, NewFeatureEval()} {
		res, err := New(WithDepth(2), WithEvaluator(ev)).Search(pos, nil)
		require.NoError(t, err)
		require.Equal(t, "a1a8", res.Move.String())
		require.InDelta(t, MateScore-1, res.Score, 1e-9)
	}
}
