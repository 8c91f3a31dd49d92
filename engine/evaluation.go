package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bonuschess/rules"
)

// MateScore bounds every score. A won position scores MateScore minus the
// number of half-moves to reach it, so shorter wins rank higher.
const (
	MateScore = 100000.0
	DrawScore = 0.0

	mobilityWeight = 2.0

	proportionRange = 1000.0
	featureRange    = 2000.0
)

var pieceValue = [7]float64{
	rules.Pawn:   100,
	rules.Knight: 320,
	rules.Bishop: 330,
	rules.Rook:   500,
	rules.Queen:  900,
}

// Evaluator scores a position that is still in progress, from White's point of
// view. mobility is the number of legal moves for the side to move. Scores must
// stay well inside ±MateScore, and swapping colours should negate them.
type Evaluator interface {
	Evaluate(pos rules.Position, mobility int) float64
}

// Material is the default evaluator: centipawns plus a small mobility term for
// the side to move.
type Material struct{}

func (Material) Evaluate(pos rules.Position, mobility int) float64 {
	var score float64
	for _, p := range pos.Board() {
		if p.Empty() {
			continue
		}
		if p.Color == rules.White {
			score += pieceValue[p.Kind]
		} else {
			score -= pieceValue[p.Kind]
		}
	}
	if pos.SideToMove() == rules.White {
		score += mobilityWeight * float64(mobility)
	} else {
		score -= mobilityWeight * float64(mobility)
	}
	return score
}

// Evaluate scores pos with the default evaluator.
func Evaluate(pos rules.Position) float64 {
	return Material{}.Evaluate(pos, pos.MoveCount())
}

var proportionValue = [7]float64{
	rules.Pawn:   1,
	rules.Knight: 3,
	rules.Bishop: 3,
	rules.Rook:   5,
	rules.Queen:  9,
	rules.King:   1,
}

// Proportion scores White's share of the material on the board, stretched to
// ±1000. Kings count as one pawn so the share is always defined.
type Proportion struct{}

func (Proportion) Evaluate(pos rules.Position, _ int) float64 {
	var white, total float64
	for _, p := range pos.Board() {
		if p.Empty() {
			continue
		}
		v := proportionValue[p.Kind]
		total += v
		if p.Color == rules.White {
			white += v
		}
	}
	if total == 0 {
		return 0
	}
	return (2*white/total - 1) * proportionRange
}

// Features are the raw inputs of FeatureEval, indexed by colour.
type Features struct {
	Pieces          [2][7]float64
	Mobility        [2]float64
	KingDanger      [2]float64
	PawnAdvancement [2]float64
	// SideToMove is 1 with White to move, -1 with Black.
	SideToMove float64
}

// ExtractFeatures reads the features of pos. mobility is the move count of the
// side to move; the other side's is generated here.
func ExtractFeatures(pos rules.Position, mobility int) Features {
	var f Features
	var pawnRanks [2]float64
	for i, p := range pos.Board() {
		if p.Empty() {
			continue
		}
		f.Pieces[p.Color][p.Kind]++
		if p.Kind != rules.Pawn {
			continue
		}
		rank := float64(i / 8)
		if p.Color == rules.White {
			pawnRanks[rules.White] += rank - 1
		} else {
			pawnRanks[rules.Black] += 6 - rank
		}
	}
	for _, c := range [2]rules.Color{rules.White, rules.Black} {
		if pawns := f.Pieces[c][rules.Pawn]; pawns > 0 {
			f.PawnAdvancement[c] = pawnRanks[c] / pawns
		}
		f.KingDanger[c] = float64(pos.KingExposure(c))
	}

	us := pos.SideToMove()
	f.Mobility[us] = float64(mobility)
	f.Mobility[us.Opponent()] = float64(pos.WithSideToMove(us.Opponent()).MoveCount())
	f.SideToMove = 1
	if us == rules.Black {
		f.SideToMove = -1
	}
	return f
}

// Weights multiply Features term by term.
type Weights struct {
	Pieces          [2][7]float64
	Mobility        [2]float64
	KingDanger      [2]float64
	PawnAdvancement [2]float64
	SideToMove      float64
}

func DefaultWeights() Weights {
	return Weights{
		Pieces: [2][7]float64{
			rules.White: {rules.Pawn: 1, rules.Knight: 3, rules.Bishop: 3, rules.Rook: 5, rules.Queen: 9},
			rules.Black: {rules.Pawn: -1, rules.Knight: -3, rules.Bishop: -3, rules.Rook: -5, rules.Queen: -9},
		},
		Mobility:        [2]float64{0.1, -0.1},
		KingDanger:      [2]float64{-0.5, 0.5},
		PawnAdvancement: [2]float64{0.5, -0.5},
		SideToMove:      3,
	}
}

const DefaultFeatureScale = 15.0

// FeatureEval is a weighted sum of Features squashed by a sigmoid into
// ±2000. Scale flattens the sigmoid; larger values keep more resolution
// between lopsided positions.
type FeatureEval struct {
	Weights Weights
	Scale   float64
}

func NewFeatureEval() FeatureEval {
	return FeatureEval{Weights: DefaultWeights(), Scale: DefaultFeatureScale}
}

// Raw is the weighted sum before squashing.
func (fe FeatureEval) Raw(f Features) float64 {
	w := &fe.Weights
	var score float64
	for c := 0; c < 2; c++ {
		for k := range f.Pieces[c] {
			score += w.Pieces[c][k] * f.Pieces[c][k]
		}
		score += w.Mobility[c] * f.Mobility[c]
		score += w.KingDanger[c] * f.KingDanger[c]
		score += w.PawnAdvancement[c] * f.PawnAdvancement[c]
	}
	return score + w.SideToMove*f.SideToMove
}

func (fe FeatureEval) Evaluate(pos rules.Position, mobility int) float64 {
	scale := fe.Scale
	if scale <= 0 {
		scale = 1
	}
	s := sigmoid(fe.Raw(ExtractFeatures(pos, mobility)) / scale)
	return (s - 0.5) * 2 * featureRange
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

var ErrUnknownEvaluator = errors.New("unknown evaluator")

// EvaluatorByName accepts "material", "proportion" or "feature".
func EvaluatorByName(name string) (Evaluator, error) {
	switch strings.ToLower(name) {
	case "", "material":
		return Material{}, nil
	case "proportion":
		return Proportion{}, nil
	case "feature":
		return NewFeatureEval(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, name)
}

// terminalScore scores a finished position reached ply half-moves from the root.
func terminalScore(status rules.Status, ply int) float64 {
	if status.Kind != rules.Won {
		return DrawScore
	}
	score := MateScore - float64(ply)
	if status.Winner == rules.Black {
		return -score
	}
	return score
}
