package engine

import (
	"errors"
	"math"
	"time"

	"bonuschess/game"
	"bonuschess/rules"
)

var (
	ErrNoMoves      = errors.New("no legal moves to search")
	ErrBonusPending = errors.New("bonus flip pending, nothing to move yet")
)

// Result is the outcome of one search. Score is from White's point of view.
type Result struct {
	Move  rules.Move `json:"move"`
	Score float64    `json:"score"`
	Depth int        `json:"depth"`
	Stats Stats      `json:"stats"`
}

// BestMove picks a move for the side to move in g. The game is only read.
func (e *Engine) BestMove(g *game.Game) (Result, error) {
	if g.BonusPending() {
		return Result{}, ErrBonusPending
	}
	if len(g.LegalMoves()) == 0 {
		return Result{}, ErrNoMoves
	}
	return e.Search(g.Position(), g.RepetitionCounts())
}

// Search runs an expectimax search from pos. seen holds how often each position
// hash has occurred in the game so far, pos included; nil means pos is new.
func (e *Engine) Search(pos rules.Position, seen map[uint64]int) (Result, error) {
	children := pos.Expand()
	if len(children) == 0 {
		return Result{}, ErrNoMoves
	}
	if seen == nil {
		seen = map[uint64]int{pos.Hash(): 1}
	}

	start := time.Now()
	e.stats = Stats{}
	e.killers.clear()
	e.states.reset(seen)
	e.rootSide = pos.SideToMove()
	if e.tt != nil {
		e.tt.newSearch()
	}

	first := e.depth
	if e.iterative && e.tt != nil {
		first = 1
	}
	var move rules.Move
	var score float64
	for depth := first; depth <= e.depth; depth++ {
		e.stats.Iterations++
		move, score = e.rootsearch(pos, children, depth)
		e.log.Trace().Int("depth", depth).Str("move", move.String()).Float64("score", score).Msg("iteration")
	}

	result := Result{Move: move, Score: score, Depth: e.depth, Stats: e.stats}
	e.log.Debug().
		Str("move", move.String()).
		Float64("score", score).
		Int("depth", e.depth).
		Bool("pruning", e.pruning).
		Bool("pessimistic", e.pessimistic).
		Object("stats", e.stats).
		Dur("took", time.Since(start)).
		Msg("search done")
	return result, nil
}

func (e *Engine) rootsearch(pos rules.Position, children []rules.Child, depth int) (rules.Move, float64) {
	alpha, beta := math.Inf(-1), math.Inf(1)
	maximizing := pos.SideToMove() == rules.White
	mover := pos.SideToMove()
	e.stats.Nodes++

	var ttMove rules.Move
	if e.tt != nil {
		if entry, ok := e.tt.probe(pos.Hash()); ok {
			e.stats.TTHits++
			ttMove = entry.Move
		}
	}

	list := scoreMovesList(pos, children, ttMove, &e.killers, 0)
	var bestMove rules.Move
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}
	for i := range list.moves {
		orderNextMove(i, &list)
		child := list.moves[i].child
		score := e.chance(child.Pos, mover, depth-1, 1, alpha, beta)

		// strict comparison: the first of equally good moves wins, and queen
		// promotions are ordered ahead of under-promotions
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) || bestMove.IsZero() {
			bestScore = score
			bestMove = child.Move
		}
		if e.pruning {
			if maximizing {
				alpha = math.Max(alpha, bestScore)
			} else {
				beta = math.Min(beta, bestScore)
			}
		}
	}
	if e.tt != nil {
		e.tt.store(pos.Hash(), depth, 0, bestMove, bestScore, ExactFlag)
	}
	return bestMove, bestScore
}

// chance scores the position right after mover played a move. Unless the game
// just ended, the opponent replies with probability 1-p and mover moves again
// with probability p.
func (e *Engine) chance(pos rules.Position, mover rules.Color, depth, ply int, alpha, beta float64) float64 {
	e.stats.ChanceNodes++

	hash := pos.Hash()
	reps := e.states.occurrences(hash)
	status := pos.Verdict(pos.MoveCount(), reps)
	if status.Over() {
		e.stats.Terminals++
		return terminalScore(status, ply)
	}

	e.states.push(hash)
	defer e.states.pop()

	pb := e.bonusOdds(pos, mover)
	pn := 1 - pb
	switch {
	case pb <= 0:
		return e.alphabeta(pos, reps, depth, ply, alpha, beta)
	case pn <= 0:
		return e.bonusChild(pos, mover, depth, ply, alpha, beta)
	case !e.pruning:
		vn := e.alphabeta(pos, reps, depth, ply, alpha, beta)
		vb := e.bonusChild(pos, mover, depth, ply, alpha, beta)
		return pn*vn + pb*vb
	}

	// Star1: narrow each child's window so the weighted sum can still land
	// inside (alpha, beta) given that no score leaves [-MateScore, MateScore].
	lo, hi := -MateScore, MateScore
	alphaN := (alpha - pb*hi) / pn
	betaN := (beta - pb*lo) / pn
	vn := e.alphabeta(pos, reps, depth, ply, math.Max(alphaN, lo), math.Min(betaN, hi))
	if vn <= alphaN {
		e.stats.ChanceCuts++
		return math.Min(pn*vn+pb*hi, alpha)
	}
	if vn >= betaN {
		e.stats.ChanceCuts++
		return math.Max(pn*vn+pb*lo, beta)
	}
	alphaB := (alpha - pn*vn) / pb
	betaB := (beta - pn*vn) / pb
	vb := e.bonusChild(pos, mover, depth, ply, math.Max(alphaB, lo), math.Min(betaB, hi))
	return pn*vn + pb*vb
}

// bonusOdds is the chance that mover, who just moved into pos, moves again.
func (e *Engine) bonusOdds(pos rules.Position, mover rules.Color) float64 {
	pb := e.bonusChance
	if !e.pessimistic {
		return pb
	}
	adjustment := float64(pos.PieceCount()) / 200
	if mover == e.rootSide {
		pb -= adjustment
	} else {
		pb += adjustment
	}
	return math.Max(0, math.Min(1, pb))
}

func (e *Engine) bonusChild(pos rules.Position, mover rules.Color, depth, ply int, alpha, beta float64) float64 {
	again := pos.WithSideToMove(mover)
	hash := again.Hash()
	reps := e.states.occurrences(hash)
	e.states.push(hash)
	defer e.states.pop()
	return e.alphabeta(again, reps, depth, ply, alpha, beta)
}

// alphabeta is a decision node: White maximises, Black minimises. reps is how
// often pos has occurred including this visit.
func (e *Engine) alphabeta(pos rules.Position, reps, depth, ply int, alpha, beta float64) float64 {
	e.stats.Nodes++

	var children []rules.Child
	var mobility int
	if depth > 0 {
		children = pos.Expand()
		mobility = len(children)
	} else {
		mobility = pos.MoveCount()
	}
	if status := pos.Verdict(mobility, reps); status.Over() {
		e.stats.Terminals++
		return terminalScore(status, ply)
	}
	if depth <= 0 {
		e.stats.Leaves++
		return e.eval.Evaluate(pos, mobility)
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	var hash uint64
	var ttMove rules.Move
	if e.tt != nil {
		hash = pos.Hash()
		if entry, ok := e.tt.probe(hash); ok {
			e.stats.TTHits++
			ttMove = entry.Move
			if usable, score := e.tt.useEntry(entry, depth, ply, alpha, beta); usable {
				e.stats.TTCutoffs++
				return score
			}
		}
	}

	maximizing := pos.SideToMove() == rules.White
	mover := pos.SideToMove()
	alphaOrig, betaOrig := alpha, beta

	list := scoreMovesList(pos, children, ttMove, &e.killers, ply)
	var bestMove rules.Move
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}
	for i := range list.moves {
		orderNextMove(i, &list)
		child := list.moves[i].child
		score := e.chance(child.Pos, mover, depth-1, ply+1, alpha, beta)

		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			bestMove = child.Move
		}
		if !e.pruning {
			continue
		}
		if maximizing {
			alpha = math.Max(alpha, bestScore)
		} else {
			beta = math.Min(beta, bestScore)
		}
		if alpha >= beta {
			e.stats.BetaCutoffs++
			if pos.PieceAt(child.Move.To).Empty() && child.Move.Promotion == rules.NoKind {
				e.killers.insert(child.Move, ply)
			}
			break
		}
	}

	if e.tt != nil {
		var flag int8 = ExactFlag
		switch {
		case bestScore <= alphaOrig:
			flag = AlphaFlag
		case bestScore >= betaOrig:
			flag = BetaFlag
		}
		e.tt.store(hash, depth, ply, bestMove, bestScore, flag)
	}
	return bestScore
}
