package engine

import "bonuschess/rules"

type move struct {
	child rules.Child
	score uint16
}

type moveList struct {
	moves []move
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures.
// Taking the king ends the game, so it outranks everything else.
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 15},       // victim Pawn
	{0, 24, 23, 22, 21, 20, 25},       // victim Knight
	{0, 34, 33, 32, 31, 30, 35},       // victim Bishop
	{0, 44, 43, 42, 41, 40, 45},       // victim Rook
	{0, 54, 53, 52, 51, 50, 55},       // victim Queen
	{0, 104, 103, 102, 101, 100, 105}, // victim King
}

// Should always be above quiet move heuristics
var ttOffset uint16 = 25000
var promotionOffset uint16 = 20000
var captureOffset uint16 = 15000

var killerOffset uint16 = 2000

func scoreMovesList(pos rules.Position, children []rules.Child, ttMove rules.Move, killers *killerTable, ply int) (movesList moveList) {
	movesList.moves = make([]move, len(children))
	for i, child := range children {
		m := child.Move
		var moveEval uint16
		victim := pos.PieceAt(m.To)
		switch {
		case !ttMove.IsZero() && m == ttMove:
			moveEval = ttOffset
		case m.Promotion != rules.NoKind:
			moveEval = promotionOffset + uint16(pieceValue[m.Promotion]/10)
		case !victim.Empty():
			attacker := pos.PieceAt(m.From)
			moveEval = captureOffset + mvvLva[victim.Kind][attacker.Kind]
		default:
			moveEval = killerOffset * uint16(killers.rank(m, ply))
		}
		movesList.moves[i] = move{child: child, score: moveEval}
	}
	return movesList
}

// Ordering the moves one at a time, at index given
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	tempMove := moves.moves[currIndex]
	moves.moves[currIndex] = moves.moves[bestIndex]
	moves.moves[bestIndex] = tempMove
}
