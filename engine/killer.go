package engine

import "bonuschess/rules"

// killerTable keeps two quiet moves per ply that recently caused a cutoff.
type killerTable struct {
	moves [maxDepth + 1][2]rules.Move
}

func (k *killerTable) insert(move rules.Move, ply int) {
	if ply > maxDepth {
		return
	}
	if move != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = move
	}
}

func (k *killerTable) rank(move rules.Move, ply int) int {
	if ply > maxDepth || move.IsZero() {
		return 0
	}
	switch move {
	case k.moves[ply][0]:
		return 2
	case k.moves[ply][1]:
		return 1
	}
	return 0
}

func (k *killerTable) clear() {
	k.moves = [maxDepth + 1][2]rules.Move{}
}
