package rules

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

const (
	fiftyMoveLimit  = 100
	repetitionLimit = 3

	lightSquares uint64 = 0x55aa55aa55aa55aa
	darkSquares         = ^lightSquares
)

// InsufficientMaterial covers bare kings, a single minor piece, and bishops that
// all stand on one square colour.
func (p Position) InsufficientMaterial() bool {
	w, b := &p.board.White, &p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := w.Knights | b.Knights
	bishops := w.Bishops | b.Bishops
	minors := bits.OnesCount64(knights | bishops)
	if minors <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&lightSquares == 0 || bishops&darkSquares == 0
}

// Verdict classifies the position. legal is the number of legal moves for the
// side to move and repetitions how often Hash() has been seen, this occurrence
// included.
func (p Position) Verdict(legal, repetitions int) Status {
	switch {
	case !p.HasKing(White):
		return Status{Kind: Won, Winner: Black}
	case !p.HasKing(Black):
		return Status{Kind: Won, Winner: White}
	}
	side := p.SideToMove()
	if legal == 0 {
		if p.InCheck(side) {
			return Status{Kind: Won, Winner: side.Opponent()}
		}
		return Status{Kind: Draw}
	}
	if p.halfmove >= fiftyMoveLimit || repetitions >= repetitionLimit || p.InsufficientMaterial() {
		return Status{Kind: Draw}
	}
	return Status{Kind: InProgress}
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	if !p.bothKings() {
		return 0
	}
	b := p.board
	return perft(&b, depth)
}

func perft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, mv := range moves {
		undo := b.Apply(mv)
		nodes += perft(b, depth-1)
		undo()
	}
	return nodes
}

// Divide splits Perft by root move, for debugging generator mismatches.
func (p Position) Divide(depth int) map[string]uint64 {
	out := make(map[string]uint64)
	for _, child := range p.Expand() {
		out[child.Move.String()] = child.Pos.Perft(depth - 1)
	}
	return out
}
