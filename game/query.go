package game

import "bonuschess/rules"

// Destination is one square a piece may move to. Promotion variants of the same
// pawn move are folded into a single destination.
type Destination struct {
	To          rules.Square `json:"to"`
	CausesCheck bool         `json:"causes_check"`
}

type checkResult uint8

const (
	checkIllegal checkResult = iota
	checkLegal
	checkLegalPromotion
)

// MoveCheck is the outcome of CheckMove.
type MoveCheck struct {
	result checkResult
}

var (
	Illegal        = MoveCheck{checkIllegal}
	Legal          = MoveCheck{checkLegal}
	LegalPromotion = MoveCheck{checkLegalPromotion}
)

func (c MoveCheck) Legal() bool { return c.result != checkIllegal }

// RequiresPromotion is only true for legal pawn moves onto the last rank.
func (c MoveCheck) RequiresPromotion() bool { return c.result == checkLegalPromotion }

func (c MoveCheck) String() string {
	switch c.result {
	case checkLegal:
		return "legal"
	case checkLegalPromotion:
		return "legal, promotion required"
	}
	return "illegal"
}

func (g *Game) PieceAt(sq rules.Square) (rules.Piece, bool) {
	p := g.pos.PieceAt(sq)
	return p, !p.Empty()
}

func (g *Game) ColorAt(sq rules.Square) (rules.Color, bool) {
	p, ok := g.PieceAt(sq)
	return p.Color, ok
}

// LegalMoves lists every move the side to move could commit right now. It is
// empty while a bonus is pending and once the game is over.
func (g *Game) LegalMoves() []rules.Move {
	if g.bonusPending || g.Status().Over() {
		return nil
	}
	return g.pos.LegalMoves()
}

// LegalDestinations enumerates where the piece on sq can go. It is empty when
// the square is empty or holds a piece of the side not to move.
func (g *Game) LegalDestinations(sq rules.Square) []Destination {
	p, ok := g.PieceAt(sq)
	if !ok || p.Color != g.SideToMove() {
		return nil
	}
	var out []Destination
	for _, m := range g.LegalMoves() {
		if m.From != sq {
			continue
		}
		if m.Promotion != rules.NoKind && m.Promotion != rules.Queen {
			continue
		}
		out = append(out, Destination{To: m.To, CausesCheck: g.pos.GivesCheck(m)})
	}
	return out
}

func (g *Game) CheckMove(from, to rules.Square) MoveCheck {
	result := Illegal
	for _, m := range g.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Promotion != rules.NoKind {
			return LegalPromotion
		}
		result = Legal
	}
	return result
}

// CheckedSquares lists the squares of kings currently in check.
func (g *Game) CheckedSquares() []rules.Square {
	var out []rules.Square
	for _, c := range [2]rules.Color{rules.White, rules.Black} {
		if !g.pos.InCheck(c) {
			continue
		}
		if sq, ok := g.pos.KingSquare(c); ok {
			out = append(out, sq)
		}
	}
	return out
}
