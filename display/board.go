// Package display turns game state into text for terminals and line protocols.
package display

import (
	"strings"

	"bonuschess/game"
	"bonuschess/rules"
)

// Painter wraps text in terminal colours, or leaves it alone.
type Painter struct {
	enabled bool
}

func NewPainter(enabled bool) Painter { return Painter{enabled: enabled} }

func (p Painter) Paint(color, s string) string {
	if !p.enabled {
		return s
	}
	return color + s + Reset
}

// Board draws the position with rank 8 on top. The squares of the last
// committed move are highlighted when colour is on.
func Board(g *game.Game, p Painter) string {
	var hot [2]rules.Square
	last, haveLast := g.History().At(g.History().Len() - 1)
	if haveLast {
		hot = last.HotSquares()
	}

	var b strings.Builder
	files := "  a b c d e f g h\n"
	b.WriteString(p.Paint(Cyan, files))
	for rank := 7; rank >= 0; rank-- {
		b.WriteString(p.Paint(Cyan, string(rune('1'+rank))))
		for file := 0; file < 8; file++ {
			sq := rules.Square{File: file, Rank: rank}
			b.WriteByte(' ')
			piece, ok := g.PieceAt(sq)
			cell := "."
			color := ""
			if ok {
				cell = string(piece.Letter())
				color = Blue
				if piece.Color == rules.Black {
					color = Red
				}
			}
			if haveLast && (sq == hot[0] || sq == hot[1]) {
				color = Yellow
			}
			if color == "" {
				b.WriteString(cell)
			} else {
				b.WriteString(p.Paint(color, cell))
			}
		}
		b.WriteByte(' ')
		b.WriteString(p.Paint(Cyan, string(rune('1'+rank))))
		b.WriteByte('\n')
	}
	b.WriteString(p.Paint(Cyan, files))
	return b.String()
}

// Turn describes whose move it is and whether a bonus flip is outstanding.
func Turn(g *game.Game, p Painter) string {
	if status := g.Status(); status.Over() {
		return p.Paint(Green, status.String())
	}
	if g.BonusPending() {
		last, _ := g.History().At(g.History().Len() - 1)
		return side(last.Mover(), p) + " moved, bonus flip pending"
	}
	return side(g.SideToMove(), p) + " to move"
}

func side(c rules.Color, p Painter) string {
	if c == rules.Black {
		return p.Paint(Red, "Black")
	}
	return p.Paint(Blue, "White")
}
