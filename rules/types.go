package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

var (
	ErrBadSquare = errors.New("bad square")
	ErrBadMove   = errors.New("bad move")
	ErrBadFEN    = errors.New("bad fen")
	ErrIllegal   = errors.New("illegal move")
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind follows dragontoothmg's piece numbering so conversions are plain casts.
type Kind uint8

const (
	NoKind Kind = 0
	Pawn   Kind = Kind(dragontoothmg.Pawn)
	Knight Kind = Kind(dragontoothmg.Knight)
	Bishop Kind = Kind(dragontoothmg.Bishop)
	Rook   Kind = Kind(dragontoothmg.Rook)
	Queen  Kind = Kind(dragontoothmg.Queen)
	King   Kind = Kind(dragontoothmg.King)
)

// PromotionKinds is ordered the way the search tries them.
var PromotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

var kindLetters = [7]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// CanPromoteTo reports whether a pawn may become k.
func (k Kind) CanPromoteTo() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// KindFromLetter accepts either case of "pnbrqk".
func KindFromLetter(r byte) (Kind, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == r {
			return k, true
		}
	}
	return NoKind, false
}

// Piece is a (kind, color) pair. The zero value means an empty square.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

func (p Piece) Empty() bool { return p.Kind == NoKind }

// Letter gives the FEN letter, upper case for white.
func (p Piece) Letter() byte {
	if p.Empty() {
		return '.'
	}
	l := kindLetters[p.Kind]
	if p.Color == White {
		l -= 'a' - 'A'
	}
	return l
}

// Square is a (file, rank) pair with a1 = (0, 0) and h8 = (7, 7).
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

func (s Square) index() uint8 {
	return uint8(s.Rank*8 + s.File)
}

func squareAt(idx uint8) Square {
	return Square{File: int(idx % 8), Rank: int(idx / 8)}
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	sq := Square{File: int(str[0]) - 'a', Rank: int(str[1]) - '1'}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	return sq, nil
}

// AllSquares lists a1..h8 in index order.
func AllSquares() []Square {
	squares := make([]Square, 64)
	for i := range squares {
		squares[i] = squareAt(uint8(i))
	}
	return squares
}

// Move is a from/to pair plus an optional promotion kind (NoKind when absent).
type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
}

func (m Move) IsZero() bool { return m == Move{} }

// String renders coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(kindLetters[m.Promotion])
	}
	return s
}

// ParseMove reads coordinate notation. Legality is not checked here.
func ParseMove(str string) (Move, error) {
	str = strings.TrimSpace(str)
	if len(str) != 4 && len(str) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	from, err := ParseSquare(str[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	to, err := ParseSquare(str[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	m := Move{From: from, To: to}
	if len(str) == 5 {
		k, ok := KindFromLetter(str[4])
		if !ok || !k.CanPromoteTo() {
			return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
		}
		m.Promotion = k
	}
	return m, nil
}

func fromLibrary(mv dragontoothmg.Move) Move {
	return Move{
		From:      squareAt(mv.From()),
		To:        squareAt(mv.To()),
		Promotion: Kind(mv.Promote()),
	}
}

type StatusKind uint8

const (
	InProgress StatusKind = iota
	Won
	Draw
)

// Status is derived from a position; Winner is only meaningful when Kind is Won.
type Status struct {
	Kind   StatusKind
	Winner Color
}

func (s Status) Over() bool { return s.Kind != InProgress }

func (s Status) String() string {
	switch s.Kind {
	case Won:
		return s.Winner.String() + " wins"
	case Draw:
		return "draw"
	}
	return "in progress"
}
