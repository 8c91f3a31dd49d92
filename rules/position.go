package rules

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is an immutable-by-convention snapshot. Every method that changes the
// position returns a new value; the receiver is never modified.
type Position struct {
	board    dragontoothmg.Board
	halfmove int
}

// Child pairs a legal move with the position it leads to.
type Child struct {
	Move Move
	Pos  Position
}

// StartPosition is the standard array with first to move.
func StartPosition(first Color) Position {
	pos, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	if first == Black {
		return pos.WithSideToMove(Black)
	}
	return pos
}

// FromFEN accepts four to six FEN fields. Both kings must be on the board.
func FromFEN(fen string) (pos Position, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrBadFEN, len(fields))
	}
	if err := checkPlacement(fields[0]); err != nil {
		return Position{}, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return Position{}, fmt.Errorf("%w: side %q", ErrBadFEN, fields[1])
	}
	halfmove := 0
	if len(fields) >= 5 {
		halfmove, err = strconv.Atoi(fields[4])
		if err != nil || halfmove < 0 {
			return Position{}, fmt.Errorf("%w: half-move clock %q", ErrBadFEN, fields[4])
		}
	}
	for len(fields) < 6 {
		if len(fields) == 4 {
			fields = append(fields, "0")
		} else {
			fields = append(fields, "1")
		}
	}
	// The library keeps its own clock in a uint8; it only needs a value it can parse.
	fields[4] = "0"

	defer func() {
		if r := recover(); r != nil {
			pos = Position{}
			err = fmt.Errorf("%w: %v", ErrBadFEN, r)
		}
	}()
	pos = Position{
		board:    dragontoothmg.ParseFen(strings.Join(fields, " ")),
		halfmove: halfmove,
	}
	if bits.OnesCount64(pos.board.White.Kings) != 1 || bits.OnesCount64(pos.board.Black.Kings) != 1 {
		return Position{}, fmt.Errorf("%w: each side needs exactly one king", ErrBadFEN)
	}
	if fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: en-passant square %q", ErrBadFEN, fields[3])
		}
		pos = pos.settleEnPassant(target.index())
	}
	return pos, nil
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrBadFEN, len(ranks))
	}
	for _, rank := range ranks {
		width := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			switch {
			case c >= '1' && c <= '8':
				width += int(c - '0')
			default:
				if _, ok := KindFromLetter(c); !ok {
					return fmt.Errorf("%w: piece %q", ErrBadFEN, c)
				}
				width++
			}
		}
		if width != 8 {
			return fmt.Errorf("%w: rank %q", ErrBadFEN, rank)
		}
	}
	return nil
}

// FEN renders the position with this package's half-move clock.
func (p Position) FEN() string {
	fields := strings.Fields(p.board.ToFen())
	for len(fields) < 6 {
		fields = append(fields, "1")
	}
	fields[4] = strconv.Itoa(p.halfmove)
	return strings.Join(fields, " ")
}

// Hash is the library's Zobrist key over placement, side to move, castling
// rights and the en-passant target. The clocks do not enter it, so it doubles
// as the repetition key.
func (p Position) Hash() uint64 { return p.board.Hash() }

func (p Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

func (p Position) Halfmove() int { return p.halfmove }

func (p Position) bitboards(c Color) *dragontoothmg.Bitboards {
	if c == White {
		return &p.board.White
	}
	return &p.board.Black
}

func (p Position) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	mask := uint64(1) << sq.index()
	for _, c := range [2]Color{White, Black} {
		bb := p.bitboards(c)
		if bb.All&mask == 0 {
			continue
		}
		switch {
		case bb.Pawns&mask != 0:
			return Piece{Kind: Pawn, Color: c}
		case bb.Knights&mask != 0:
			return Piece{Kind: Knight, Color: c}
		case bb.Bishops&mask != 0:
			return Piece{Kind: Bishop, Color: c}
		case bb.Rooks&mask != 0:
			return Piece{Kind: Rook, Color: c}
		case bb.Queens&mask != 0:
			return Piece{Kind: Queen, Color: c}
		case bb.Kings&mask != 0:
			return Piece{Kind: King, Color: c}
		}
	}
	return Piece{}
}

// Board returns all 64 squares indexed by rank*8+file.
func (p Position) Board() [64]Piece {
	var board [64]Piece
	for i := range board {
		board[i] = p.PieceAt(squareAt(uint8(i)))
	}
	return board
}

func (p Position) HasKing(c Color) bool {
	return p.bitboards(c).Kings != 0
}

// KingSquare reports false when c has no king, which only happens after a king
// was captured on a bonus turn.
func (p Position) KingSquare(c Color) (Square, bool) {
	kings := p.bitboards(c).Kings
	if kings == 0 {
		return Square{}, false
	}
	return squareAt(uint8(bits.TrailingZeros64(kings))), true
}

// InCheck works for either colour, not just the side to move.
func (p Position) InCheck(c Color) bool {
	sq, ok := p.KingSquare(c)
	if !ok {
		return false
	}
	return p.attacked(sq.index(), c.Opponent())
}

// PieceCount counts every piece on the board, kings included.
func (p Position) PieceCount() int {
	return bits.OnesCount64(p.board.White.All | p.board.Black.All)
}

// KingExposure counts the empty squares from which a knight, bishop or rook
// could reach c's king. It is 0 when c has no king.
func (p Position) KingExposure(c Color) int {
	sq, ok := p.KingSquare(c)
	if !ok {
		return 0
	}
	idx := sq.index()
	occupied := p.board.White.All | p.board.Black.All
	reach := knightAttacks[idx] |
		dragontoothmg.CalculateRookMoveBitboard(idx, occupied) |
		dragontoothmg.CalculateBishopMoveBitboard(idx, occupied)
	return bits.OnesCount64(reach &^ occupied)
}

func (p Position) bothKings() bool {
	return p.board.White.Kings != 0 && p.board.Black.Kings != 0
}

// LegalMoves is empty once a king has been captured.
func (p Position) LegalMoves() []Move {
	if !p.bothKings() {
		return nil
	}
	b := p.board
	raw := b.GenerateLegalMoves()
	moves := make([]Move, 0, len(raw))
	for _, mv := range raw {
		moves = append(moves, fromLibrary(mv))
	}
	return moves
}

func (p Position) MoveCount() int {
	if !p.bothKings() {
		return 0
	}
	b := p.board
	return len(b.GenerateLegalMoves())
}

// Expand applies every legal move, in generator order.
func (p Position) Expand() []Child {
	if !p.bothKings() {
		return nil
	}
	b := p.board
	raw := b.GenerateLegalMoves()
	children := make([]Child, 0, len(raw))
	for _, mv := range raw {
		children = append(children, Child{Move: fromLibrary(mv), Pos: p.play(mv)})
	}
	return children
}

// Apply validates m against the legal moves and returns the resulting position.
func (p Position) Apply(m Move) (Position, error) {
	if !p.bothKings() {
		return Position{}, fmt.Errorf("%w: %s", ErrIllegal, m)
	}
	b := p.board
	for _, mv := range b.GenerateLegalMoves() {
		if fromLibrary(mv) == m {
			return p.play(mv), nil
		}
	}
	return Position{}, fmt.Errorf("%w: %s", ErrIllegal, m)
}

func (p Position) play(mv dragontoothmg.Move) Position {
	next := p
	from, to := squareAt(mv.From()), squareAt(mv.To())
	pawn := p.PieceAt(from).Kind == Pawn
	if pawn || !p.PieceAt(to).Empty() {
		next.halfmove = 0
	} else {
		next.halfmove++
	}
	next.board.Apply(mv)
	if pawn && (to.Rank-from.Rank == 2 || from.Rank-to.Rank == 2) {
		next = next.settleEnPassant((mv.From() + mv.To()) / 2)
	}
	return next
}

// settleEnPassant keeps the en-passant target only if the side to move has a
// legal capture onto it. The library sets a target after every double push;
// without this, positions differing only by a dead target would not repeat.
func (p Position) settleEnPassant(target uint8) Position {
	us := p.SideToMove()
	pawns := p.bitboards(us).Pawns
	if pawnAttackers[us][target]&pawns != 0 {
		b := p.board
		for _, mv := range b.GenerateLegalMoves() {
			if mv.To() == target && mv.From()%8 != target%8 && pawns&(uint64(1)<<mv.From()) != 0 {
				return p
			}
		}
	}
	return p.WithSideToMove(us)
}

// GivesCheck reports whether playing m leaves the opponent in check. m must be legal.
func (p Position) GivesCheck(m Move) bool {
	next, err := p.Apply(m)
	if err != nil {
		return false
	}
	return next.InCheck(p.SideToMove().Opponent())
}

// WithSideToMove hands the move to c. The en-passant target is always dropped:
// after a bonus it belonged to the reply that was skipped.
func (p Position) WithSideToMove(c Color) Position {
	fields := strings.Fields(p.board.ToFen())
	for len(fields) < 6 {
		fields = append(fields, "1")
	}
	if c == White {
		fields[1] = "w"
	} else {
		fields[1] = "b"
	}
	fields[3] = "-"
	fields[4] = "0"
	return Position{
		board:    dragontoothmg.ParseFen(strings.Join(fields, " ")),
		halfmove: p.halfmove,
	}
}

// attacked reports whether any piece of colour by attacks square idx.
func (p Position) attacked(idx uint8, by Color) bool {
	bb := p.bitboards(by)
	occupied := p.board.White.All | p.board.Black.All
	if knightAttacks[idx]&bb.Knights != 0 || kingAttacks[idx]&bb.Kings != 0 {
		return true
	}
	if pawnAttackers[by][idx]&bb.Pawns != 0 {
		return true
	}
	if dragontoothmg.CalculateRookMoveBitboard(idx, occupied)&(bb.Rooks|bb.Queens) != 0 {
		return true
	}
	return dragontoothmg.CalculateBishopMoveBitboard(idx, occupied)&(bb.Bishops|bb.Queens) != 0
}

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	// pawnAttackers[c][sq] holds the squares from which a pawn of colour c hits sq.
	pawnAttackers [2][64]uint64
)

func init() {
	jumps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	steps := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for i := 0; i < 64; i++ {
		sq := squareAt(uint8(i))
		for _, d := range jumps {
			if t := (Square{File: sq.File + d[0], Rank: sq.Rank + d[1]}); t.Valid() {
				knightAttacks[i] |= 1 << t.index()
			}
		}
		for _, d := range steps {
			if t := (Square{File: sq.File + d[0], Rank: sq.Rank + d[1]}); t.Valid() {
				kingAttacks[i] |= 1 << t.index()
			}
		}
		for _, df := range [2]int{-1, 1} {
			if t := (Square{File: sq.File + df, Rank: sq.Rank - 1}); t.Valid() {
				pawnAttackers[White][i] |= 1 << t.index()
			}
			if t := (Square{File: sq.File + df, Rank: sq.Rank + 1}); t.Valid() {
				pawnAttackers[Black][i] |= 1 << t.index()
			}
		}
	}
}
