package game

import "bonuschess/rules"

// Entry is the snapshot taken after one committed move.
type Entry struct {
	board [64]rules.Piece
	hot   [2]rules.Square
	move  rules.Move
	mover rules.Color
}

func newEntry(pos rules.Position, m rules.Move, mover rules.Color) Entry {
	return Entry{board: pos.Board(), hot: [2]rules.Square{m.From, m.To}, move: m, mover: mover}
}

func (e Entry) PieceAt(sq rules.Square) (rules.Piece, bool) {
	if !sq.Valid() {
		return rules.Piece{}, false
	}
	p := e.board[sq.Rank*8+sq.File]
	return p, !p.Empty()
}

func (e Entry) WasHot(sq rules.Square) bool {
	return sq == e.hot[0] || sq == e.hot[1]
}

func (e Entry) HotSquares() [2]rules.Square { return e.hot }
func (e Entry) Move() rules.Move            { return e.move }
func (e Entry) Mover() rules.Color          { return e.mover }

// History is append-only and indexed by ply from 0.
type History struct {
	entries []Entry
}

func (h *History) append(e Entry) {
	h.entries = append(h.entries, e)
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) At(ply int) (Entry, bool) {
	if ply < 0 || ply >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[ply], true
}

func (h *History) PieceAt(sq rules.Square, ply int) (rules.Piece, bool) {
	e, ok := h.At(ply)
	if !ok {
		return rules.Piece{}, false
	}
	return e.PieceAt(sq)
}

func (h *History) WasHot(sq rules.Square, ply int) bool {
	e, ok := h.At(ply)
	return ok && e.WasHot(sq)
}

// Entries returns a copy.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
