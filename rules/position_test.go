package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, s string) Square {
	t.Helper()
	out, err := ParseSquare(s)
	require.NoError(t, err)
	return out
}

func mv(t *testing.T, s string) Move {
	t.Helper()
	out, err := ParseMove(s)
	require.NoError(t, err)
	return out
}

func mustFEN(t *testing.T, fen string) Position {
	t.Helper()
	pos, err := FromFEN(fen)
	require.NoError(t, err)
	return pos
}

func TestParseMove(t *testing.T) {
	m := mv(t, "e7e8q")
	require.Equal(t, Square{File: 4, Rank: 6}, m.From)
	require.Equal(t, Square{File: 4, Rank: 7}, m.To)
	require.Equal(t, Queen, m.Promotion)
	require.Equal(t, "e7e8q", m.String())

	for _, bad := range []string{"", "e2", "e2e9", "z1a1", "e7e8k", "e7e8p", "e2e4qq"} {
		_, err := ParseMove(bad)
		require.ErrorIs(t, err, ErrBadMove, bad)
	}
}

func TestStartPositionEitherColour(t *testing.T) {
	white := StartPosition(White)
	require.Equal(t, White, white.SideToMove())
	require.Len(t, white.LegalMoves(), 20)

	black := StartPosition(Black)
	require.Equal(t, Black, black.SideToMove())
	require.Len(t, black.LegalMoves(), 20)
	require.Equal(t, Piece{Kind: King, Color: Black}, black.PieceAt(sq(t, "e8")))
	require.Equal(t, Piece{Kind: Queen, Color: White}, black.PieceAt(sq(t, "d1")))
}

func TestFromFENRejectsMalformedInput(t *testing.T) {
	for _, fen := range []string{
		"",
		"not a fen at all",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"8/8/8/8/8/8/8/K7 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -3 1",
	} {
		_, err := FromFEN(fen)
		require.ErrorIs(t, err, ErrBadFEN, fen)
	}
}

func TestFENRoundTrip(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 37 60")
	require.Equal(t, 37, pos.Halfmove())
	again := mustFEN(t, pos.FEN())
	require.Equal(t, pos.Hash(), again.Hash())
	require.Equal(t, 37, again.Halfmove())

	short := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 b - -")
	require.Equal(t, Black, short.SideToMove())
	require.Equal(t, 0, short.Halfmove())
}

func TestApplyUpdatesBoardAndClock(t *testing.T) {
	pos := StartPosition(White)
	next, err := pos.Apply(mv(t, "g1f3"))
	require.NoError(t, err)
	require.Equal(t, Black, next.SideToMove())
	require.Equal(t, 1, next.Halfmove())
	require.True(t, next.PieceAt(sq(t, "g1")).Empty())
	require.Equal(t, Piece{Kind: Knight, Color: White}, next.PieceAt(sq(t, "f3")))

	next, err = next.Apply(mv(t, "e7e5"))
	require.NoError(t, err)
	require.Equal(t, 0, next.Halfmove())

	// the original is untouched
	require.Equal(t, Piece{Kind: Knight, Color: White}, pos.PieceAt(sq(t, "g1")))

	_, err = pos.Apply(mv(t, "e2e5"))
	require.ErrorIs(t, err, ErrIllegal)
	_, err = pos.Apply(mv(t, "e7e5"))
	require.ErrorIs(t, err, ErrIllegal)
}

func TestPromotionVariants(t *testing.T) {
	pos := mustFEN(t, "8/3P4/8/8/8/8/8/k3K3 w - - 0 1")
	var promos []Kind
	for _, m := range pos.LegalMoves() {
		if m.From == sq(t, "d7") {
			require.Equal(t, sq(t, "d8"), m.To)
			promos = append(promos, m.Promotion)
		}
	}
	require.ElementsMatch(t, PromotionKinds[:], promos)

	_, err := pos.Apply(mv(t, "d7d8"))
	require.ErrorIs(t, err, ErrIllegal)
	next, err := pos.Apply(mv(t, "d7d8n"))
	require.NoError(t, err)
	require.Equal(t, Piece{Kind: Knight, Color: White}, next.PieceAt(sq(t, "d8")))
}

func TestInCheckEitherColour(t *testing.T) {
	// white to move with black already in check: only reachable through a bonus turn
	pos := mustFEN(t, "4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	require.True(t, pos.InCheck(Black))
	require.False(t, pos.InCheck(White))

	pos = mustFEN(t, "4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	require.False(t, pos.InCheck(Black))
}

func TestKingCaptureEndsTheGame(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	next, err := pos.Apply(mv(t, "e2e8"))
	require.NoError(t, err)
	require.False(t, next.HasKing(Black))
	_, ok := next.KingSquare(Black)
	require.False(t, ok)
	require.Empty(t, next.LegalMoves())
	require.Zero(t, next.MoveCount())
	require.Equal(t, Status{Kind: Won, Winner: White}, next.Verdict(next.MoveCount(), 1))
}

func TestGivesCheck(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.True(t, pos.GivesCheck(mv(t, "a1a8")))
	require.False(t, pos.GivesCheck(mv(t, "a1a2")))
	require.False(t, pos.GivesCheck(mv(t, "a1h8")))
}

func TestWithSideToMoveClearsEnPassant(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.Contains(t, pos.LegalMoves(), mv(t, "e5d6"))

	again := pos.WithSideToMove(White)
	require.Equal(t, White, again.SideToMove())
	require.NotContains(t, again.LegalMoves(), mv(t, "e5d6"))

	handed := pos.WithSideToMove(Black)
	require.Equal(t, Black, handed.SideToMove())
	require.Equal(t, pos.Board(), handed.Board())
}

func TestExpandMatchesLegalMoves(t *testing.T) {
	pos := mustFEN(t, kiwipete)
	children := pos.Expand()
	moves := pos.LegalMoves()
	require.Len(t, children, len(moves))
	for i, child := range children {
		require.Equal(t, moves[i], child.Move)
		applied, err := pos.Apply(child.Move)
		require.NoError(t, err)
		require.Equal(t, applied.Hash(), child.Pos.Hash())
	}
}

func TestVerdict(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		reps int
		want Status
	}{
		{"start", StartFEN, 1, Status{Kind: InProgress}},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 1, Status{Kind: Won, Winner: Black}},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 1, Status{Kind: Draw}},
		{"fifty moves", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80", 1, Status{Kind: Draw}},
		{"threefold", "4k3/8/8/8/8/8/8/R3K3 w - - 4 80", 3, Status{Kind: Draw}},
		{"twofold", "4k3/8/8/8/8/8/8/R3K3 w - - 4 80", 2, Status{Kind: InProgress}},
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", 1, Status{Kind: Draw}},
		{"lone knight", "8/8/8/4k3/8/8/8/1N2K3 w - - 0 1", 1, Status{Kind: Draw}},
		{"same colour bishops", "8/8/8/4k3/8/8/2B5/3bK3 w - - 0 1", 1, Status{Kind: Draw}},
		{"opposite bishops", "8/8/8/4k3/8/8/2B2b2/4K3 w - - 0 1", 1, Status{Kind: InProgress}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			require.Equal(t, tc.want, pos.Verdict(pos.MoveCount(), tc.reps))
		})
	}
}

func epField(p Position) string {
	return strings.Fields(p.FEN())[3]
}

func TestHashMatchesFENRebuild(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipete, "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"} {
		root := mustFEN(t, fen)
		checked := 0
		for _, child := range root.Expand() {
			for _, grandchild := range child.Pos.Expand() {
				pos := grandchild.Pos
				require.Equal(t, pos.Hash(), mustFEN(t, pos.FEN()).Hash(), "%s then %s", child.Move, grandchild.Move)

				flipped := pos.WithSideToMove(pos.SideToMove().Opponent())
				require.NotEqual(t, pos.Hash(), flipped.Hash())
				require.Equal(t, pos.WithSideToMove(pos.SideToMove()).Hash(), flipped.WithSideToMove(pos.SideToMove()).Hash())
				checked++
			}
		}
		require.NotZero(t, checked)
	}
}

func TestDeadEnPassantTargetIsDropped(t *testing.T) {
	after, err := mustFEN(t, StartFEN).Apply(mv(t, "e2e4"))
	require.NoError(t, err)
	require.Equal(t, "-", epField(after))
	require.Equal(t, mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1").Hash(), after.Hash())

	live, err := mustFEN(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1").Apply(mv(t, "e2e4"))
	require.NoError(t, err)
	require.Equal(t, "e3", epField(live))
	require.Contains(t, live.LegalMoves(), mv(t, "d4e3"))

	// d4xe3 would open the fourth rank onto the black king
	pinned, err := mustFEN(t, "8/8/8/8/R2p3k/8/4P3/4K3 w - - 0 1").Apply(mv(t, "e2e4"))
	require.NoError(t, err)
	require.Equal(t, "-", epField(pinned))

	fromFEN := mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	require.Equal(t, "-", epField(fromFEN))
	require.Equal(t, after.Hash(), fromFEN.Hash())

	_, err = FromFEN("4k3/8/8/8/8/8/8/4K3 w - z9 0 1")
	require.ErrorIs(t, err, ErrBadFEN)
}

func TestPieceCountAndKingExposure(t *testing.T) {
	start, err := FromFEN(StartFEN)
	require.NoError(t, err)
	require.Equal(t, 32, start.PieceCount())
	// only the knight squares in front of a home king are open
	require.Equal(t, 2, start.KingExposure(White))
	require.Equal(t, 2, start.KingExposure(Black))

	bare, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.Equal(t, 2, bare.PieceCount())
	// 4 knight squares, 13 on the file and rank (e8 is taken), 7 on the diagonals
	require.Equal(t, 24, bare.KingExposure(White))
	require.Equal(t, 24, bare.KingExposure(Black))
}
