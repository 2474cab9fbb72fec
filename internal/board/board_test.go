package board

import "testing"

func mustMove(t *testing.T, b *Board, from, to Square, promo Kind) *Board {
	t.Helper()
	if err := b.Validate(from, to, promo); err != nil {
		t.Fatalf("validate %s%s: %v", from.Algebraic(), to.Algebraic(), err)
	}
	return b.Apply(Move{From: from, To: to, Promotion: promo})
}

func put(b *Board, r, f int, k Kind, c Color) {
	b.Grid[r][f] = &Piece{Kind: k, Color: c}
}

func TestNewStartingPosition(t *testing.T) {
	b := New()
	if b.Turn != White {
		t.Fatalf("turn = %s, want white", b.Turn)
	}
	count := 0
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b.Grid[r][f] != nil {
				count++
			}
		}
	}
	if count != 32 {
		t.Fatalf("piece count = %d, want 32", count)
	}
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	if got := b.FEN(); got != want {
		t.Fatalf("FEN = %q, want %q", got, want)
	}
}

func TestAlgebraicMapping(t *testing.T) {
	cases := []struct {
		sq   Square
		want string
	}{
		{Square{Rank: 7, File: 0}, "a1"},
		{Square{Rank: 6, File: 4}, "e2"},
		{Square{Rank: 4, File: 4}, "e4"},
		{Square{Rank: 0, File: 7}, "h8"},
		{Square{Rank: 8, File: 0}, "-"},
	}
	for _, c := range cases {
		if got := c.sq.Algebraic(); got != c.want {
			t.Fatalf("(%d,%d) = %q, want %q", c.sq.Rank, c.sq.File, got, c.want)
		}
	}
}

func TestApplyLeavesReceiverUntouched(t *testing.T) {
	b := New()
	before := b.FEN()
	next := b.Apply(Move{From: Square{Rank: 6, File: 4}, To: Square{Rank: 4, File: 4}})
	if b.FEN() != before {
		t.Fatalf("receiver mutated by Apply")
	}
	if next.FEN() == before {
		t.Fatalf("Apply returned an unchanged board")
	}
	if len(b.History) != 0 || len(next.History) != 1 {
		t.Fatalf("history lengths = %d/%d, want 0/1", len(b.History), len(next.History))
	}
}

func TestCloneIsolation(t *testing.T) {
	b := New()
	c := b.Clone()
	c.Grid[6][4] = nil
	c.Turn = Black
	if b.Grid[6][4] == nil || b.Turn != White {
		t.Fatalf("clone shares state with original")
	}
}

func TestInCheck(t *testing.T) {
	b := &Board{Turn: White, FullmoveNumber: 1}
	put(b, 7, 4, King, White)
	put(b, 0, 4, King, Black)
	put(b, 0, 0, Rook, Black)
	if b.InCheck(White) {
		t.Fatalf("white should not be in check yet")
	}
	put(b, 7, 0, Rook, Black) // a1, same rank as the white king
	if !b.InCheck(White) {
		t.Fatalf("white should be in check from the a1 rook")
	}
	if b.InCheck(Black) {
		t.Fatalf("black should not be in check")
	}
}

func TestUCIRendering(t *testing.T) {
	m := Move{From: Square{Rank: 6, File: 4}, To: Square{Rank: 4, File: 4}}
	if got := m.UCI(); got != "e2e4" {
		t.Fatalf("UCI = %q, want e2e4", got)
	}
	p := Move{From: Square{Rank: 1, File: 0}, To: Square{Rank: 0, File: 0}, Promotion: Queen}
	if got := p.UCI(); got != "a7a8q" {
		t.Fatalf("UCI = %q, want a7a8q", got)
	}
}
