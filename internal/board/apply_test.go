package board

import "testing"

func TestDoublePushSetsEnPassantTarget(t *testing.T) {
	b := New()
	next := mustMove(t, b, Square{Rank: 6, File: 4}, Square{Rank: 4, File: 4}, "")
	if next.EnPassant == nil || *next.EnPassant != (Square{Rank: 5, File: 4}) {
		t.Fatalf("en passant target = %v, want e3", next.EnPassant)
	}
	if next.Turn != Black {
		t.Fatalf("turn = %s, want black", next.Turn)
	}
	// a single push must not set a target
	single := mustMove(t, b, Square{Rank: 6, File: 3}, Square{Rank: 5, File: 3}, "")
	if single.EnPassant != nil {
		t.Fatalf("single push set an en passant target")
	}
}

func TestEnPassantCaptureRemovesVictim(t *testing.T) {
	b := New()
	b = mustMove(t, b, Square{Rank: 6, File: 4}, Square{Rank: 4, File: 4}, "") // e4
	b = mustMove(t, b, Square{Rank: 1, File: 0}, Square{Rank: 2, File: 0}, "") // a6
	b = mustMove(t, b, Square{Rank: 4, File: 4}, Square{Rank: 3, File: 4}, "") // e5
	b = mustMove(t, b, Square{Rank: 1, File: 3}, Square{Rank: 3, File: 3}, "") // d5
	if b.EnPassant == nil || *b.EnPassant != (Square{Rank: 2, File: 3}) {
		t.Fatalf("en passant target = %v, want d6", b.EnPassant)
	}
	b = mustMove(t, b, Square{Rank: 3, File: 4}, Square{Rank: 2, File: 3}, "") // exd6
	if b.At(Square{Rank: 3, File: 3}) != nil {
		t.Fatalf("captured pawn still on d5")
	}
	if p := b.At(Square{Rank: 2, File: 3}); p == nil || p.Kind != Pawn || p.Color != White {
		t.Fatalf("capturing pawn not on d6")
	}
	last := b.History[len(b.History)-1]
	if last.Captured != Pawn {
		t.Fatalf("history captured = %q, want pawn", last.Captured)
	}
}

func TestPromotionReplacesPawn(t *testing.T) {
	b := &Board{Turn: White, FullmoveNumber: 1}
	put(b, 1, 0, Pawn, White)
	put(b, 7, 4, King, White)
	put(b, 0, 7, King, Black)
	next := mustMove(t, b, Square{Rank: 1, File: 0}, Square{Rank: 0, File: 0}, Queen)
	if p := next.At(Square{Rank: 0, File: 0}); p == nil || p.Kind != Queen || p.Color != White {
		t.Fatalf("promotion square holds %+v, want white queen", p)
	}
}

func TestKingsideCastleMovesRook(t *testing.T) {
	b := &Board{Turn: White, FullmoveNumber: 1}
	b.Castling.WhiteKingside = true
	put(b, 7, 4, King, White)
	put(b, 7, 7, Rook, White)
	put(b, 0, 4, King, Black)
	next := mustMove(t, b, Square{Rank: 7, File: 4}, Square{Rank: 7, File: 6}, "")
	if p := next.At(Square{Rank: 7, File: 6}); p == nil || p.Kind != King {
		t.Fatalf("king not on g1")
	}
	if p := next.At(Square{Rank: 7, File: 5}); p == nil || p.Kind != Rook {
		t.Fatalf("rook not on f1")
	}
	if next.At(Square{Rank: 7, File: 7}) != nil {
		t.Fatalf("rook still on h1")
	}
	if next.Castling.WhiteKingside || next.Castling.WhiteQueenside {
		t.Fatalf("castling rights survived the king move")
	}
}

func TestQueensideCastleMovesRook(t *testing.T) {
	b := &Board{Turn: Black, FullmoveNumber: 1}
	b.Castling.BlackQueenside = true
	put(b, 0, 4, King, Black)
	put(b, 0, 0, Rook, Black)
	put(b, 7, 4, King, White)
	next := mustMove(t, b, Square{Rank: 0, File: 4}, Square{Rank: 0, File: 2}, "")
	if p := next.At(Square{Rank: 0, File: 2}); p == nil || p.Kind != King {
		t.Fatalf("king not on c8")
	}
	if p := next.At(Square{Rank: 0, File: 3}); p == nil || p.Kind != Rook {
		t.Fatalf("rook not on d8")
	}
}

func TestRookMoveClearsOneWing(t *testing.T) {
	b := New()
	b = mustMove(t, b, Square{Rank: 6, File: 7}, Square{Rank: 4, File: 7}, "") // h4
	b = mustMove(t, b, Square{Rank: 1, File: 0}, Square{Rank: 2, File: 0}, "")
	b = mustMove(t, b, Square{Rank: 7, File: 7}, Square{Rank: 5, File: 7}, "") // Rh3
	if b.Castling.WhiteKingside {
		t.Fatalf("kingside right survived the rook move")
	}
	if !b.Castling.WhiteQueenside {
		t.Fatalf("queenside right lost without cause")
	}
}

func TestHalfmoveClockAndFullmoveNumber(t *testing.T) {
	b := New()
	b = mustMove(t, b, Square{Rank: 7, File: 6}, Square{Rank: 5, File: 5}, "") // Nf3
	if b.HalfmoveClock != 1 {
		t.Fatalf("halfmove clock = %d, want 1", b.HalfmoveClock)
	}
	if b.FullmoveNumber != 1 {
		t.Fatalf("fullmove = %d, want 1", b.FullmoveNumber)
	}
	b = mustMove(t, b, Square{Rank: 1, File: 4}, Square{Rank: 3, File: 4}, "") // e5, pawn resets
	if b.HalfmoveClock != 0 {
		t.Fatalf("halfmove clock = %d, want 0 after pawn move", b.HalfmoveClock)
	}
	if b.FullmoveNumber != 2 {
		t.Fatalf("fullmove = %d, want 2 after black's move", b.FullmoveNumber)
	}
}
