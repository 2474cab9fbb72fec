package board

// pawnDir is the rank delta a pawn of the given color advances by.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRank(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRank is the far rank for the given color.
func promotionRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

var (
	knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	bishopRays    = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookRays      = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// Destinations returns the pseudo-legal destination squares for the piece at
// from: movement pattern, blocking and capture rules, the en-passant target and
// castling path/rights are honored; leaving one's own king attacked is not yet
// excluded. Empty when the square is empty or off the board.
func (b *Board) Destinations(from Square) []Square {
	p := b.At(from)
	if p == nil {
		return nil
	}
	switch p.Kind {
	case Pawn:
		return b.pawnDests(from, p.Color)
	case Knight:
		return b.stepDests(from, p.Color, knightOffsets[:])
	case Bishop:
		return b.rayDests(from, p.Color, bishopRays[:])
	case Rook:
		return b.rayDests(from, p.Color, rookRays[:])
	case Queen:
		dests := b.rayDests(from, p.Color, bishopRays[:])
		return append(dests, b.rayDests(from, p.Color, rookRays[:])...)
	case King:
		dests := b.stepDests(from, p.Color, kingOffsets[:])
		return append(dests, b.castleDests(from, p.Color)...)
	}
	return nil
}

func (b *Board) pawnDests(from Square, c Color) []Square {
	var dests []Square
	dir := pawnDir(c)

	one := Square{Rank: from.Rank + dir, File: from.File}
	if one.InBounds() && b.At(one) == nil {
		dests = append(dests, one)
		two := Square{Rank: from.Rank + 2*dir, File: from.File}
		if from.Rank == pawnStartRank(c) && b.At(two) == nil {
			dests = append(dests, two)
		}
	}
	for _, df := range [2]int{-1, 1} {
		diag := Square{Rank: from.Rank + dir, File: from.File + df}
		if !diag.InBounds() {
			continue
		}
		if t := b.At(diag); t != nil && t.Color != c {
			dests = append(dests, diag)
		} else if b.EnPassant != nil && diag == *b.EnPassant {
			dests = append(dests, diag)
		}
	}
	return dests
}

func (b *Board) stepDests(from Square, c Color, offsets [][2]int) []Square {
	var dests []Square
	for _, o := range offsets {
		to := Square{Rank: from.Rank + o[0], File: from.File + o[1]}
		if !to.InBounds() {
			continue
		}
		if t := b.At(to); t == nil || t.Color != c {
			dests = append(dests, to)
		}
	}
	return dests
}

func (b *Board) rayDests(from Square, c Color, rays [][2]int) []Square {
	var dests []Square
	for _, ray := range rays {
		to := from
		for {
			to = Square{Rank: to.Rank + ray[0], File: to.File + ray[1]}
			if !to.InBounds() {
				break
			}
			t := b.At(to)
			if t == nil {
				dests = append(dests, to)
				continue
			}
			if t.Color != c {
				dests = append(dests, to)
			}
			break
		}
	}
	return dests
}

// castleDests yields the king's two-square castle destinations when the rights
// are intact and the path is clear. King-safety conditions (not in, through or
// into check) are enforced by Validate, not here.
func (b *Board) castleDests(from Square, c Color) []Square {
	home := Square{Rank: promotionRank(c.Opponent()), File: 4}
	if from != home {
		return nil
	}
	kingside, queenside := b.Castling.WhiteKingside, b.Castling.WhiteQueenside
	if c == Black {
		kingside, queenside = b.Castling.BlackKingside, b.Castling.BlackQueenside
	}
	r := home.Rank
	var dests []Square
	if kingside && b.rookAt(Square{Rank: r, File: 7}, c) &&
		b.Grid[r][5] == nil && b.Grid[r][6] == nil {
		dests = append(dests, Square{Rank: r, File: 6})
	}
	if queenside && b.rookAt(Square{Rank: r, File: 0}, c) &&
		b.Grid[r][1] == nil && b.Grid[r][2] == nil && b.Grid[r][3] == nil {
		dests = append(dests, Square{Rank: r, File: 2})
	}
	return dests
}

func (b *Board) rookAt(sq Square, c Color) bool {
	p := b.At(sq)
	return p != nil && p.Kind == Rook && p.Color == c
}

// isCastle reports whether moving the piece at from to to is a castle attempt.
func (b *Board) isCastle(from, to Square) bool {
	p := b.At(from)
	if p == nil || p.Kind != King {
		return false
	}
	return from.File == 4 && (to.File == 6 || to.File == 2) && from.Rank == to.Rank
}
