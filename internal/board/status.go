package board

// LegalMoves enumerates every legal move for the given side: pseudo-legal
// moves filtered to exclude those leaving the mover's own king attacked, with
// promotions expanded to the four legal kinds.
func (b *Board) LegalMoves(c Color) []Move {
	var moves []Move
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			from := Square{Rank: r, File: f}
			p := b.Grid[r][f]
			if p == nil || p.Color != c {
				continue
			}
			for _, to := range b.Destinations(from) {
				if b.isCastle(from, to) && !b.castleSafe(from, to, c) {
					continue
				}
				if p.Kind == Pawn && to.Rank == promotionRank(c) {
					for _, k := range [4]Kind{Queen, Rook, Bishop, Knight} {
						m := Move{From: from, To: to, Promotion: k}
						if !b.Apply(m).InCheck(c) {
							moves = append(moves, m)
						}
					}
					continue
				}
				m := Move{From: from, To: to}
				if !b.Apply(m).InCheck(c) {
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}

// castleSafe checks the king-safety leg of castling: the king is not in check
// and does not cross an attacked square. The landing square is covered by the
// ordinary self-check filter.
func (b *Board) castleSafe(from, to Square, c Color) bool {
	enemy := c.Opponent()
	if b.Attacked(from, enemy) {
		return false
	}
	mid := Square{Rank: from.Rank, File: (from.File + to.File) / 2}
	return !b.Attacked(mid, enemy)
}

// Status classifies the position for the side to move. Checkmate and
// stalemate follow from an empty legal-move set; insufficient material covers
// lone kings and king plus a single minor piece versus a lone king.
func (b *Board) Status() Status {
	if len(b.LegalMoves(b.Turn)) == 0 {
		if b.InCheck(b.Turn) {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if b.insufficientMaterial() {
		return StatusInsufficientMaterial
	}
	return StatusOngoing
}

func (b *Board) insufficientMaterial() bool {
	minors := 0
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b.Grid[r][f]
			if p == nil || p.Kind == King {
				continue
			}
			if p.Kind == Bishop || p.Kind == Knight {
				minors++
				continue
			}
			return false
		}
	}
	return minors <= 1
}
