package board

// Attacked reports whether sq is attacked by any piece of color by. Used for
// check detection and for the castle king-safety rules. Pawn attacks are the
// diagonal captures only; the en-passant target does not matter here.
func (b *Board) Attacked(sq Square, by Color) bool {
	// pawn attacks: a pawn of `by` sitting one rank behind (from its view)
	// on an adjacent file attacks sq
	dir := pawnDir(by)
	for _, df := range [2]int{-1, 1} {
		from := Square{Rank: sq.Rank - dir, File: sq.File + df}
		if p := b.At(from); p != nil && p.Kind == Pawn && p.Color == by {
			return true
		}
	}

	for _, o := range knightOffsets {
		from := Square{Rank: sq.Rank + o[0], File: sq.File + o[1]}
		if p := b.At(from); p != nil && p.Kind == Knight && p.Color == by {
			return true
		}
	}

	for _, o := range kingOffsets {
		from := Square{Rank: sq.Rank + o[0], File: sq.File + o[1]}
		if p := b.At(from); p != nil && p.Kind == King && p.Color == by {
			return true
		}
	}

	if b.rayAttacked(sq, by, bishopRays[:], Bishop) {
		return true
	}
	return b.rayAttacked(sq, by, rookRays[:], Rook)
}

// rayAttacked scans outward along rays for the slider kind (or a queen).
func (b *Board) rayAttacked(sq Square, by Color, rays [][2]int, slider Kind) bool {
	for _, ray := range rays {
		to := sq
		for {
			to = Square{Rank: to.Rank + ray[0], File: to.File + ray[1]}
			if !to.InBounds() {
				break
			}
			p := b.At(to)
			if p == nil {
				continue
			}
			if p.Color == by && (p.Kind == slider || p.Kind == Queen) {
				return true
			}
			break
		}
	}
	return false
}
