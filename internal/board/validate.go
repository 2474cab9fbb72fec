package board

// Validate is the sequential gate in front of the move generator: the checks
// run in a fixed order and short-circuit on the first failure so error
// reporting is deterministic. A nil return authorizes the caller to Apply the
// move; Validate itself never mutates the board.
func (b *Board) Validate(from, to Square, promotion Kind) error {
	if !from.InBounds() || !to.InBounds() {
		return ErrInvalidCoordinates
	}
	p := b.At(from)
	if p == nil {
		return ErrNoPieceAtSource
	}
	// ownership doubles as turn enforcement
	if p.Color != b.Turn {
		return ErrNotYourPiece
	}
	if !containsSquare(b.Destinations(from), to) {
		return ErrIllegalMove
	}
	if p.Kind == Pawn && to.Rank == promotionRank(p.Color) {
		if promotion == "" {
			return ErrPromotionRequired
		}
		switch promotion {
		case Queen, Rook, Bishop, Knight:
		default:
			return ErrInvalidPromotion
		}
	} else if promotion != "" {
		// a supplied promotion on a non-promoting move is ignored, not an error
		promotion = ""
	}
	if b.Apply(Move{From: from, To: to, Promotion: promotion}).InCheck(p.Color) {
		return ErrSelfCheck
	}
	if b.isCastle(from, to) && !b.castleSafe(from, to, p.Color) {
		return ErrCastleThroughCheck
	}
	return nil
}

func containsSquare(list []Square, sq Square) bool {
	for _, s := range list {
		if s == sq {
			return true
		}
	}
	return false
}
