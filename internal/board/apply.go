package board

// Apply executes an already-validated move and returns the resulting board.
// The receiver is never mutated: speculative applications during validation
// cannot leak into authoritative state.
func (b *Board) Apply(m Move) *Board {
	n := b.Clone()
	p := n.At(m.From)
	if p == nil {
		return n
	}

	captured := n.At(m.To)
	capturedKind := Kind("")
	if captured != nil {
		capturedKind = captured.Kind
	}

	// en passant: the captured pawn sits behind the target square
	if p.Kind == Pawn && n.EnPassant != nil && m.To == *n.EnPassant && captured == nil {
		victim := Square{Rank: m.To.Rank - pawnDir(p.Color), File: m.To.File}
		n.Grid[victim.Rank][victim.File] = nil
		capturedKind = Pawn
	}

	n.Grid[m.From.Rank][m.From.File] = nil
	placed := p
	if p.Kind == Pawn && m.To.Rank == promotionRank(p.Color) && m.Promotion != "" {
		placed = &Piece{Kind: m.Promotion, Color: p.Color}
	}
	n.Grid[m.To.Rank][m.To.File] = placed

	// castle: relocate the rook across the king
	if p.Kind == King && m.From.File == 4 && m.From.Rank == m.To.Rank {
		switch m.To.File {
		case 6:
			n.Grid[m.To.Rank][5] = n.Grid[m.To.Rank][7]
			n.Grid[m.To.Rank][7] = nil
		case 2:
			n.Grid[m.To.Rank][3] = n.Grid[m.To.Rank][0]
			n.Grid[m.To.Rank][0] = nil
		}
	}

	n.updateCastlingRights(p, m)

	// en-passant target only after a double pawn push
	n.EnPassant = nil
	if p.Kind == Pawn && (m.To.Rank-m.From.Rank == 2 || m.From.Rank-m.To.Rank == 2) {
		n.EnPassant = &Square{Rank: (m.From.Rank + m.To.Rank) / 2, File: m.From.File}
	}

	if p.Kind == Pawn || capturedKind != "" {
		n.HalfmoveClock = 0
	} else {
		n.HalfmoveClock++
	}
	if p.Color == Black {
		n.FullmoveNumber++
	}

	n.History = append(n.History, Record{
		Move:     m,
		Piece:    p.Kind,
		Color:    p.Color,
		Captured: capturedKind,
	})
	n.Turn = p.Color.Opponent()
	return n
}

func (b *Board) updateCastlingRights(p *Piece, m Move) {
	if p.Kind == King {
		if p.Color == White {
			b.Castling.WhiteKingside, b.Castling.WhiteQueenside = false, false
		} else {
			b.Castling.BlackKingside, b.Castling.BlackQueenside = false, false
		}
	}
	// a rook leaving or a capture landing on a corner kills that wing
	for _, sq := range [2]Square{m.From, m.To} {
		switch sq {
		case Square{Rank: 7, File: 0}:
			b.Castling.WhiteQueenside = false
		case Square{Rank: 7, File: 7}:
			b.Castling.WhiteKingside = false
		case Square{Rank: 0, File: 0}:
			b.Castling.BlackQueenside = false
		case Square{Rank: 0, File: 7}:
			b.Castling.BlackKingside = false
		}
	}
}
