package board

import (
	"strconv"
	"strings"
)

// Board is the full game position. It is mutated only through Apply, which
// clones first, so a *Board held by a caller never changes underneath it.
type Board struct {
	Grid           [8][8]*Piece   `json:"grid"`
	Turn           Color          `json:"turn"`
	Castling       CastlingRights `json:"castling"`
	EnPassant      *Square        `json:"en_passant,omitempty"`
	HalfmoveClock  int            `json:"halfmove_clock"`
	FullmoveNumber int            `json:"fullmove_number"`
	History        []Record       `json:"history"`
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns the standard starting position, white to move.
func New() *Board {
	b := &Board{
		Turn: White,
		Castling: CastlingRights{
			WhiteKingside: true, WhiteQueenside: true,
			BlackKingside: true, BlackQueenside: true,
		},
		FullmoveNumber: 1,
	}
	for f := 0; f < 8; f++ {
		b.Grid[0][f] = &Piece{Kind: backRank[f], Color: Black}
		b.Grid[1][f] = &Piece{Kind: Pawn, Color: Black}
		b.Grid[6][f] = &Piece{Kind: Pawn, Color: White}
		b.Grid[7][f] = &Piece{Kind: backRank[f], Color: White}
	}
	return b
}

// At returns the piece at sq, nil when empty or out of bounds.
func (b *Board) At(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return b.Grid[sq.Rank][sq.File]
}

// Clone returns a deep-enough copy: the grid array copies by value (pieces are
// immutable and shared), the history slice is duplicated.
func (b *Board) Clone() *Board {
	c := *b
	c.History = append([]Record(nil), b.History...)
	if b.EnPassant != nil {
		ep := *b.EnPassant
		c.EnPassant = &ep
	}
	return &c
}

// KingSquare locates the king of the given color. The one-king invariant is
// established by New and preserved by Apply.
func (b *Board) KingSquare(c Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b.Grid[r][f]
			if p != nil && p.Kind == King && p.Color == c {
				return Square{Rank: r, File: f}, true
			}
		}
	}
	return Square{}, false
}

// InCheck reports whether the given side's king is currently attacked.
func (b *Board) InCheck(c Color) bool {
	k, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return b.Attacked(k, c.Opponent())
}

// FEN renders the position in Forsyth–Edwards notation (no history).
func (b *Board) FEN() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.Grid[r][f]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if b.Turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	rights := ""
	if b.Castling.WhiteKingside {
		rights += "K"
	}
	if b.Castling.WhiteQueenside {
		rights += "Q"
	}
	if b.Castling.BlackKingside {
		rights += "k"
	}
	if b.Castling.BlackQueenside {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)
	sb.WriteByte(' ')
	if b.EnPassant != nil {
		sb.WriteString(b.EnPassant.Algebraic())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.FullmoveNumber))
	return sb.String()
}

func fenLetter(p *Piece) byte {
	var c byte
	switch p.Kind {
	case Pawn:
		c = 'p'
	case Knight:
		c = 'n'
	case Bishop:
		c = 'b'
	case Rook:
		c = 'r'
	case Queen:
		c = 'q'
	case King:
		c = 'k'
	}
	if p.Color == White {
		return c - 'a' + 'A'
	}
	return c
}
