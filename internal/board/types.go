package board

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Kind identifies a piece type.
type Kind string

const (
	Pawn   Kind = "pawn"
	Knight Kind = "knight"
	Bishop Kind = "bishop"
	Rook   Kind = "rook"
	Queen  Kind = "queen"
	King   Kind = "king"
)

// Piece is a tagged {kind, color} pair. Pieces are immutable once placed;
// Apply swaps pointers instead of mutating in place so cloned boards may
// share them.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

// Square addresses the grid as (rank, file), rank 0 being black's back rank.
// White's double pawn push is therefore (6,f) → (4,f).
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

// InBounds reports whether the square lies on the 8×8 grid.
func (s Square) InBounds() bool {
	return s.Rank >= 0 && s.Rank < 8 && s.File >= 0 && s.File < 8
}

// Algebraic renders the square as e.g. "e4". Out-of-bounds squares render as "-".
func (s Square) Algebraic() string {
	if !s.InBounds() {
		return "-"
	}
	return string(rune('a'+s.File)) + string(rune('8'-s.Rank))
}

// Move is a from/to pair with an optional promotion kind.
type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
}

// UCI renders the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) UCI() string {
	s := m.From.Algebraic() + m.To.Algebraic()
	switch m.Promotion {
	case Queen:
		s += "q"
	case Rook:
		s += "r"
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	}
	return s
}

// Record is one entry of the move history: the accepted move annotated with
// what moved and what it captured, enough to present a game without replay.
type Record struct {
	Move     Move  `json:"move"`
	Piece    Kind  `json:"piece"`
	Color    Color `json:"color"`
	Captured Kind  `json:"captured,omitempty"`
}

// CastlingRights tracks per-side per-wing eligibility.
type CastlingRights struct {
	WhiteKingside  bool `json:"white_kingside"`
	WhiteQueenside bool `json:"white_queenside"`
	BlackKingside  bool `json:"black_kingside"`
	BlackQueenside bool `json:"black_queenside"`
}

// Status is the terminal-state classification for the side to move.
type Status string

const (
	StatusOngoing              Status = "ongoing"
	StatusCheckmate            Status = "checkmate"
	StatusStalemate            Status = "stalemate"
	StatusInsufficientMaterial Status = "insufficient_material"
)

// Validation errors, in the order Validate checks them.
var (
	ErrInvalidCoordinates  = errf("invalid coordinates")
	ErrNoPieceAtSource     = errf("no piece at source")
	ErrNotYourPiece        = errf("not your piece")
	ErrIllegalMove         = errf("illegal move for piece")
	ErrPromotionRequired   = errf("promotion required")
	ErrInvalidPromotion    = errf("invalid promotion piece")
	ErrSelfCheck           = errf("move leaves king in check")
	ErrCastleThroughCheck  = errf("cannot castle through check")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }

func errf(s string) error { return staticErr(s) }
