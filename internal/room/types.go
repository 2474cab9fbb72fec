package room

import (
	"sync"
	"time"

	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/internal/connmgr"
)

// Status is the room lifecycle state.
type Status string

const (
	StatusAwaitingOpponent Status = "awaiting-opponent"
	StatusActive           Status = "active"
	StatusEnded            Status = "ended"
)

var (
	ErrRoomNotFound  = errf("room not found")
	ErrSelfJoin      = errf("cannot join your own room")
	ErrRoomFull      = errf("room is full")
	ErrAlreadyInRoom = errf("already in a live room")
	ErrCodeSpace     = errf("could not allocate a unique room code")
)

// Seat is one side of a room: identity, profile and the live connection
// (nil while its player is inside a disconnection grace window).
type Seat struct {
	ID     string
	Name   string
	Rating int
	Conn   connmgr.Conn
}

// Room binds up to two players and one authoritative game state. All mutable
// fields are guarded by the embedded mutex, which is the room's single unit
// of exclusion: handlers lock it for the whole of any room-directed event.
type Room struct {
	sync.Mutex

	Code   string
	GameID string

	White *Seat
	Black *Seat

	Board  *board.Board // absent until both seats are filled
	Status Status

	// pending draw offer, by offering color; empty when none
	DrawOfferBy board.Color

	CreatedAt    time.Time
	LastActivity time.Time
}

// Seat returns the seat of the given color (may be nil).
func (r *Room) Seat(c board.Color) *Seat {
	if c == board.White {
		return r.White
	}
	return r.Black
}

// SeatOf returns the seat and color occupied by identity.
func (r *Room) SeatOf(identity string) (*Seat, board.Color, bool) {
	if r.White != nil && r.White.ID == identity {
		return r.White, board.White, true
	}
	if r.Black != nil && r.Black.ID == identity {
		return r.Black, board.Black, true
	}
	return nil, "", false
}

// Ticket is one matchmaking queue entry. At most one per identity; FIFO.
type Ticket struct {
	ID         string
	Name       string
	Rating     int
	Conn       connmgr.Conn
	EnqueuedAt time.Time
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

func errf(s string) error { return staticErr(s) }
