package connmgr

import (
	"github.com/flaviengibs/chess-sub000/internal/board"
)

// Conn is the transport-facing handle the manager tracks per identity. The
// websocket transport implements it; tests use in-memory fakes.
type Conn interface {
	Send(event string, payload any) error
}

var (
	ErrNoActiveSession  = errf("no active session to reconnect")
	ErrSessionGone      = errf("session no longer exists")
	ErrPendingReconnect = errf("identity has a game awaiting reconnection")
)

// SeatedFunc resolves an identity to its seat in an active room, if any.
type SeatedFunc func(identity string) (roomCode string, color board.Color, ok bool)

// UnqueueFunc drops an identity from the matchmaking queue, if present.
type UnqueueFunc func(identity string)

// ClearSeatFunc clears the live connection reference from a seat.
type ClearSeatFunc func(roomCode string, color board.Color)

// ReseatFunc writes a restored connection back into a seat; false when the
// room no longer exists or has ended.
type ReseatFunc func(roomCode string, color board.Color, conn Conn) bool

// TimeoutFunc is invoked once when a disconnection grace period expires.
type TimeoutFunc func(roomCode, identity string, color board.Color)

type linkState int

const (
	stateConnected linkState = iota + 1
	stateDisconnected
)

// link is the one record kept per identity: either a live connection or a
// disconnection record with its grace timer, never both.
type link struct {
	state    linkState
	conn     Conn
	timer    *graceTimer
	roomCode string
	color    board.Color
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

func errf(s string) error { return staticErr(s) }
