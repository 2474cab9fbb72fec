// Package session glues the engine, rooms, connections, ratings and the
// profile backend into the event flow a connected client sees. Handlers are
// invoked by the transport with already-decoded payloads; every room-directed
// event runs under that room's lock from first check to last broadcast.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flaviengibs/chess-sub000/internal/connmgr"
	"github.com/flaviengibs/chess-sub000/internal/msgcat"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
	"github.com/flaviengibs/chess-sub000/internal/profile"
	"github.com/flaviengibs/chess-sub000/internal/room"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

const (
	profileFetchTimeout = 5 * time.Second
	resultSaveTimeout   = 10 * time.Second
)

// Options configures the orchestrator. Profiles is required; the rest have
// working defaults.
type Options struct {
	Profiles     profile.Provider
	Catalog      *msgcat.Catalog
	Grace        time.Duration
	MaxChatRunes int
}

// Orchestrator owns the room and connection managers and implements every
// inbound event.
type Orchestrator struct {
	rooms    *room.Manager
	conns    *connmgr.Manager
	profiles profile.Provider
	cat      *msgcat.Catalog

	maxChatRunes int
}

func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		rooms:        room.NewManager(),
		profiles:     opts.Profiles,
		cat:          opts.Catalog,
		maxChatRunes: opts.MaxChatRunes,
	}
	if o.maxChatRunes <= 0 {
		o.maxChatRunes = 500
	}
	o.conns = connmgr.NewManager(connmgr.Options{
		Grace:  opts.Grace,
		Seated: o.rooms.SeatLookup,
		Unqueue: func(identity string) {
			o.rooms.Unqueue(identity)
		},
		ClearSeat: o.rooms.ClearSeatConn,
		Reseat:    o.rooms.Reseat,
	})
	return o
}

// Rooms exposes the room manager for transport health checks and tests.
func (o *Orchestrator) Rooms() *room.Manager { return o.rooms }

// CreateRoom opens a private room and answers with its join code.
func (o *Orchestrator) CreateRoom(ctx context.Context, conn connmgr.Conn, req chessdto.CreateRoomRequest) {
	if req.Identity == "" {
		o.sendError(conn, "bad_request", nil)
		return
	}
	p := o.fetchProfile(ctx, req.Identity, req.Profile.DisplayName)
	if err := o.conns.Bind(req.Identity, conn); err != nil {
		o.sendError(conn, "reconnect_pending", nil)
		return
	}

	r, err := o.rooms.Create(p.Identity, p.DisplayName, p.Rating, conn)
	if err != nil {
		if err == room.ErrCodeSpace {
			obslog.L().Error("room_create_failed", zap.String("identity", req.Identity), zap.Error(err))
		}
		o.sendError(conn, roomErrorCode(err), nil)
		return
	}
	o.sendTo(conn, chessdto.EvRoomCreated, chessdto.RoomCreated{Code: r.Code})
}

// JoinRoom seats the caller as black and starts the game, announcing
// game-started to both players.
func (o *Orchestrator) JoinRoom(ctx context.Context, conn connmgr.Conn, req chessdto.JoinRoomRequest) {
	if req.Identity == "" || req.Code == "" {
		o.sendError(conn, "bad_request", nil)
		return
	}
	p := o.fetchProfile(ctx, req.Identity, req.Profile.DisplayName)
	if err := o.conns.Bind(req.Identity, conn); err != nil {
		o.sendError(conn, "reconnect_pending", nil)
		return
	}

	r, err := o.rooms.Join(req.Code, p.Identity, p.DisplayName, p.Rating, conn)
	if err != nil {
		o.sendError(conn, roomErrorCode(err), nil)
		return
	}
	o.announceStart(r)
}

func roomErrorCode(err error) string {
	switch err {
	case room.ErrRoomNotFound:
		return "room_not_found"
	case room.ErrSelfJoin:
		return "self_join"
	case room.ErrRoomFull:
		return "room_full"
	case room.ErrAlreadyInRoom:
		return "already_in_room"
	default:
		return "internal"
	}
}

// Enqueue puts the caller into the matchmaking queue and pairs the two
// oldest waiters when possible.
func (o *Orchestrator) Enqueue(ctx context.Context, conn connmgr.Conn, req chessdto.EnqueueRequest) {
	if req.Identity == "" {
		o.sendError(conn, "bad_request", nil)
		return
	}
	p := o.fetchProfile(ctx, req.Identity, req.Profile.DisplayName)
	if err := o.conns.Bind(req.Identity, conn); err != nil {
		o.sendError(conn, "reconnect_pending", nil)
		return
	}

	if err := o.rooms.Enqueue(&room.Ticket{ID: p.Identity, Name: p.DisplayName, Rating: p.Rating, Conn: conn}); err != nil {
		o.sendError(conn, roomErrorCode(err), nil)
		return
	}
	if r, ok := o.rooms.FindMatch(); ok {
		o.announceStart(r)
	}
}

// LeaveQueue withdraws the caller's matchmaking ticket, if any.
func (o *Orchestrator) LeaveQueue(_ context.Context, conn connmgr.Conn, req chessdto.LeaveQueueRequest) {
	if req.Identity == "" {
		if id, ok := o.conns.Identity(conn); ok {
			req.Identity = id
		}
	}
	if req.Identity != "" {
		o.rooms.Unqueue(req.Identity)
	}
}

// announceStart sends each seat its own game-started view: own color, the
// opponent's profile and the starting position.
func (o *Orchestrator) announceStart(r *room.Room) {
	r.Lock()
	white, black := r.White, r.Black
	state := stateDTO(r.Board, r.Board.Status())
	code := r.Code
	r.Unlock()

	o.sendTo(white.Conn, chessdto.EvGameStarted, chessdto.GameStarted{
		Room:         code,
		Color:        "white",
		Opponent:     chessdto.Profile{Identity: black.ID, DisplayName: black.Name, Rating: black.Rating},
		InitialState: state,
	})
	o.sendTo(black.Conn, chessdto.EvGameStarted, chessdto.GameStarted{
		Room:         code,
		Color:        "black",
		Opponent:     chessdto.Profile{Identity: white.ID, DisplayName: white.Name, Rating: white.Rating},
		InitialState: state,
	})
	obslog.L().Info("game_started", zap.String("room", code),
		zap.String("white_id", white.ID), zap.String("black_id", black.ID))
}

func (o *Orchestrator) fetchProfile(ctx context.Context, identity, displayName string) *chessdto.Profile {
	fctx, cancel := context.WithTimeout(ctx, profileFetchTimeout)
	defer cancel()
	p, err := o.profiles.Fetch(fctx, identity, displayName)
	if err != nil {
		obslog.L().Warn("profile_fetch_failed", zap.String("identity", identity), zap.Error(err))
		name := displayName
		if name == "" {
			name = identity
		}
		return &chessdto.Profile{Identity: identity, DisplayName: name, Rating: profile.DefaultRating}
	}
	return p
}

func (o *Orchestrator) sendTo(c connmgr.Conn, event string, payload any) {
	if c == nil {
		return
	}
	if err := c.Send(event, payload); err != nil {
		obslog.L().Warn("send_failed", zap.String("event", event), zap.Error(err))
	}
}

// Fail lets the transport emit scoped errors (malformed frames, rate limits)
// through the same catalog-backed path the handlers use.
func (o *Orchestrator) Fail(conn connmgr.Conn, code string) {
	o.sendError(conn, code, nil)
}

// sendError emits a scoped error envelope. Message text comes from the
// catalog; a missing template falls back to the bare code.
func (o *Orchestrator) sendError(conn connmgr.Conn, code string, data any) {
	msg := code
	if o.cat != nil {
		if rendered, err := o.cat.Render("error."+code, data); err == nil {
			msg = rendered
		}
	}
	o.sendTo(conn, chessdto.EvError, chessdto.DomainError{Code: code, Message: msg})
}
