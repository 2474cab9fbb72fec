package session

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/internal/connmgr"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
	"github.com/flaviengibs/chess-sub000/internal/room"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// resolveSeat maps a connection and room code to the caller's seat. The room
// is returned unlocked; callers lock it and re-check Status for the game
// phase they need.
func (o *Orchestrator) resolveSeat(conn connmgr.Conn, code string) (*room.Room, board.Color, bool) {
	identity, ok := o.conns.Identity(conn)
	if !ok {
		o.sendError(conn, "not_in_room", nil)
		return nil, "", false
	}
	r, ok := o.rooms.Get(code)
	if !ok {
		o.sendError(conn, "room_not_found", nil)
		return nil, "", false
	}
	r.Lock()
	_, color, seated := r.SeatOf(identity)
	r.Unlock()
	if !seated {
		o.sendError(conn, "not_in_room", nil)
		return nil, "", false
	}
	return r, color, true
}

// MakeMove validates and applies one move intent. Rejections go to the
// sender alone as move-invalid; accepted moves update the authoritative
// board and broadcast move-made to both seats. A terminal position runs the
// end-game sequence before the lock is released.
func (o *Orchestrator) MakeMove(_ context.Context, conn connmgr.Conn, req chessdto.MoveRequest) {
	r, color, ok := o.resolveSeat(conn, req.Room)
	if !ok {
		return
	}
	from, to, promo := boardMove(req)

	r.Lock()
	defer r.Unlock()
	if r.Status != room.StatusActive || r.Board == nil {
		o.sendError(conn, "room_not_active", nil)
		return
	}
	if err := r.Board.Validate(from, to, promo); err != nil {
		o.sendTo(conn, chessdto.EvMoveInvalid, chessdto.MoveInvalid{Error: err.Error()})
		return
	}
	if color != r.Board.Turn {
		// legal for the side to move, but sent by the other seat
		o.sendTo(conn, chessdto.EvMoveInvalid, chessdto.MoveInvalid{Error: board.ErrNotYourPiece.Error()})
		return
	}

	mv := board.Move{From: from, To: to, Promotion: promo}
	r.Board = r.Board.Apply(mv)
	r.LastActivity = time.Now()
	status := r.Board.Status()

	payload := chessdto.MoveMade{Move: moveDTO(mv), State: stateDTO(r.Board, status)}
	o.sendTo(r.White.Conn, chessdto.EvMoveMade, payload)
	o.sendTo(r.Black.Conn, chessdto.EvMoveMade, payload)

	switch status {
	case board.StatusCheckmate:
		// the mated side is the one now to move
		o.endGameLocked(r, ReasonCheckmate, r.Board.Turn.Opponent())
	case board.StatusStalemate:
		o.endGameLocked(r, ReasonStalemate, "")
	case board.StatusInsufficientMaterial:
		o.endGameLocked(r, ReasonDraw, "")
	}
}

// Chat relays a validated message to both seats, sender included.
func (o *Orchestrator) Chat(_ context.Context, conn connmgr.Conn, req chessdto.ChatRequest) {
	r, color, ok := o.resolveSeat(conn, req.Room)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		o.sendError(conn, "chat_empty", nil)
		return
	}
	if n := utf8.RuneCountInString(req.Message); n > o.maxChatRunes {
		o.sendError(conn, "chat_too_long", map[string]any{"Max": o.maxChatRunes})
		return
	}

	r.Lock()
	defer r.Unlock()
	sender := r.Seat(color)
	if sender == nil {
		return
	}
	msg := chessdto.ChatMessage{
		Sender:    sender.Name,
		Message:   req.Message,
		Timestamp: time.Now().UnixMilli(),
	}
	o.sendTo(r.White.Conn, chessdto.EvChatMessage, msg)
	if r.Black != nil {
		o.sendTo(r.Black.Conn, chessdto.EvChatMessage, msg)
	}
}

// OfferDraw records a pending offer and notifies the opponent. A repeated
// offer by the same side just re-notifies.
func (o *Orchestrator) OfferDraw(_ context.Context, conn connmgr.Conn, req chessdto.DrawOfferRequest) {
	r, color, ok := o.resolveSeat(conn, req.Room)
	if !ok {
		return
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != room.StatusActive {
		o.sendError(conn, "room_not_active", nil)
		return
	}
	r.DrawOfferBy = color
	if opp := r.Seat(color.Opponent()); opp != nil {
		o.sendTo(opp.Conn, chessdto.EvDrawOffered, struct{}{})
	}
	obslog.L().Info("draw_offered", zap.String("room", r.Code), zap.String("by", string(color)))
}

// RespondDraw accepts or declines the pending offer. Only the non-offering
// side may respond; acceptance ends the game as an agreed draw.
func (o *Orchestrator) RespondDraw(_ context.Context, conn connmgr.Conn, req chessdto.DrawResponseRequest) {
	r, color, ok := o.resolveSeat(conn, req.Room)
	if !ok {
		return
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != room.StatusActive {
		o.sendError(conn, "room_not_active", nil)
		return
	}
	if r.DrawOfferBy == "" || r.DrawOfferBy == color {
		o.sendError(conn, "no_draw_offer", nil)
		return
	}
	offerer := r.Seat(r.DrawOfferBy)
	r.DrawOfferBy = ""
	if !req.Accept {
		if offerer != nil {
			o.sendTo(offerer.Conn, chessdto.EvDrawDeclined, struct{}{})
		}
		return
	}
	o.endGameLocked(r, ReasonDraw, "")
}

// Resign ends the game immediately in the opponent's favor.
func (o *Orchestrator) Resign(_ context.Context, conn connmgr.Conn, req chessdto.ResignRequest) {
	r, color, ok := o.resolveSeat(conn, req.Room)
	if !ok {
		return
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != room.StatusActive {
		o.sendError(conn, "room_not_active", nil)
		return
	}
	o.endGameLocked(r, ReasonResignation, color.Opponent())
}
