// Package transport is the websocket edge: it upgrades connections, frames
// events as JSON envelopes, rate-limits inbound traffic per connection and
// hands decoded payloads to the session orchestrator.
package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/flaviengibs/chess-sub000/internal/config"
	"github.com/flaviengibs/chess-sub000/internal/connmgr"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
	"github.com/flaviengibs/chess-sub000/internal/session"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

type Server struct {
	cfg  *config.AppConfig
	orch *session.Orchestrator
}

func NewServer(cfg *config.AppConfig, orch *session.Orchestrator) *Server {
	return &Server{cfg: cfg, orch: orch}
}

// Router builds the HTTP surface: the websocket endpoint plus a liveness
// probe.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"queue":  s.orch.Rooms().QueueLen(),
	})
}

// inboundEnvelope defers payload decoding until the event type is known.
type inboundEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_failed", zap.Error(err))
		return
	}
	conn := newWSConn(sock)
	defer func() {
		s.orch.Disconnect(conn)
		conn.close(websocket.StatusNormalClosure)
	}()

	limiter := rate.NewLimiter(rate.Limit(s.cfg.EventRate), s.cfg.EventBurst)
	ctx := r.Context()
	for {
		var env inboundEnvelope
		if err := wsjson.Read(ctx, sock, &env); err != nil {
			return
		}
		if !limiter.Allow() {
			s.orch.Fail(conn, "rate_limited")
			continue
		}
		s.dispatch(ctx, conn, env)
	}
}

func (s *Server) dispatch(ctx context.Context, conn connmgr.Conn, env inboundEnvelope) {
	switch env.Type {
	case chessdto.EvCreateRoom:
		var req chessdto.CreateRoomRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.CreateRoom(ctx, conn, req)
		}
	case chessdto.EvJoinRoom:
		var req chessdto.JoinRoomRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.JoinRoom(ctx, conn, req)
		}
	case chessdto.EvEnqueue:
		var req chessdto.EnqueueRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.Enqueue(ctx, conn, req)
		}
	case chessdto.EvLeaveQueue:
		var req chessdto.LeaveQueueRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.LeaveQueue(ctx, conn, req)
		}
	case chessdto.EvMakeMove:
		var req chessdto.MoveRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.MakeMove(ctx, conn, req)
		}
	case chessdto.EvChat:
		var req chessdto.ChatRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.Chat(ctx, conn, req)
		}
	case chessdto.EvOfferDraw:
		var req chessdto.DrawOfferRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.OfferDraw(ctx, conn, req)
		}
	case chessdto.EvRespondDraw:
		var req chessdto.DrawResponseRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.RespondDraw(ctx, conn, req)
		}
	case chessdto.EvResign:
		var req chessdto.ResignRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.Resign(ctx, conn, req)
		}
	case chessdto.EvReconnect:
		var req chessdto.ReconnectRequest
		if s.decode(conn, env.Data, &req) {
			s.orch.Reconnect(ctx, conn, req)
		}
	default:
		s.orch.Fail(conn, "bad_request")
	}
}

func (s *Server) decode(conn connmgr.Conn, raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		s.orch.Fail(conn, "bad_request")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.orch.Fail(conn, "bad_request")
		return false
	}
	return true
}
