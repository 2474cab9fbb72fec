package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/internal/connmgr"
	"github.com/flaviengibs/chess-sub000/internal/elo"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
	"github.com/flaviengibs/chess-sub000/internal/profile"
	"github.com/flaviengibs/chess-sub000/internal/room"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// Disconnect is called by the transport when a socket closes for any reason.
// Idle and queued players are cleaned up immediately; mid-game players get a
// grace window before the game is forfeited.
func (o *Orchestrator) Disconnect(conn connmgr.Conn) {
	o.conns.HandleDisconnection(conn, o.onGraceExpired)
}

func (o *Orchestrator) onGraceExpired(roomCode, identity string, color board.Color) {
	r, ok := o.rooms.Get(roomCode)
	if !ok {
		return
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != room.StatusActive {
		return
	}
	obslog.L().Info("forfeit_on_timeout",
		zap.String("room", roomCode),
		zap.String("identity", identity),
		zap.String("color", string(color)),
	)
	o.endGameLocked(r, ReasonTimeout, color.Opponent())
}

// Reconnect restores a returning identity onto a new connection and replays
// the full current position, replacing any broadcasts missed while away.
func (o *Orchestrator) Reconnect(_ context.Context, conn connmgr.Conn, req chessdto.ReconnectRequest) {
	if req.Identity == "" {
		o.sendError(conn, "bad_request", nil)
		return
	}
	code, color, err := o.conns.HandleReconnection(conn, req.Identity)
	if err != nil {
		switch err {
		case connmgr.ErrSessionGone:
			o.sendError(conn, "reconnect_gone", nil)
		default:
			o.sendError(conn, "reconnect_no_session", nil)
		}
		return
	}
	r, ok := o.rooms.Get(code)
	if !ok {
		o.sendError(conn, "reconnect_gone", nil)
		return
	}
	r.Lock()
	state := stateDTO(r.Board, r.Board.Status())
	r.Unlock()
	o.sendTo(conn, chessdto.EvReconnected, chessdto.Reconnected{
		Room:  code,
		Color: string(color),
		State: state,
	})
}

// endGameLocked runs the end-game sequence with r's lock held: compute both
// rating deltas from the pre-game ratings, mark the room ended, broadcast one
// identical game-ended payload to both seats, release connection state and
// hand the record to the profile backend. Winner "" means a drawn game.
func (o *Orchestrator) endGameLocked(r *room.Room, reason string, winner board.Color) {
	if r.Status == room.StatusEnded || r.White == nil || r.Black == nil {
		return
	}
	white, black := r.White, r.Black

	whiteScore := elo.Draw
	switch winner {
	case board.White:
		whiteScore = elo.Win
	case board.Black:
		whiteScore = elo.Loss
	}
	// scores come from the elo result constants, so Change cannot reject them
	dWhite, _ := elo.Change(white.Rating, black.Rating, whiteScore)
	dBlack, _ := elo.Change(black.Rating, white.Rating, 1-whiteScore)

	r.Status = room.StatusEnded
	r.DrawOfferBy = ""
	r.LastActivity = time.Now()

	winnerStr := WinnerNone
	if winner != "" {
		winnerStr = string(winner)
	}
	ended := chessdto.GameEnded{
		Reason:     reason,
		Winner:     winnerStr,
		EloChanges: chessdto.EloPair{White: dWhite, Black: dBlack},
		NewElos:    chessdto.EloPair{White: white.Rating + dWhite, Black: black.Rating + dBlack},
	}
	o.sendTo(white.Conn, chessdto.EvGameEnded, ended)
	o.sendTo(black.Conn, chessdto.EvGameEnded, ended)

	o.conns.Release(white.ID)
	o.conns.Release(black.ID)

	res := &profile.Result{
		GameID:    r.GameID,
		RoomCode:  r.Code,
		WhiteID:   white.ID,
		WhiteName: white.Name,
		BlackID:   black.ID,
		BlackName: black.Name,
		Reason:    reason,
		Winner:    winnerStr,
		WhiteElo:  profile.EloLine{Before: white.Rating, After: white.Rating + dWhite},
		BlackElo:  profile.EloLine{Before: black.Rating, After: black.Rating + dBlack},
		StartedAt: r.CreatedAt,
		EndedAt:   time.Now(),
	}
	if r.Board != nil {
		res.MovesUCI = make([]string, 0, len(r.Board.History))
		for _, rec := range r.Board.History {
			res.MovesUCI = append(res.MovesUCI, rec.Move.UCI())
		}
	}
	go o.persistResult(res)

	obslog.L().Info("game_ended",
		zap.String("room", r.Code),
		zap.String("reason", reason),
		zap.String("winner", winnerStr),
		zap.Int("white_delta", dWhite),
		zap.Int("black_delta", dBlack),
	)
}

func (o *Orchestrator) persistResult(res *profile.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), resultSaveTimeout)
	defer cancel()
	if err := o.profiles.SaveResult(ctx, res); err != nil {
		obslog.L().Error("result_persist_failed",
			zap.String("game_id", res.GameID), zap.Error(err))
	}
}
