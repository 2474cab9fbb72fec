// Package profile is the client side of the external authentication/profile
// collaborator: it supplies {identity, display name, rating} at session start
// and is the sole persister of post-game ratings. The core only computes and
// emits deltas.
package profile

import (
	"context"
	"time"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// DefaultRating is assigned to identities the backend has never seen.
const DefaultRating = 1200

// Result is the final game record handed to the persister by the end-game
// sequence.
type Result struct {
	GameID    string    `json:"game_id"`
	RoomCode  string    `json:"room_code"`
	WhiteID   string    `json:"white_id"`
	WhiteName string    `json:"white_name"`
	BlackID   string    `json:"black_id"`
	BlackName string    `json:"black_name"`
	Reason    string    `json:"reason"`
	Winner    string    `json:"winner"`
	WhiteElo  EloLine   `json:"white_elo"`
	BlackElo  EloLine   `json:"black_elo"`
	MovesUCI  []string  `json:"moves_uci"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// EloLine is one side's rating before and after a game.
type EloLine struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// Provider is implemented by the memory, redis, postgres and HTTP backends.
type Provider interface {
	// Fetch resolves an identity's profile, creating a default-rated one
	// for identities the backend has never seen.
	Fetch(ctx context.Context, identity, displayName string) (*chessdto.Profile, error)
	// SaveResult persists a final game record and the resulting ratings.
	SaveResult(ctx context.Context, res *Result) error
	Close() error
}
