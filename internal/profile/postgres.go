package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// Postgres persists profiles and final game records.
//
// Expected schema:
//
//	CREATE TABLE profiles (
//	    identity     TEXT PRIMARY KEY,
//	    display_name TEXT NOT NULL DEFAULT '',
//	    rating       INT  NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE games (
//	    game_id    TEXT PRIMARY KEY,
//	    room_code  TEXT NOT NULL,
//	    white_id   TEXT NOT NULL,
//	    white_name TEXT NOT NULL DEFAULT '',
//	    black_id   TEXT NOT NULL,
//	    black_name TEXT NOT NULL DEFAULT '',
//	    reason     TEXT NOT NULL,
//	    winner     TEXT NOT NULL,
//	    white_elo_before INT NOT NULL,
//	    white_elo_after  INT NOT NULL,
//	    black_elo_before INT NOT NULL,
//	    black_elo_after  INT NOT NULL,
//	    moves_uci  TEXT NOT NULL,
//	    started_at TIMESTAMPTZ NOT NULL,
//	    ended_at   TIMESTAMPTZ NOT NULL,
//	    duration_ms BIGINT NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(databaseURL string) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Fetch(ctx context.Context, identity, displayName string) (*chessdto.Profile, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT display_name, rating FROM profiles WHERE identity = $1`, identity)
	prof := &chessdto.Profile{Identity: identity}
	err := row.Scan(&prof.DisplayName, &prof.Rating)
	if err == sql.ErrNoRows {
		prof.DisplayName = displayName
		prof.Rating = DefaultRating
		_, err = p.db.ExecContext(ctx,
			`INSERT INTO profiles (identity, display_name, rating, updated_at)
			 VALUES ($1,$2,$3,NOW())
			 ON CONFLICT (identity) DO NOTHING`,
			identity, displayName, DefaultRating)
		if err != nil {
			return nil, err
		}
		return prof, nil
	}
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		prof.DisplayName = displayName
	}
	return prof, nil
}

// SaveResult upserts the game record and writes both resulting ratings.
func (p *Postgres) SaveResult(ctx context.Context, res *Result) error {
	if p == nil || p.db == nil || res == nil {
		return nil
	}
	movesRaw, _ := json.Marshal(res.MovesUCI)
	duration := res.EndedAt.Sub(res.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := `INSERT INTO games (
	    game_id, room_code, white_id, white_name, black_id, black_name,
	    reason, winner,
	    white_elo_before, white_elo_after, black_elo_before, black_elo_after,
	    moves_uci, started_at, ended_at, duration_ms
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
	  ) ON CONFLICT (game_id) DO UPDATE SET
	    reason=EXCLUDED.reason,
	    winner=EXCLUDED.winner,
	    white_elo_before=EXCLUDED.white_elo_before,
	    white_elo_after=EXCLUDED.white_elo_after,
	    black_elo_before=EXCLUDED.black_elo_before,
	    black_elo_after=EXCLUDED.black_elo_after,
	    moves_uci=EXCLUDED.moves_uci,
	    started_at=EXCLUDED.started_at,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`
	if _, err := tx.ExecContext(ctx, q,
		res.GameID, res.RoomCode,
		res.WhiteID, res.WhiteName, res.BlackID, res.BlackName,
		res.Reason, res.Winner,
		res.WhiteElo.Before, res.WhiteElo.After,
		res.BlackElo.Before, res.BlackElo.After,
		string(movesRaw), res.StartedAt, res.EndedAt, duration,
	); err != nil {
		return err
	}

	up := `INSERT INTO profiles (identity, display_name, rating, updated_at)
	  VALUES ($1,$2,$3,NOW())
	  ON CONFLICT (identity) DO UPDATE SET
	    display_name=EXCLUDED.display_name,
	    rating=EXCLUDED.rating,
	    updated_at=NOW()`
	if _, err := tx.ExecContext(ctx, up, res.WhiteID, res.WhiteName, res.WhiteElo.After); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, up, res.BlackID, res.BlackName, res.BlackElo.After); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
