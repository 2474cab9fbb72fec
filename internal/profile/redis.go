package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// Redis keeps profiles and final results in Redis. Ratings are updated
// inside a WATCH transaction on the profile keys so two near-simultaneous
// game ends cannot interleave their read-modify-write.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(redisURL string) (*Redis, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis profile provider")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func profileKey(identity string) string { return "profile:" + strings.TrimSpace(identity) }
func resultKey(gameID string) string    { return "result:" + strings.TrimSpace(gameID) }

func (r *Redis) Fetch(ctx context.Context, identity, displayName string) (*chessdto.Profile, error) {
	raw, err := r.rdb.Get(ctx, profileKey(identity)).Bytes()
	if err == redis.Nil {
		p := &chessdto.Profile{Identity: identity, DisplayName: displayName, Rating: DefaultRating}
		buf, _ := json.Marshal(p)
		if err := r.rdb.Set(ctx, profileKey(identity), buf, 0).Err(); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	var p chessdto.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if displayName != "" {
		p.DisplayName = displayName
	}
	return &p, nil
}

func (r *Redis) SaveResult(ctx context.Context, res *Result) error {
	if res == nil {
		return nil
	}
	wk, bk := profileKey(res.WhiteID), profileKey(res.BlackID)
	return r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		white, err := r.loadOrDefault(ctx, tx, res.WhiteID, res.WhiteName)
		if err != nil {
			return err
		}
		black, err := r.loadOrDefault(ctx, tx, res.BlackID, res.BlackName)
		if err != nil {
			return err
		}
		white.Rating = res.WhiteElo.After
		black.Rating = res.BlackElo.After

		pipe := tx.TxPipeline()
		wraw, _ := json.Marshal(white)
		braw, _ := json.Marshal(black)
		rraw, _ := json.Marshal(res)
		pipe.Set(ctx, wk, wraw, 0)
		pipe.Set(ctx, bk, braw, 0)
		pipe.Set(ctx, resultKey(res.GameID), rraw, 0)
		_, err = pipe.Exec(ctx)
		return err
	}, wk, bk)
}

func (r *Redis) loadOrDefault(ctx context.Context, tx *redis.Tx, identity, name string) (*chessdto.Profile, error) {
	raw, err := tx.Get(ctx, profileKey(identity)).Bytes()
	if err == redis.Nil {
		return &chessdto.Profile{Identity: identity, DisplayName: name, Rating: DefaultRating}, nil
	}
	if err != nil {
		return nil, err
	}
	var p chessdto.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if name != "" {
		p.DisplayName = name
	}
	return &p, nil
}

// LoadResult returns a persisted result by game ID, nil when absent.
func (r *Redis) LoadResult(ctx context.Context, gameID string) (*Result, error) {
	raw, err := r.rdb.Get(ctx, resultKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Redis) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
