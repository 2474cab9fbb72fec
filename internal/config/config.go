package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig carries the server's runtime settings, loaded from environment
// variables. Only ListenAddr is required; the profile backends are optional
// and picked in order of preference (postgres, redis, http, memory).
type AppConfig struct {
	ListenAddr string

	RedisURL      string
	DatabaseURL   string
	ProfileAPIURL string

	ReconnectGrace time.Duration

	// inbound events allowed per second per connection, with burst
	EventRate  float64
	EventBurst int

	MaxChatRunes int

	MsgOverrideDir string

	AllowedOrigins []string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ReconnectGrace: 60 * time.Second,
		EventRate:      10,
		EventBurst:     20,
		MaxChatRunes:   500,
	}

	cfg.ListenAddr = strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.ProfileAPIURL = strings.TrimSpace(os.Getenv("PROFILE_API_URL"))
	cfg.MsgOverrideDir = strings.TrimSpace(os.Getenv("MSG_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("RECONNECT_GRACE")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ReconnectGrace = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("EVENT_RATE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.EventRate = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("EVENT_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EventBurst = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_CHAT_RUNES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxChatRunes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if cfg.ListenAddr == "" {
		return nil, errors.New("LISTEN_ADDR is required")
	}
	return cfg, nil
}
