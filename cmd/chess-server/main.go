package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/flaviengibs/chess-sub000/internal/config"
	"github.com/flaviengibs/chess-sub000/internal/msgcat"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
	"github.com/flaviengibs/chess-sub000/internal/profile"
	"github.com/flaviengibs/chess-sub000/internal/session"
	"github.com/flaviengibs/chess-sub000/internal/transport"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cat, err := msgcat.New(cfg.MsgOverrideDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	profiles, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("profile backend error: %v", err)
	}
	defer profiles.Close()

	orch := session.New(session.Options{
		Profiles:     profiles,
		Catalog:      cat,
		Grace:        cfg.ReconnectGrace,
		MaxChatRunes: cfg.MaxChatRunes,
	})
	srv := transport.NewServer(cfg, orch)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		obslog.L().Info("server_listening", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("server_failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	obslog.L().Info("server_shutdown_begin")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		obslog.L().Error("server_shutdown_error", zap.Error(err))
	}
	obslog.L().Info("server_shutdown_done")
}

// buildProvider picks the profile backend by configuration, most durable
// first: postgres, then redis, then the remote HTTP API, falling back to the
// in-process store for development runs.
func buildProvider(cfg *appcfg.AppConfig) (profile.Provider, error) {
	switch {
	case cfg.DatabaseURL != "":
		return profile.NewPostgres(cfg.DatabaseURL)
	case cfg.RedisURL != "":
		return profile.NewRedis(cfg.RedisURL)
	case cfg.ProfileAPIURL != "":
		return profile.NewHTTP(cfg.ProfileAPIURL), nil
	default:
		obslog.L().Warn("profile_backend_memory",
			zap.String("hint", "set DATABASE_URL, REDIS_URL or PROFILE_API_URL for persistence"))
		return profile.NewMemory(), nil
	}
}
