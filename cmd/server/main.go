package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpapi "naval-chess/internal/api/http"
	"naval-chess/internal/api/ws"
	"naval-chess/internal/config"
	"naval-chess/internal/policy"
	"naval-chess/internal/room"
	"naval-chess/internal/store"
)

// @title Naval Chess API
// @version 1.0
// @description Two-player fleet battle with a heuristic computer opponent (Go + Gin)
// @BasePath /
func main() {
	cfg := config.Load()
	setupLogging(cfg)

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}

	var opts []room.Option
	if cfg.PolicyURL != "" {
		opts = append(opts, room.WithPolicy(policy.NewClient(cfg.PolicyURL, &http.Client{Timeout: cfg.PolicyTimeout})))
		log.Info().Str("url", cfg.PolicyURL).Msg("external targeting policy enabled")
	}
	rm := room.NewManager(st, cfg, nil, opts...)
	hub := ws.NewHub(rm)
	rm.SetBroadcaster(hub)

	if fs, ok := st.(*store.FileStore); ok {
		n, err := rm.Resume(context.Background(), fs)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("resume matches")
		}
		log.Info().Int("matches", n).Msg("resumed unfinished matches")
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(rm, hub, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Int("board", cfg.BoardSize).Ints("fleet", cfg.Fleet).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	if mem, ok := st.(*store.MemoryStore); ok {
		log.Info().Interface("matches", mem.Count()).Msg("in-memory matches dropped")
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func openStore(cfg config.Config) (room.Store, error) {
	switch cfg.StoreDriver {
	case "file":
		return store.NewFileStore(cfg.DataDir)
	case "memory", "":
		return store.NewMemoryStore(), nil
	}
	return nil, errors.New("unknown store driver " + cfg.StoreDriver)
}
