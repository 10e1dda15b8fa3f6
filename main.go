package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cameroncuttingedge/fruit_bingo/api"
	"github.com/cameroncuttingedge/fruit_bingo/config"
	"github.com/cameroncuttingedge/fruit_bingo/events"
	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/cameroncuttingedge/fruit_bingo/images"
	"github.com/cameroncuttingedge/fruit_bingo/store"
	"github.com/cameroncuttingedge/fruit_bingo/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	InitializeLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := store.New()
	bus := events.NewBus(100)
	var checkOrigin func(r *http.Request) bool
	if !cfg.AllowsAnyOrigin() {
		checkOrigin = websocket.AllowOrigins(cfg.AllowedOrigins)
	}
	hub := websocket.NewHub(sessions, checkOrigin)
	hub.StartEventListening(bus)

	client := images.NewClient(cfg.ImageServiceURL, cfg.FetchTimeout)
	srv := api.New(sessions, client, game.NewSampler(cfg.GridSeed), bus, hub, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		ServeCatalog:   cfg.ServeCatalog,
	})

	log.Info().
		Str("imageService", cfg.ImageServiceURL).
		Bool("serveCatalog", cfg.ServeCatalog).
		Msg("Starting App")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}

func InitializeLogger(cfg *config.Config) {
	if !cfg.Logging {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		runLogFile, err := os.OpenFile(
			cfg.LogFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0664,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		multi := zerolog.MultiLevelWriter(runLogFile, os.Stdout)
		log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
