package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"climber/config"
	"climber/handlers"
	"climber/models"
	"climber/rating"
	"climber/services"
	"climber/utils"
	"climber/workers"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("⚠️  could not read .env, using environment variables directly")
	}

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("climber stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := models.Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return err
	}
	if err := models.Migrate(db); err != nil {
		return err
	}

	model := rating.DefaultModel()
	resultService := services.NewResultService(db, model, log.Logger)
	playerService := services.NewPlayerService(db, model, log.Logger)
	leaderboardService := services.NewLeaderboardService(db)

	if cfg.R2().Enabled() {
		store, err := utils.NewR2Store(ctx, cfg.R2())
		if err != nil {
			return err
		}
		worker := workers.NewLeaderboardSnapshotWorker(leaderboardService, store, cfg.SnapshotInterval, log.Logger)
		if err := worker.Start(ctx); err != nil {
			return err
		}
		defer worker.Stop()
	} else {
		log.Info().Msg("R2 bucket not configured, leaderboard snapshots disabled")
	}

	app := handlers.NewApp(handlers.Services{
		Results:     resultService,
		Players:     playerService,
		Leaderboard: leaderboardService,
	}, cfg.AllowedOrigins, log.Logger)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()
	log.Info().Str("addr", cfg.ListenAddr).Str("driver", cfg.DatabaseDriver).Msg("✅ climber running")

	<-ctx.Done()
	log.Info().Msg("shutting down server...")
	return app.ShutdownWithTimeout(10 * time.Second)
}
