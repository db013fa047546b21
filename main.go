package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Joker666/nyt-connections-clone/internal/config"
	"github.com/Joker666/nyt-connections-clone/internal/database"
	"github.com/Joker666/nyt-connections-clone/internal/game"
	"github.com/Joker666/nyt-connections-clone/internal/httpserver"
	"github.com/Joker666/nyt-connections-clone/internal/metrics"
	"github.com/Joker666/nyt-connections-clone/internal/puzzles"
	"github.com/Joker666/nyt-connections-clone/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	prov, closeDB, err := newProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.PuzzleSource).Msg("failed to set up puzzle provider")
	}
	defer closeDB()

	var met *metrics.Metrics
	if cfg.MetricsEnabled {
		met = metrics.New("connections")
	}

	mem := store.NewMemoryStore()
	go pruneRounds(mem, cfg.RoundTTL)

	srv := httpserver.New(httpserver.Options{
		Store:    mem,
		Provider: prov,
		Source:   cfg.PuzzleSource,
		Metrics:  met,
		Origin:   cfg.ClientOrigin,
		Secret:   cfg.TokenSecret,
		TokenTTL: cfg.TokenTTL,
		Round:    []game.Option{game.WithInterval(cfg.RevealInterval)},

		// leave the chat client room to hit AI_TIMEOUT before the route gives up
		NewGameTimeout: newGameTimeout(cfg),
	})
	log.Info().Str("port", cfg.Port).Str("source", cfg.PuzzleSource).Str("mode", cfg.PuzzleMode).Msg("starting connections server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// newProvider builds the configured puzzle source. The returned func closes
// any database it opened.
func newProvider(cfg *config.Config) (puzzles.Provider, func(), error) {
	noop := func() {}

	choose := puzzles.RandomChoice
	if cfg.PuzzleMode == config.ModeDaily {
		choose = puzzles.DailyChoice(cfg.DailySalt, nil)
	}

	if cfg.PuzzleSource == config.SourceAI {
		return puzzles.NewChat(cfg.AIEndpoint, cfg.AITemperature, cfg.AITimeout), noop, nil
	}

	set, err := loadPuzzles(cfg.PuzzlesFile)
	if err != nil {
		return nil, noop, err
	}

	if cfg.PuzzleSource == config.SourceStatic {
		p, err := puzzles.NewStatic(set, choose)
		return p, noop, err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, noop, err
	}
	closeDB := func() { _ = db.Close() }
	if err := seedSQL(db, set); err != nil {
		closeDB()
		return nil, noop, err
	}
	return puzzles.NewSQL(db, choose), closeDB, nil
}

func loadPuzzles(path string) ([]puzzles.Puzzle, error) {
	if path == "" {
		return puzzles.Embedded()
	}
	log.Info().Str("file", path).Msg("loading puzzles")
	return puzzles.LoadFile(path)
}

func seedSQL(db *sql.DB, set []puzzles.Puzzle) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return puzzles.NewSQL(db, nil).Seed(ctx, set)
}

func newGameTimeout(cfg *config.Config) time.Duration {
	if cfg.PuzzleSource == config.SourceAI {
		return cfg.AITimeout + 5*time.Second
	}
	return 0
}

// pruneRounds drops abandoned rounds once an hour.
func pruneRounds(st store.Store, ttl time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for range t.C {
		n, err := st.Prune(context.Background(), time.Now().Add(-ttl))
		if err != nil {
			log.Warn().Err(err).Msg("prune rounds")
			continue
		}
		if n > 0 {
			log.Info().Int("removed", n).Msg("pruned rounds")
		}
	}
}
