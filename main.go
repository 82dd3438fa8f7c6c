package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unquotable/internal/config"
	"github.com/robalobadob/unquotable/internal/httpserver"
	"github.com/robalobadob/unquotable/internal/quotes"
	"github.com/robalobadob/unquotable/internal/store"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := quotes.Load(ctx, quotes.Source{DBPath: cfg.QuotesDB, File: cfg.QuotesFile})
	if err != nil {
		if errors.Is(err, quotes.ErrEmptyCatalog) {
			log.Fatal().Err(err).Msg("no usable quotes configured")
		}
		log.Fatal().Err(err).Msg("failed to load quote catalog")
	}
	n, authors := catalog.Stats()
	log.Info().Int("quotes", n).Int("authors", authors).Msg("catalog loaded")

	mem := store.NewMemoryStore()
	go pruneRounds(ctx, mem, cfg.RoundTTL)

	srv := httpserver.New(mem, catalog, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		DailySalt:      cfg.DailySalt,
		DefaultLives:   cfg.DefaultLives,
		RequestTimeout: cfg.RequestTimeout,
	})
	log.Info().Str("port", cfg.Port).Msg("starting unquotable server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// pruneRounds drops server-held rounds idle for longer than ttl.
func pruneRounds(ctx context.Context, st store.Store, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := st.Prune(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("prune rounds")
				continue
			}
			if n > 0 {
				log.Debug().Int("pruned", n).Msg("expired idle rounds")
			}
		}
	}
}
