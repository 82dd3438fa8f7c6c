// Command play is the terminal client: it fetches encrypted quotes from an
// Unquotable server and runs the puzzle locally.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unquotable/internal/client"
	"github.com/robalobadob/unquotable/internal/config"
	"github.com/robalobadob/unquotable/internal/tui"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout; logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	config.SetupLogging(cfg.LogLevel, false)

	log.Info().Str("server", cfg.ServerURL).Bool("daily", cfg.Daily).Msg("starting client")

	c := client.New(cfg.ServerURL, nil)
	if err := tui.Run(c, tui.Options{Lives: cfg.Lives, Daily: cfg.Daily}); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
