// Package config loads server and client settings from the environment.
//
// A `.env` file in the working directory is read first (if present);
// real environment variables always win over it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server holds the HTTP server settings.
type Server struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool          `env:"LOG_PRETTY" envDefault:"false"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:3000"`
	QuotesFile     string        `env:"QUOTES_FILE"`
	QuotesDB       string        `env:"QUOTES_DB"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DefaultLives   int           `env:"DEFAULT_LIVES" envDefault:"5"`
	RoundTTL       time.Duration `env:"ROUND_TTL" envDefault:"2h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Client holds the terminal client settings.
type Client struct {
	ServerURL string `env:"UNQUOTABLE_SERVER" envDefault:"http://localhost:5175"`
	Lives     int    `env:"UNQUOTABLE_LIVES" envDefault:"5"`
	Daily     bool   `env:"UNQUOTABLE_DAILY" envDefault:"false"`
	LogFile   string `env:"UNQUOTABLE_LOG"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadServer reads .env (optional) and parses the server settings.
func LoadServer() (Server, error) {
	var cfg Server
	if err := parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DefaultLives <= 0 {
		return cfg, fmt.Errorf("DEFAULT_LIVES must be positive, got %d", cfg.DefaultLives)
	}
	if cfg.RoundTTL <= 0 {
		return cfg, fmt.Errorf("ROUND_TTL must be positive, got %s", cfg.RoundTTL)
	}
	return cfg, nil
}

// LoadClient reads .env (optional) and parses the client settings.
func LoadClient() (Client, error) {
	var cfg Client
	err := parse(&cfg)
	return cfg, err
}

func parse(target any) error {
	_ = godotenv.Load()
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SetupLogging applies the level and output format to the global zerolog logger.
// An unknown level leaves the default (debug) in place and is reported.
func SetupLogging(level string, pretty bool) {
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}
