// Command quotes-import loads a YAML quote list into the SQLite catalog
// named by QUOTES_DB.
//
//	quotes-import [-db path] quotes.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unquotable/internal/config"
	"github.com/robalobadob/unquotable/internal/quotes"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	dbPath := flag.String("db", cfg.QuotesDB, "SQLite catalog path (defaults to QUOTES_DB)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-db path] <quotes.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 || *dbPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *dbPath, flag.Arg(0)); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func run(ctx context.Context, dbPath, file string) error {
	cat, err := quotes.ReadFile(file)
	if err != nil {
		return err
	}

	db, err := quotes.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer db.Close()

	if err := quotes.Migrate(db); err != nil {
		return err
	}
	added, err := quotes.Import(ctx, db, cat)
	if err != nil {
		return err
	}
	total, err := quotes.LoadDB(ctx, db)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", file).
		Int("read", len(cat)).
		Int("added", added).
		Int("total", len(total)).
		Msg("quotes imported")
	return nil
}
