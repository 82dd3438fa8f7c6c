// internal/quotes/quotes.go
//
// Provides the quote catalog the cipher generator draws from.
//
// Responsibilities:
//   - Define Quote and Catalog.
//   - Load the catalog from a SQLite DB, a YAML file, or the embedded default.
//   - Normalize entries (trimmed text/author, at least one A–Z letter).
//
// Load behavior:
//   1. If Source.DBPath is set, read quotes from that SQLite database
//      (migrations are applied first).
//   2. Else if Source.File is set, read a YAML list of {text, author}.
//   3. Else fall back to the embedded assets/quotes.yaml.
//
// An empty catalog after normalization is fatal: ErrEmptyCatalog.

package quotes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/unquotable/assets"
)

// ErrEmptyCatalog is returned when no usable quote is configured.
var ErrEmptyCatalog = errors.New("quotes: catalog is empty")

const unknownAuthor = "Unknown"

// Quote is a single catalog entry. Immutable once loaded.
type Quote struct {
	Text   string `yaml:"text" json:"text"`
	Author string `yaml:"author" json:"author"`
}

// Catalog is the read-only list of quotes loaded at process start.
type Catalog []Quote

// Source selects where Load reads the catalog from.
type Source struct {
	DBPath string // SQLite database path (QUOTES_DB)
	File   string // YAML catalog path (QUOTES_FILE)
}

// Load reads and normalizes the catalog from the first configured source.
func Load(ctx context.Context, src Source) (Catalog, error) {
	var (
		raw    Catalog
		err    error
		origin string
	)

	switch {
	case src.DBPath != "":
		origin = "sqlite"
		raw, err = loadFromDBPath(ctx, src.DBPath)
	case src.File != "":
		origin = "file"
		raw, err = ReadFile(src.File)
	default:
		origin = "embedded"
		raw, err = Parse(assets.QuotesYAML())
	}
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", origin, err)
	}

	cat := Normalize(raw)
	if dropped := len(raw) - len(cat); dropped > 0 {
		log.Warn().Int("dropped", dropped).Str("source", origin).Msg("skipped unusable quotes")
	}
	if len(cat) == 0 {
		return nil, ErrEmptyCatalog
	}
	log.Debug().Int("quotes", len(cat)).Str("source", origin).Msg("catalog loaded")
	return cat, nil
}

func loadFromDBPath(ctx context.Context, path string) (Catalog, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return LoadDB(ctx, db)
}

// ReadFile parses a YAML catalog file.
func ReadFile(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML list of quotes. No normalization is applied.
func Parse(b []byte) (Catalog, error) {
	var out Catalog
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return out, nil
}

// Normalize trims every entry, drops quotes without any A–Z letter and
// fills in a placeholder author.
func Normalize(in Catalog) Catalog {
	out := make(Catalog, 0, len(in))
	for _, q := range in {
		q.Text = strings.TrimSpace(q.Text)
		q.Author = strings.TrimSpace(q.Author)
		if !hasLetter(q.Text) {
			continue
		}
		if q.Author == "" {
			q.Author = unknownAuthor
		}
		out = append(out, q)
	}
	return out
}

// hasLetter reports whether s contains at least one ASCII letter.
func hasLetter(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// Stats returns counts of loaded quotes: (quotes, distinct authors).
func (c Catalog) Stats() (quoteCount int, authorCount int) {
	authors := make(map[string]struct{}, len(c))
	for _, q := range c {
		authors[q.Author] = struct{}{}
	}
	return len(c), len(authors)
}
