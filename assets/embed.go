// assets/embed.go
//
// Embedded default data shipped inside the binary.
// The server falls back to these when no catalog file or DB is configured.

package assets

import (
	_ "embed"
)

//go:embed quotes.yaml
var quotesYAML []byte

// QuotesYAML returns the default quote catalog as raw YAML.
// Callers must not modify the returned slice.
func QuotesYAML() []byte {
	return quotesYAML
}
