// internal/cipher/cipher.go
//
// Cipher generator for a single puzzle round.
// Responsibilities:
//   - Pick a quote uniformly at random from the catalog.
//   - Build an unbiased random permutation of A–Z (Fisher–Yates via Rand.Shuffle).
//   - Prune the mapping to letters that occur in the quote.
//   - Encrypt the upper-cased quote text; non-letters pass through.
//
// Wire orientation:
//   EncryptedQuote.Map is plaintext letter → ciphertext letter.
//   Clients invert it to validate guesses.
//
// The generator keeps no state; every call consumes the Rand it is given.

package cipher

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
	"strings"

	"github.com/robalobadob/unquotable/internal/quotes"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrNotBijective is returned when a mapping sends two letters to the same target.
var ErrNotBijective = errors.New("cipher: mapping is not injective")

// Rand is the random source the generator needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Mapping maps one upper-case letter to another.
type Mapping map[string]string

// EncryptedQuote is the wire payload served by GET /quotes.
type EncryptedQuote struct {
	Text   string  `json:"text"`   // ciphertext, upper-cased
	Author string  `json:"author"` // plain
	Map    Mapping `json:"map"`    // plaintext → ciphertext, pruned to letters in the quote
}

// NewRand returns a request-scoped PRNG seeded from crypto/rand.
func NewRand() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("cipher: read random seed: " + err.Error())
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// Generate picks a quote from catalog and enciphers it with a fresh permutation.
func Generate(catalog quotes.Catalog, rng Rand) (EncryptedQuote, error) {
	if len(catalog) == 0 {
		return EncryptedQuote{}, quotes.ErrEmptyCatalog
	}
	q := catalog[rng.Intn(len(catalog))]
	return Encrypt(q, rng), nil
}

// Encrypt enciphers a fixed quote with a fresh permutation.
func Encrypt(q quotes.Quote, rng Rand) EncryptedQuote {
	text := strings.ToUpper(q.Text)
	m := Permutation(rng).Prune(text)
	return EncryptedQuote{
		Text:   m.Apply(text),
		Author: q.Author,
		Map:    m,
	}
}

// Permutation returns a full A–Z mapping built from an unbiased shuffle.
func Permutation(rng Rand) Mapping {
	perm := []byte(alphabet)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	m := make(Mapping, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i:i+1]] = string(perm[i])
	}
	return m
}

// Prune returns a copy of m restricted to the A–Z letters occurring in text.
func (m Mapping) Prune(text string) Mapping {
	out := make(Mapping)
	for _, r := range text {
		if !isUpper(r) {
			continue
		}
		k := string(r)
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Apply substitutes every A–Z letter of text that has an entry in m.
// All other runes are copied unchanged.
func (m Mapping) Apply(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isUpper(r) {
			if v, ok := m[string(r)]; ok {
				b.WriteString(v)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Invert returns the reverse mapping. Fails with ErrNotBijective if two
// keys share a value.
func (m Mapping) Invert() (Mapping, error) {
	out := make(Mapping, len(m))
	for k, v := range m {
		if _, dup := out[v]; dup {
			return nil, ErrNotBijective
		}
		out[v] = k
	}
	return out, nil
}

// isUpper reports whether r is an ASCII upper-case letter.
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
