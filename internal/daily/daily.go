// internal/daily/daily.go
//
// Deterministic quote-of-the-day selection.
// Every caller sees the same quote and the same permutation for a UTC date:
//   - QuoteIndex = HMAC(salt, YYYY-MM-DD) mod n
//   - Seed       = HMAC(salt, YYYY-MM-DD|permutation) as int64

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// QuoteIndex returns a deterministic index into a catalog of n quotes.
func QuoteIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(sum64(salt, DateKey(date)) % uint64(n))
}

// Seed returns a deterministic PRNG seed for the day's permutation.
func Seed(date time.Time, salt string) int64 {
	return int64(sum64(salt, DateKey(date)+"|permutation"))
}

// sum64 takes the first 8 bytes of HMAC-SHA256(salt, msg).
func sum64(salt, msg string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(msg))
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}
