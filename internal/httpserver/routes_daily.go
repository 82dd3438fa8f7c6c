// internal/httpserver/routes_daily.go
//
// Quote of the day:
//   - GET /quotes/daily → the day's EncryptedQuote plus its date key.
//
// The quote index and the permutation seed both derive from
// HMAC(DAILY_SALT, YYYY-MM-DD), so every caller gets the same puzzle
// until the UTC date rolls over. Nothing is recorded.

package httpserver

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/robalobadob/unquotable/internal/cipher"
	"github.com/robalobadob/unquotable/internal/daily"
	"github.com/robalobadob/unquotable/internal/quotes"
)

// dailyRes is returned by /quotes/daily.
type dailyRes struct {
	cipher.EncryptedQuote
	Date string `json:"date"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	if len(s.catalog) == 0 {
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	now := s.opts.Now()
	res := dailyRes{
		EncryptedQuote: dailyQuote(s.catalog, now, s.opts.DailySalt),
		Date:           daily.DateKey(now),
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(res)
}

// dailyQuote enciphers the day's quote with the day's permutation.
func dailyQuote(catalog quotes.Catalog, now time.Time, salt string) cipher.EncryptedQuote {
	q := catalog[daily.QuoteIndex(now, salt, len(catalog))]
	return cipher.Encrypt(q, rand.New(rand.NewSource(daily.Seed(now, salt))))
}
