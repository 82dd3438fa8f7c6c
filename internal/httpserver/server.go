// internal/httpserver/server.go
//
// HTTP server wiring for the Unquotable backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - Puzzle endpoints: GET|POST /quotes, GET /quotes/daily.
//   - Server-held rounds: mounted under /rounds.
//   - Debug: /debug/quotes.
//
// Notes:
//   - Every /quotes call draws a fresh request-scoped PRNG; no random state
//     is shared between requests.
//   - Errors are JSON bodies {"error":"<code>"}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unquotable/internal/cipher"
	"github.com/robalobadob/unquotable/internal/game"
	"github.com/robalobadob/unquotable/internal/quotes"
	"github.com/robalobadob/unquotable/internal/store"
)

// Options tune a Server. Zero values fall back to sensible defaults.
type Options struct {
	ClientOrigin   string             // CORS origin; default http://localhost:3000
	DailySalt      string             // HMAC salt for /quotes/daily
	DefaultLives   int                // lives for POST /rounds without a body
	RequestTimeout time.Duration      // per-request handler budget; default 10s
	NewRand        func() cipher.Rand // request-scoped PRNG factory; default cipher.NewRand
	Now            func() time.Time   // clock for the daily puzzle; default time.Now
}

// Server bundles router, quote catalog, and round store.
type Server struct {
	r       *chi.Mux
	store   store.Store
	catalog quotes.Catalog
	opts    Options

	roundMu sync.Mutex // serializes round mutation and snapshots
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, catalog quotes.Catalog, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:3000"
	}
	if opts.DefaultLives <= 0 {
		opts.DefaultLives = game.DefaultLives
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.NewRand == nil {
		opts.NewRand = func() cipher.Rand { return cipher.NewRand() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{r: chi.NewRouter(), store: st, catalog: catalog, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))        // request-scoped logger
	s.r.Use(withRequestID)                      // tag logs with chi's request id
	s.r.Use(hlog.AccessHandler(logAccess))      // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // browser client origin

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"unquotable","endpoints":["/health","/quotes","/quotes/daily","/rounds"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Puzzle generation: either verb, no body.
	s.r.Get("/quotes", s.handleQuote)
	s.r.Post("/quotes", s.handleQuote)
	s.r.Get("/quotes/daily", s.handleDaily)

	// Rounds held server-side.
	s.mountRounds(s.r)

	// Debug: catalog counts
	s.r.Get("/debug/quotes", func(w http.ResponseWriter, r *http.Request) {
		q, a := s.catalog.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"quotes": q, "authors": a})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single browser origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withRequestID copies chi's request id into the request logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func logAccess(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// writeError sends {"error":code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// ------------------------------ QUOTES -------------------------------------

// handleQuote enciphers a random catalog quote. Query parameters (e.g. the
// client's cache-busting dt) are ignored.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	eq, err := cipher.Generate(s.catalog, s.opts.NewRand())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("generate quote")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(eq)
}
