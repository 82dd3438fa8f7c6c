// internal/httpserver/routes_rounds.go
//
// Server-held rounds for thin clients that should never see the mapping.
//   - POST /rounds               → start a round ({lives?})
//   - GET  /rounds/{id}          → current view
//   - POST /rounds/{id}/guess    → set a letter-scoped guess ({letter, value})
//   - POST /rounds/{id}/decrypt  → validate the current guesses
//
// Views carry the ciphertext, fields, inputs and lives, never the map,
// the solution map or the plaintext.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/unquotable/internal/cipher"
	"github.com/robalobadob/unquotable/internal/game"
	"github.com/robalobadob/unquotable/internal/store"
)

const maxRoundLives = 20

// mountRounds registers all /rounds routes.
func (s *Server) mountRounds(r chi.Router) {
	r.Route("/rounds", func(r chi.Router) {
		r.Post("/", s.handleNewRound)
		r.Route("/{roundID}", func(r chi.Router) {
			r.Get("/", s.handleGetRound)
			r.Post("/guess", s.handleRoundGuess)
			r.Post("/decrypt", s.handleRoundDecrypt)
		})
	})
}

// roundView is the client-facing shape of a round.
type roundView struct {
	ID          string            `json:"id"`
	Author      string            `json:"author"`
	Text        string            `json:"text"`
	Lives       int               `json:"lives"`
	MaxLives    int               `json:"maxLives"`
	Fields      []game.WordField  `json:"fields"`
	FieldsCount int               `json:"fieldsCount"`
	Inputs      map[string]string `json:"inputs"`
	Status      game.Status       `json:"status"`
	IsSolved    bool              `json:"isSolved"`
	IsLost      bool              `json:"isLost"`
	IsGameOver  bool              `json:"isGameOver"`
}

// snapshot deep-copies g so the view can be encoded outside roundMu.
func snapshot(g *game.Game) roundView {
	fields := make([]game.WordField, len(g.Fields))
	for i, w := range g.Fields {
		w.Characters = append([]game.CharacterField(nil), w.Characters...)
		fields[i] = w
	}
	inputs := make(map[string]string, len(g.Inputs))
	for k, v := range g.Inputs {
		inputs[k] = v
	}
	return roundView{
		ID:          g.ID,
		Author:      g.Author,
		Text:        g.Text,
		Lives:       g.Lives,
		MaxLives:    g.MaxLives,
		Fields:      fields,
		FieldsCount: g.FieldsCount,
		Inputs:      inputs,
		Status:      g.Status(),
		IsSolved:    g.IsSolved,
		IsLost:      g.IsLost,
		IsGameOver:  g.IsGameOver(),
	}
}

// -----------------------------------------------------------------------------
// POST /rounds

type newRoundReq struct {
	Lives int `json:"lives"`
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	lives := s.opts.DefaultLives
	if req.Lives != 0 {
		if req.Lives < 1 || req.Lives > maxRoundLives {
			writeError(w, http.StatusBadRequest, "invalid_lives")
			return
		}
		lives = req.Lives
	}

	eq, err := cipher.Generate(s.catalog, s.opts.NewRand())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("generate quote")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	g, err := game.New(eq, game.Options{Lives: lives})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start round")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("round", g.ID).Int("lives", lives).Msg("round started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(snapshot(g))
}

// -----------------------------------------------------------------------------
// GET /rounds/{id}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	s.withRound(w, r, func(g *game.Game) error { return nil })
}

// -----------------------------------------------------------------------------
// POST /rounds/{id}/guess

type guessReq struct {
	Letter string `json:"letter"`
	Value  string `json:"value"`
}

func (s *Server) handleRoundGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	letter := strings.ToUpper(strings.TrimSpace(req.Letter))
	value := strings.ToUpper(strings.TrimSpace(req.Value))
	s.withRound(w, r, func(g *game.Game) error { return g.SetGuess(letter, value) })
}

// -----------------------------------------------------------------------------
// POST /rounds/{id}/decrypt

func (s *Server) handleRoundDecrypt(w http.ResponseWriter, r *http.Request) {
	s.withRound(w, r, func(g *game.Game) error {
		if err := g.Validate(); err != nil {
			return err
		}
		if g.IsGameOver() {
			hlog.FromRequest(r).Info().Str("round", g.ID).Str("status", string(g.Status())).Msg("round finished")
		}
		return nil
	})
}

// withRound loads the round named in the URL, applies fn under roundMu,
// saves it and writes the resulting view. Engine errors map to 400/409.
func (s *Server) withRound(w http.ResponseWriter, r *http.Request, fn func(*game.Game) error) {
	id := chi.URLParam(r, "roundID")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("round", id).Msg("load round")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}

	s.roundMu.Lock()
	err = fn(g)
	view := snapshot(g)
	s.roundMu.Unlock()

	switch {
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	case errors.Is(err, game.ErrRoundOver):
		writeError(w, http.StatusConflict, "round_over")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("round", id).Msg("update round")
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("round", id).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(view)
}
