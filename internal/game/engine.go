// internal/game/engine.go
//
// Puzzle state engine for a single cryptogram round.
// Responsibilities:
//   - Build a round from an encrypted quote (invert the map, segment the
//     ciphertext into words and character fields, seed one input per letter).
//   - Apply letter-scoped guesses to every occurrence of a cipher letter.
//   - Validate guesses, mark fields, spend lives, and reach solved/lost.
//
// State machine:
//   playing → solved | lost. Terminal rounds reject SetGuess and Validate
//   with ErrRoundOver; a new round is a new Game.
//
// Notes:
//   - Word spacing is left to the renderer; no trailing space field is added.
//   - decryptedText is diagnostic only and never serialized.

package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/robalobadob/unquotable/internal/cipher"
)

// DefaultLives is used when Options.Lives is not positive.
const DefaultLives = 5

var (
	// ErrInvalidGuess is returned for a malformed value or an unknown cipher letter.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrRoundOver is returned when a solved or lost round is mutated.
	ErrRoundOver = errors.New("round is over")
	// ErrInvalidQuote is returned when the payload cannot be played.
	ErrInvalidQuote = errors.New("invalid encrypted quote")
)

// New constructs a round from an encrypted quote.
// eq.Map must be plaintext → ciphertext and cover every letter of eq.Text.
func New(eq cipher.EncryptedQuote, opts Options) (*Game, error) {
	for k, v := range eq.Map {
		if !isSingleUpper(k) || !isSingleUpper(v) {
			return nil, fmt.Errorf("%w: map entry %q→%q", ErrInvalidQuote, k, v)
		}
	}
	solution, err := eq.Map.Invert()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}

	lives := opts.Lives
	if lives <= 0 {
		lives = DefaultLives
	}

	g := &Game{
		ID:          uuid.NewString(),
		Text:        eq.Text,
		Author:      eq.Author,
		Lives:       lives,
		MaxLives:    lives,
		Inputs:      make(map[string]string),
		solutionMap: solution,
	}
	g.Fields, g.FieldsCount = segment(eq.Text)

	for _, w := range g.Fields {
		for _, c := range w.Characters {
			if c.Kind != KindLetter {
				continue
			}
			if _, ok := solution[c.CipherLetter]; !ok {
				return nil, fmt.Errorf("%w: letter %q has no mapping", ErrInvalidQuote, c.CipherLetter)
			}
			g.Inputs[c.CipherLetter] = ""
		}
	}
	g.decryptedText = cipher.Mapping(solution).Apply(eq.Text)
	return g, nil
}

// segment splits text on single spaces and classifies every rune.
// Returns the words and the number of letter fields.
func segment(text string) ([]WordField, int) {
	words := strings.Split(text, " ")
	out := make([]WordField, 0, len(words))
	offset, fieldIndex := 0, 0

	for wi, word := range words {
		runes := []rune(word)
		wf := WordField{Index: wi, Word: word, Characters: make([]CharacterField, 0, len(runes))}
		for i, r := range runes {
			cf := CharacterField{
				Index:        offset + i,
				FieldIndex:   -1,
				Kind:         classify(r),
				CipherLetter: string(r),
			}
			if cf.Kind == KindLetter {
				cf.FieldIndex = fieldIndex
				fieldIndex++
			}
			wf.Characters = append(wf.Characters, cf)
		}
		out = append(out, wf)
		offset += len(runes) + 1 // the separating space
	}
	return out, fieldIndex
}

// classify applies letter → number → space → join → symbol, in that order.
func classify(r rune) Kind {
	switch {
	case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
		return KindLetter
	case r >= '0' && r <= '9':
		return KindNumber
	case unicode.IsSpace(r):
		return KindSpace
	case r == '-' || r == '\'':
		return KindJoin
	default:
		return KindSymbol
	}
}

// SetGuess records value as the guess for every occurrence of cipherLetter.
// value must be "" (clear) or a single upper-case A–Z letter.
func (g *Game) SetGuess(cipherLetter, value string) error {
	if g.IsGameOver() {
		return ErrRoundOver
	}
	if value != "" && !isSingleUpper(value) {
		return fmt.Errorf("%w: value %q", ErrInvalidGuess, value)
	}
	if _, ok := g.Inputs[cipherLetter]; !ok {
		return fmt.Errorf("%w: unknown letter %q", ErrInvalidGuess, cipherLetter)
	}

	g.Inputs[cipherLetter] = value
	for wi := range g.Fields {
		chars := g.Fields[wi].Characters
		for ci := range chars {
			c := &chars[ci]
			if c.Kind != KindLetter || c.CipherLetter != cipherLetter {
				continue
			}
			if c.UserValue != value {
				c.IsError, c.IsCorrect = false, false
			}
			c.UserValue = value
		}
	}
	return nil
}

// Validate checks every filled field against the solution.
//
//   - Empty fields are neutral.
//   - Any mismatch costs one life; reaching zero loses the round.
//   - The round is solved only when every input is filled and correct.
func (g *Game) Validate() error {
	if g.IsGameOver() {
		return ErrRoundOver
	}

	hasError := false
	for wi := range g.Fields {
		chars := g.Fields[wi].Characters
		for ci := range chars {
			c := &chars[ci]
			if c.Kind != KindLetter {
				continue
			}
			switch {
			case c.UserValue == "":
				c.IsError, c.IsCorrect = false, false
			case c.UserValue == g.solutionMap[c.CipherLetter]:
				c.IsError, c.IsCorrect = false, true
			default:
				c.IsError, c.IsCorrect = true, false
				hasError = true
			}
		}
	}

	solved := true
	for letter, guess := range g.Inputs {
		if g.solutionMap[letter] != guess {
			solved = false
			break
		}
	}

	if hasError {
		g.Lives--
	}
	g.IsLost = hasError && g.Lives <= 0
	g.IsSolved = solved && !g.IsLost
	return nil
}

// IsGameOver reports whether the round reached a terminal state.
func (g *Game) IsGameOver() bool { return g.IsSolved || g.IsLost }

// Status reports the round's state machine position.
func (g *Game) Status() Status {
	switch {
	case g.IsSolved:
		return StatusSolved
	case g.IsLost:
		return StatusLost
	default:
		return StatusActive
	}
}

// DecryptedText returns the plaintext. Diagnostic only: never render it.
func (g *Game) DecryptedText() string { return g.decryptedText }

// Letters returns the letter fields in FieldIndex order, so that
// Letters()[i].FieldIndex == i.
func (g *Game) Letters() []CharacterField {
	out := make([]CharacterField, 0, g.FieldsCount)
	for _, w := range g.Fields {
		for _, c := range w.Characters {
			if c.Kind == KindLetter {
				out = append(out, c)
			}
		}
	}
	return out
}

// NextField returns the first enabled letter field after fieldIndex.
// Pass -1 to find the first enabled field.
func (g *Game) NextField(fieldIndex int) (int, bool) {
	return NextEnabled(g.Letters(), fieldIndex)
}

// PrevField returns the last enabled letter field before fieldIndex.
func (g *Game) PrevField(fieldIndex int) (int, bool) {
	return PrevEnabled(g.Letters(), fieldIndex)
}

// NextEnabled returns the position of the first enabled field after pos.
func NextEnabled(fields []CharacterField, pos int) (int, bool) {
	if pos < -1 {
		pos = -1
	}
	for i := pos + 1; i < len(fields); i++ {
		if fields[i].Enabled() {
			return i, true
		}
	}
	return -1, false
}

// PrevEnabled returns the position of the last enabled field before pos.
func PrevEnabled(fields []CharacterField, pos int) (int, bool) {
	if pos > len(fields) {
		pos = len(fields)
	}
	for i := pos - 1; i >= 0; i-- {
		if fields[i].Enabled() {
			return i, true
		}
	}
	return -1, false
}

// isSingleUpper reports whether s is exactly one ASCII upper-case letter.
func isSingleUpper(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}
