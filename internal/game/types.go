// internal/game/types.go
//
// Core type definitions for the puzzle state engine.
// Defines:
//   - Kind: classification of a single ciphertext character.
//   - CharacterField / WordField: the per-character model of the quote.
//   - Status: active / solved / lost.
//   - Game: state for a single round.

package game

// Kind classifies one character of the ciphertext.
// Only KindLetter fields take player input.
type Kind string

const (
	KindLetter Kind = "letter"
	KindNumber Kind = "number"
	KindSpace  Kind = "space"
	KindJoin   Kind = "join"   // hyphen or apostrophe
	KindSymbol Kind = "symbol" // anything else
)

// CharacterField is one character of the ciphertext.
type CharacterField struct {
	Index        int    `json:"index"`      // rune offset in the ciphertext
	FieldIndex   int    `json:"fieldIndex"` // dense 0..N-1 over letters, -1 otherwise
	Kind         Kind   `json:"type"`
	CipherLetter string `json:"letter"`
	IsError      bool   `json:"isError"`
	IsCorrect    bool   `json:"isCorrect"`
	UserValue    string `json:"value"`
}

// Enabled reports whether the field still accepts input.
func (c CharacterField) Enabled() bool {
	return c.Kind == KindLetter && !c.IsCorrect
}

// WordField is a run of characters between single spaces.
type WordField struct {
	Index      int              `json:"index"`
	Word       string           `json:"word"`
	Characters []CharacterField `json:"characters"`
}

// Status is the round's position in its state machine.
type Status string

const (
	StatusActive Status = "playing"
	StatusSolved Status = "solved"
	StatusLost   Status = "lost"
)

// Options configure a new round.
type Options struct {
	Lives int // 0 means DefaultLives
}

// Game holds the state of a single round.
// All mutation goes through SetGuess and Validate.
type Game struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`   // ciphertext
	Author      string            `json:"author"`
	Lives       int               `json:"lives"`
	MaxLives    int               `json:"maxLives"`
	Inputs      map[string]string `json:"inputs"` // cipher letter → current guess
	Fields      []WordField       `json:"fields"`
	FieldsCount int               `json:"fieldsCount"` // number of letter fields
	IsSolved    bool              `json:"isSolved"`
	IsLost      bool              `json:"isLost"`

	solutionMap   map[string]string // cipher letter → plaintext letter
	decryptedText string
}
