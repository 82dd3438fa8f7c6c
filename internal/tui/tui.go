package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unquotable/internal/cipher"
	"github.com/robalobadob/unquotable/internal/client"
	"github.com/robalobadob/unquotable/internal/game"
)

// Fetcher supplies encrypted quotes. *client.Client satisfies it.
type Fetcher interface {
	Quote(ctx context.Context) (cipher.EncryptedQuote, error)
	Daily(ctx context.Context) (cipher.EncryptedQuote, error)
}

// Options carry over from one round to the next.
type Options struct {
	Lives int
	Daily bool // play the quote of the day instead of a random one
}

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateOver
	stateError
)

type keyMap struct {
	Guess   key.Binding
	Clear   key.Binding
	Left    key.Binding
	Right   key.Binding
	Decrypt key.Binding
	NewGame key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Guess, k.Clear, k.Left, k.Right, k.Decrypt, k.NewGame, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Guess, k.Clear, k.Left, k.Right}, {k.Decrypt, k.NewGame, k.Quit}}
}

func letterKeys() []string {
	out := make([]string, 0, 52)
	for r := 'a'; r <= 'z'; r++ {
		out = append(out, string(r), strings.ToUpper(string(r)))
	}
	return out
}

var keys = keyMap{
	Guess:   key.NewBinding(key.WithKeys(letterKeys()...), key.WithHelp("a-z", "guess")),
	Clear:   key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "clear")),
	Left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
	Right:   key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next")),
	Decrypt: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "decrypt")),
	NewGame: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new game")),
	Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	heartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0245E"))

	cellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F")).Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	cipherStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Italic(true)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Italic(true)
)

type model struct {
	fetch   Fetcher
	opts    Options
	tracker *client.RoundTracker

	state  sessionState
	game   *game.Game
	cursor int // FieldIndex of the focused letter, -1 when none is enabled
	err    error
	notice string // transient, cleared by the next key press

	spinner spinner.Model
	help    help.Model
	width   int
}

// quoteMsg carries a round-start completion tagged with its request token.
type quoteMsg struct {
	token uint64
	eq    cipher.EncryptedQuote
	err   error
}

// NewModel builds the program model. The first round starts in Init.
func NewModel(f Fetcher, opts Options) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		fetch:   f,
		opts:    opts,
		tracker: &client.RoundTracker{},
		state:   stateLoading,
		cursor:  -1,
		spinner: sp,
		help:    help.New(),
		width:   80,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRound())
}

// startRound issues a fetch; only the latest one is allowed to land.
func (m model) startRound() tea.Cmd {
	ctx, token := m.tracker.Begin(context.Background())
	f, daily := m.fetch, m.opts.Daily
	return func() tea.Msg {
		var (
			eq  cipher.EncryptedQuote
			err error
		)
		if daily {
			eq, err = f.Daily(ctx)
		} else {
			eq, err = f.Quote(ctx)
		}
		return quoteMsg{token: token, eq: eq, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case quoteMsg:
		return m.handleQuote(msg), nil
	}
	return m, nil
}

func (m model) handleQuote(msg quoteMsg) model {
	if !m.tracker.Accept(msg.token) {
		log.Debug().Uint64("token", msg.token).Msg("dropped stale round")
		return m
	}
	err := msg.err
	var g *game.Game
	if err == nil {
		g, err = game.New(msg.eq, game.Options{Lives: m.opts.Lives})
	}
	if err != nil {
		log.Warn().Err(err).Msg("start round")
		if m.game == nil {
			m.state, m.err = stateError, err
			return m
		}
		m.notice = friendly(err)
		return m
	}

	log.Info().Str("round", g.ID).Str("author", g.Author).Int("fields", g.FieldsCount).Msg("round started")
	m.game, m.err, m.notice = g, nil, ""
	m.state = statePlaying
	m.cursor, _ = g.NextField(-1)
	return m
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, keys.Quit):
		m.tracker.Cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.NewGame):
		if m.game == nil {
			m.state = stateLoading
		}
		return m, m.startRound()
	}

	switch m.state {
	case stateOver, stateError:
		if key.Matches(msg, keys.Decrypt) {
			if m.game == nil {
				m.state = stateLoading
			}
			return m, m.startRound()
		}
		return m, nil
	case statePlaying:
	default:
		return m, nil
	}

	g := m.game
	switch {
	case key.Matches(msg, keys.Guess):
		m.setCursor(strings.ToUpper(msg.String()))
		if next, ok := g.NextField(m.cursor); ok {
			m.cursor = next
		}
	case key.Matches(msg, keys.Clear):
		m.setCursor("")
	case key.Matches(msg, keys.Left):
		if prev, ok := g.PrevField(m.cursor); ok {
			m.cursor = prev
		}
	case key.Matches(msg, keys.Right):
		if next, ok := g.NextField(m.cursor); ok {
			m.cursor = next
		}
	case key.Matches(msg, keys.Decrypt):
		if err := g.Validate(); err != nil {
			return m, nil
		}
		if g.IsGameOver() {
			log.Info().Str("round", g.ID).Str("status", string(g.Status())).Int("lives", g.Lives).Msg("round finished")
			m.state = stateOver
			return m, nil
		}
		m.refocus()
	}
	return m, nil
}

// setCursor applies value to the cipher letter under the cursor. Rejected
// guesses are ignored; input is already upper-cased.
func (m *model) setCursor(value string) {
	letters := m.game.Letters()
	if m.cursor < 0 || m.cursor >= len(letters) {
		return
	}
	if err := m.game.SetGuess(letters[m.cursor].CipherLetter, value); err != nil && !errors.Is(err, game.ErrInvalidGuess) {
		log.Debug().Err(err).Msg("set guess")
	}
}

// refocus moves the cursor off a field that validation just locked.
func (m *model) refocus() {
	letters := m.game.Letters()
	if m.cursor >= 0 && m.cursor < len(letters) && letters[m.cursor].Enabled() {
		return
	}
	if next, ok := m.game.NextField(m.cursor); ok {
		m.cursor = next
		return
	}
	m.cursor, _ = m.game.NextField(-1)
}

func friendly(err error) string {
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return "Could not reach the quote server. Press ctrl+n to try again."
	}
	return "That quote could not be played. Press ctrl+n for another."
}

// ------------------------------- view --------------------------------------

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = fmt.Sprintf("\n  %s Fetching a quote...\n", m.spinner.View())

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\n  Press enter to retry or esc to quit.", m.err)

	case statePlaying, stateOver:
		parts := []string{
			titleStyle.Render("UNQUOTABLE") + "   " + m.renderHearts(),
			"",
			m.renderBoard(),
		}
		if m.state == stateOver {
			parts = append(parts, "", m.renderBanner())
		}
		if m.tracker.Loading() {
			parts = append(parts, "", m.spinner.View()+" Fetching a quote...")
		}
		if m.notice != "" {
			parts = append(parts, "", noticeStyle.Render(m.notice))
		}
		parts = append(parts, "", m.help.View(keys))
		s = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	return "\n" + s + "\n"
}

func (m model) renderHearts() string {
	g := m.game
	lost := g.MaxLives - g.Lives
	if lost < 0 {
		lost = 0
	}
	return heartStyle.Render(strings.Repeat("♥ ", g.Lives) + strings.Repeat("♡ ", lost))
}

func (m model) renderBanner() string {
	g := m.game
	title := errorStyle.Render("YOU LOSE!")
	if g.IsSolved {
		title = correctStyle.Faint(false).Bold(true).Render("QUOTE COMPLETED!")
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		authorStyle.Render("- "+g.Author),
		"",
		"Press ctrl+n for a new quote.",
	)
	return bannerStyle.Render(body)
}

// renderBoard lays words out as two-row blocks (guesses over cipher
// letters) and wraps them to the terminal width.
func (m model) renderBoard() string {
	var (
		lines []string
		line  string
	)
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	for _, w := range m.game.Fields {
		block := m.renderWord(w)
		switch {
		case line == "":
			line = block
		case lipgloss.Width(line)+2+lipgloss.Width(block) > width:
			lines = append(lines, line)
			line = block
		default:
			line = lipgloss.JoinHorizontal(lipgloss.Top, line, "  ", block)
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	lines = append(lines, authorStyle.Render("- "+m.game.Author))
	return strings.Join(lines, "\n\n")
}

func (m model) renderWord(w game.WordField) string {
	var top, bottom strings.Builder
	for _, c := range w.Characters {
		if c.Kind != game.KindLetter {
			top.WriteString(cellStyle.Render(c.CipherLetter) + " ")
			bottom.WriteString("  ")
			continue
		}
		v := c.UserValue
		if v == "" {
			v = "_"
		}
		st := cellStyle
		switch {
		case c.IsCorrect:
			st = correctStyle
		case c.IsError:
			st = errorStyle
		}
		if c.FieldIndex == m.cursor && m.state == statePlaying {
			st = st.Inherit(cursorStyle)
		}
		top.WriteString(st.Render(v) + " ")
		bottom.WriteString(cipherStyle.Render(c.CipherLetter) + " ")
	}
	return top.String() + "\n" + bottom.String()
}

// Run starts the program on the alternate screen and blocks until exit.
func Run(f Fetcher, opts Options) error {
	p := tea.NewProgram(NewModel(f, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
