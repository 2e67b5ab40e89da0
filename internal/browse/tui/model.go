// Package tui is a terminal view over browse.State.
package tui

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"examtopics-viewer/internal/browse"
	"examtopics-viewer/internal/exam"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Options struct {
	Exam string
	// BaseUrl resolves relative links and images in prompts.
	BaseUrl string
	// Warning is shown above the question, ex. when scraping stopped early.
	Warning string
	Seed    uint64
}

// Model renders one question at a time and maps keys onto browse.State.
type Model struct {
	state     browse.State
	input     textinput.Model
	jumping   bool
	message   string
	opts      Options
	rng       *rand.Rand
	converter *md.Converter
	width     int
}

func NewModel(questions []exam.Question, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Search question number"
	input.CharLimit = 6
	input.Prompt = "# "

	return Model{
		state:     browse.New(questions),
		input:     input,
		opts:      opts,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		converter: md.NewConverter(opts.BaseUrl, true, nil),
	}
}

// State returns the browsing state, callers keep it between sessions.
func (m Model) State() browse.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(typed)
		}
		return m.updateBrowse(typed)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", "right", "l":
		m.state = m.state.Next()
	case "p", "left":
		m.state = m.state.Previous()
	case "r":
		m.state = m.state.Random(m.rng)
	case "h":
		state, err := m.state.ToggleHighlight()
		if err != nil {
			m.message = err.Error()
			break
		}
		m.state = state
	case "H":
		m.state = m.state.ToggleDefaultHighlight()
	case "d":
		m.state = m.state.ToggleDiscussion()
	case "/", "g":
		m.jumping = true
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.jumping = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.jumping = false
		m.input.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.message = browse.ErrNoSuchQuestion.Error()
			return m, nil
		}
		state, err := m.state.Jump(exam.Number(n))
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.state = state
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	q, ok := m.state.Current()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.opts.Exam),
			"No questions found.",
			helpStyle.Render("q quit"),
		)
	}

	sections := []string{m.renderHeader(q)}
	if m.opts.Warning != "" {
		sections = append(sections, warningStyle.Render(m.opts.Warning))
	}
	sections = append(sections, m.renderPrompt(q), m.renderAnswers(q))
	if toggle := m.renderToggle(q); toggle != "" {
		sections = append(sections, toggle)
	}
	if m.state.ShowDiscussion {
		sections = append(sections, renderDiscussion(q.Comments))
	}
	if m.jumping {
		sections = append(sections, m.input.View())
	}
	if m.message != "" {
		sections = append(sections, warningStyle.Render(m.message))
	}
	sections = append(sections, helpStyle.Render("n/p next/previous  r random  / jump  h highlight  H always highlight  d discussion  q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
