package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/melodia-app/melodia/internal/recommend"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/vocab"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	CandidateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	view   ViewState
	engine *recommend.Engine
	topN   int

	width  int
	height int

	input         textinput.Model
	candidateList list.Model
	resultList    list.Model

	seed    vocab.Entry
	results []recommend.Result
	err     error

	help help.Model
	keys keyMap
}

type candidatesMsg struct {
	entry      vocab.Entry
	candidates []vocab.Entry
	err        error
}

type recommendationMsg struct {
	rec *recommend.Recommendation
	err error
}

// NewModel creates a new TUI model backed by a recommendation engine.
func NewModel(engine *recommend.Engine, topN int) *Model {
	input := textinput.New()
	input.Placeholder = "Type part of a song name..."
	input.Focus()
	input.CharLimit = 120
	input.Width = 48

	return &Model{
		view:   SearchView,
		engine: engine,
		topN:   topN,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.candidateList.Width() != 0 {
			m.candidateList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.resultList.Width() != 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case CandidateView:
			return m.handleCandidateKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case candidatesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if len(msg.candidates) <= 1 {
			// Unambiguous query, go straight to recommendations.
			return m, m.recommendFor(msg.entry.Token)
		}
		items := make([]list.Item, len(msg.candidates))
		for i, entry := range msg.candidates {
			items[i] = songItem{entry: entry}
		}
		m.candidateList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.candidateList.Title = fmt.Sprintf("Matches for %q", m.input.Value())
		m.candidateList.SetSize(m.width-4, m.height-8)
		m.view = CandidateView
		return m, nil

	case recommendationMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.seed = msg.rec.Seed
		m.results = msg.rec.Results

		items := make([]list.Item, len(msg.rec.Results))
		for i, result := range msg.rec.Results {
			items[i] = resultItem{rank: i + 1, result: result}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Similar to %s", shared.DisplayTitle(msg.rec.Seed.Song))
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ResultView
		return m, nil
	}

	return m.updateChildren(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case CandidateView:
		return m.renderCandidates()
	case ResultView:
		return m.renderResults()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		return m, m.searchFor(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleCandidateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case "enter":
		if selected := m.candidateList.SelectedItem(); selected != nil {
			if item, ok := selected.(songItem); ok {
				return m, m.recommendFor(item.entry.Token)
			}
		}
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CandidateView
		if m.candidateList.Width() == 0 {
			m.view = SearchView
		}
		return m, nil
	case "/":
		m.input.SetValue("")
		m.input.Focus()
		m.err = nil
		m.view = SearchView
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case CandidateView:
		m.candidateList, cmd = m.candidateList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) searchFor(query string) tea.Cmd {
	return func() tea.Msg {
		entry, candidates, err := m.engine.Resolve(recommend.QuerySeed(query), true)
		return candidatesMsg{entry: entry, candidates: candidates, err: err}
	}
}

func (m *Model) recommendFor(token int) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.engine.Recommend(recommend.TokenSeed(token), m.topN, true)
		return recommendationMsg{rec: rec, err: err}
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Find similar songs")

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("\n%v", m.err))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, m.input.View(), errLine, helpView)
}

func (m *Model) renderCandidates() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.candidateList.View(), helpView)
}

func (m *Model) renderResults() string {
	header := styles.ok.Render(fmt.Sprintf("Seed: %s - %s",
		shared.DisplayTitle(m.seed.Song), shared.DisplayTitle(m.seed.Artist)))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", header, m.resultList.View(), helpView)
}
