package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	AddView
)

// Favourites is the favourites repository as seen by the TUI.
type Favourites interface {
	List(ctx context.Context) []models.Favourite
	Add(ctx context.Context, symbol, name string) bool
	Remove(ctx context.Context, symbol string) bool
}

// Themes is the theme controller as seen by the TUI.
type Themes interface {
	Toggle(ctx context.Context, userID string) models.Theme
	Current() models.Theme
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	favs    Favourites
	themes  Themes
	surface *Surface
	userID  string
	width   int
	height  int
	list    list.Model
	input   textinput.Model
	status  string
	failed  bool
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model. userID is empty when signed out; the list then
// stays empty and edits report failure.
func NewModel(ctx context.Context, favs Favourites, themes Themes, surface *Surface, userID string) *Model {
	input := textinput.New()
	input.Placeholder = "AAPL Apple Inc."
	input.CharLimit = 80

	m := &Model{
		ctx:     ctx,
		view:    ListView,
		favs:    favs,
		themes:  themes,
		surface: surface,
		userID:  userID,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.list = list.New(nil, newDelegate(surface.Palette()), 0, 0)
	m.list.SetShowHelp(false)
	m.restyle()

	if userID == "" {
		m.setStatus("Not signed in: run `tickr user signup` or `tickr user login` first", true)
	}
	return m
}

// Init initializes the TUI by loading favourites.
func (m *Model) Init() tea.Cmd {
	return m.fetchFavourites()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if m.view == AddView {
			return m.handleAddKeys(msg)
		}
		return m.handleListKeys(msg)

	case favouritesLoadedMsg:
		cmd := m.list.SetItems(toItems(msg.favourites))
		m.list.Title = fmt.Sprintf("Favourites (%d)", len(msg.favourites))
		return m, cmd

	case favouriteAddedMsg:
		if !msg.ok {
			m.setStatus(fmt.Sprintf("Could not add %s", msg.symbol), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Added %s", msg.symbol), false)
		return m, m.fetchFavourites()

	case favouriteRemovedMsg:
		if !msg.ok {
			m.setStatus(fmt.Sprintf("Could not remove %s", msg.symbol), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Removed %s", msg.symbol), false)
		return m, m.fetchFavourites()

	case themeToggledMsg:
		m.restyle()
		m.setStatus(fmt.Sprintf("Theme: %s", msg.theme), false)
		return m, nil
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case AddView:
		return m.renderAdd()
	default:
		return m.renderList()
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.view = AddView
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.list.SelectedItem().(favouriteItem); ok {
			return m, m.removeFavourite(item.fav.Symbol)
		}
		return m, nil
	case key.Matches(msg, m.keys.theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.refresh):
		m.setStatus("Refreshing...", false)
		return m, m.fetchFavourites()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.view = ListView
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		symbol, name := parseEntry(m.input.Value())
		if symbol == "" {
			m.setStatus("Enter a symbol, optionally followed by a name", true)
			return m, nil
		}
		m.view = ListView
		m.input.Blur()
		return m, m.addFavourite(symbol, name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case AddView:
		m.input, cmd = m.input.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// parseEntry splits "SYMBOL Some Name" into a normalized symbol and the name.
func parseEntry(value string) (string, string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", ""
	}
	return shared.NormalizeSymbol(fields[0]), strings.Join(fields[1:], " ")
}

func (m *Model) fetchFavourites() tea.Cmd {
	return func() tea.Msg {
		return favouritesLoadedMsg{favourites: m.favs.List(m.ctx)}
	}
}

func (m *Model) addFavourite(symbol, name string) tea.Cmd {
	return func() tea.Msg {
		return favouriteAddedMsg{symbol: symbol, ok: m.favs.Add(m.ctx, symbol, name)}
	}
}

func (m *Model) removeFavourite(symbol string) tea.Cmd {
	return func() tea.Msg {
		return favouriteRemovedMsg{symbol: symbol, ok: m.favs.Remove(m.ctx, symbol)}
	}
}

func (m *Model) toggleTheme() tea.Cmd {
	return func() tea.Msg {
		return themeToggledMsg{theme: m.themes.Toggle(m.ctx, m.userID)}
	}
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// restyle rebuilds palette-dependent components after a theme change.
func (m *Model) restyle() {
	p := m.surface.Palette()
	m.list.SetDelegate(newDelegate(p))
	m.list.Styles.Title = m.list.Styles.Title.Background(p.accent)
	m.input.PromptStyle = p.ok
	m.input.TextStyle = p.text
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	p := m.surface.Palette()
	if m.failed {
		return p.err.Render(m.status)
	}
	return p.ok.Render(m.status)
}

func (m *Model) renderList() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), m.renderStatus(), helpView)
}

func (m *Model) renderAdd() string {
	p := m.surface.Palette()
	title := p.title.Render("Add favourite")
	hint := p.help.Render("SYMBOL followed by an optional name")

	helpKeys := []key.Binding{m.keys.submit, m.keys.cancel}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s", title, m.input.View(), hint, m.renderStatus(), helpView)
}
