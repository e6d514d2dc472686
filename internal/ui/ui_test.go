package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/favourites"
	"github.com/desertthunder/tickr/internal/models"
	tu "github.com/desertthunder/tickr/internal/testing"
	"github.com/desertthunder/tickr/internal/theme"
)

type fixture struct {
	model      *Model
	store      *tu.MockStore
	controller *theme.Controller
	surface    *Surface
}

func newFixture(t *testing.T, uid string, seed ...models.Favourite) *fixture {
	t.Helper()

	st := tu.NewMockStore()
	if len(seed) > 0 {
		st.Seed(uid, &models.Profile{Favourites: seed})
	}
	logger := log.New(io.Discard)
	surface := NewSurface()
	controller := theme.NewController(tu.NewMockCache(nil), st, logger, surface)
	controller.Initialize("")
	repo := favourites.NewRepository(st, tu.MockIdentity{UID: uid}, logger)

	m := NewModel(context.Background(), repo, controller, surface, uid)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return &fixture{model: m, store: st, controller: controller, surface: surface}
}

// run executes cmd and feeds its message back into the model.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := f.model.Update(cmd())
	return next
}

func (f *fixture) press(keys string) tea.Cmd {
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	f.run(t, f.model.Init())
}

func TestModelList(t *testing.T) {
	tsla := models.NewFavourite("TSLA", "Tesla", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("Init Loads Favourites", func(t *testing.T) {
		f := newFixture(t, "u1", tsla)
		f.load(t)

		if got := len(f.model.list.Items()); got != 1 {
			t.Fatalf("expected 1 item, got %d", got)
		}
		if f.model.list.Title != "Favourites (1)" {
			t.Errorf("unexpected title: %s", f.model.list.Title)
		}
		if !strings.Contains(f.model.View(), "TSLA") {
			t.Error("expected TSLA in view")
		}
	})

	t.Run("Signed Out Shows Hint", func(t *testing.T) {
		f := newFixture(t, "")
		f.load(t)

		if len(f.model.list.Items()) != 0 {
			t.Error("expected no items when signed out")
		}
		if !f.model.failed || !strings.Contains(f.model.status, "Not signed in") {
			t.Errorf("expected sign-in hint, got %q", f.model.status)
		}
		if f.store.Calls() != 0 {
			t.Errorf("expected no store calls, got %d", f.store.Calls())
		}
	})

	t.Run("Remove Selected", func(t *testing.T) {
		f := newFixture(t, "u1", tsla)
		f.load(t)

		next := f.run(t, f.press("d"))
		if f.model.status != "Removed TSLA" {
			t.Errorf("unexpected status: %q", f.model.status)
		}
		f.run(t, next)

		if len(f.model.list.Items()) != 0 {
			t.Errorf("expected empty list, got %d items", len(f.model.list.Items()))
		}
		if len(f.store.Profile("u1").Favourites) != 0 {
			t.Error("expected TSLA removed from store")
		}
	})

	t.Run("Remove With Empty List", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.load(t)

		if cmd := f.press("d"); cmd != nil {
			t.Error("expected no command without a selection")
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.load(t)
		f.store.Seed("u1", &models.Profile{Favourites: []models.Favourite{tsla}})

		f.run(t, f.press("r"))

		if len(f.model.list.Items()) != 1 {
			t.Errorf("expected refreshed list with 1 item, got %d", len(f.model.list.Items()))
		}
	})

	t.Run("Quit", func(t *testing.T) {
		f := newFixture(t, "u1")
		cmd := f.press("q")
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestModelAdd(t *testing.T) {
	t.Run("Adds Normalized Symbol", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.load(t)

		f.press("a")
		if f.model.view != AddView {
			t.Fatalf("expected add view, got %v", f.model.view)
		}
		f.press(" aapl  Apple Inc.")
		_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if f.model.view != ListView {
			t.Errorf("expected list view after submit, got %v", f.model.view)
		}
		next := f.run(t, cmd)
		if f.model.status != "Added AAPL" {
			t.Errorf("unexpected status: %q", f.model.status)
		}
		f.run(t, next)

		favs := f.store.Profile("u1").Favourites
		if len(favs) != 1 || favs[0].Symbol != "AAPL" || favs[0].Name != "Apple Inc." {
			t.Errorf("unexpected favourites: %+v", favs)
		}
		if len(f.model.list.Items()) != 1 {
			t.Errorf("expected 1 item, got %d", len(f.model.list.Items()))
		}
	})

	t.Run("Empty Entry Stays Open", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.press("a")
		_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if cmd != nil {
			t.Error("expected no command for empty entry")
		}
		if f.model.view != AddView || !f.model.failed {
			t.Error("expected add view with an error status")
		}
	})

	t.Run("Escape Cancels", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.press("a")
		f.model.Update(tea.KeyMsg{Type: tea.KeyEscape})

		if f.model.view != ListView {
			t.Errorf("expected list view, got %v", f.model.view)
		}
		if f.store.Calls() != 0 {
			t.Errorf("expected no store calls, got %d", f.store.Calls())
		}
	})

	t.Run("Failure Is Reported", func(t *testing.T) {
		f := newFixture(t, "")
		f.press("a")
		f.press("GME GameStop")
		_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		f.run(t, cmd)

		if !f.model.failed || f.model.status != "Could not add GME" {
			t.Errorf("unexpected status: %q", f.model.status)
		}
	})

	t.Run("View Shows Prompt", func(t *testing.T) {
		f := newFixture(t, "u1")
		f.press("a")
		if !strings.Contains(f.model.View(), "Add favourite") {
			t.Error("expected add view title")
		}
	})
}

func TestModelToggleTheme(t *testing.T) {
	f := newFixture(t, "u1")

	f.run(t, f.press("t"))
	f.controller.Wait()

	if f.surface.Theme() != models.ThemeDark {
		t.Errorf("expected dark surface, got %s", f.surface.Theme())
	}
	if f.surface.Palette() != darkPalette {
		t.Error("expected dark palette")
	}
	if f.model.status != "Theme: dark" {
		t.Errorf("unexpected status: %q", f.model.status)
	}
	if got := f.store.Profile("u1").ThemePreference; got != models.ThemeDark {
		t.Errorf("expected remote preference dark, got %q", got)
	}

	f.run(t, f.press("t"))
	f.controller.Wait()
	if f.surface.Theme() != models.ThemeLight {
		t.Errorf("expected light surface, got %s", f.surface.Theme())
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		input, symbol, name string
	}{
		{"aapl Apple Inc.", "AAPL", "Apple Inc."},
		{"  msft   Microsoft   Corp ", "MSFT", "Microsoft Corp"},
		{"tsla", "TSLA", ""},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		symbol, name := parseEntry(tt.input)
		if symbol != tt.symbol || name != tt.name {
			t.Errorf("parseEntry(%q) = (%q, %q), want (%q, %q)", tt.input, symbol, name, tt.symbol, tt.name)
		}
	}
}

func TestFavouriteItem(t *testing.T) {
	item := favouriteItem{fav: models.Favourite{Symbol: "AAPL", Name: "Apple"}}
	if item.Title() != "AAPL" || item.Description() != "Apple" {
		t.Errorf("unexpected item rendering: %q %q", item.Title(), item.Description())
	}
	if item.FilterValue() != "AAPL Apple" {
		t.Errorf("unexpected filter value: %q", item.FilterValue())
	}

	dated := favouriteItem{fav: models.Favourite{Symbol: "X", AddedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}}
	if !strings.HasPrefix(dated.Description(), "added ") {
		t.Errorf("expected added date, got %q", dated.Description())
	}
}
