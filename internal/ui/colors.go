package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tickr/internal/models"
)

var (
	lightPalette = NewPalette("#5A3FC0", "#027A4B", "#D70000", "#B35C00", "#8A8A8A", "#1A1A1A")
	darkPalette  = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262", "#FAFAFA")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	text   lipgloss.Style
}

func NewPalette(t, s, e, w, h, fg string) *Palette {
	return &Palette{
		accent: lipgloss.Color(t),
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		text:   NewStyle(fg),
	}
}

// PaletteFor returns the palette for a theme. Unknown themes get the light palette.
func PaletteFor(t models.Theme) *Palette {
	if t == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Surface is the terminal rendering surface. It implements theme.Surface: each
// SetTheme swaps the active palette and tells lipgloss which background to adapt to.
type Surface struct {
	mu      sync.RWMutex
	theme   models.Theme
	palette *Palette
}

// NewSurface creates a [Surface] showing the light palette until a theme is applied.
func NewSurface() *Surface {
	return &Surface{theme: models.ThemeLight, palette: lightPalette}
}

func (s *Surface) SetTheme(t models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	s.palette = PaletteFor(t)
	lipgloss.SetHasDarkBackground(t == models.ThemeDark)
}

// Theme returns the theme last applied.
func (s *Surface) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Palette returns the active palette.
func (s *Surface) Palette() *Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}
