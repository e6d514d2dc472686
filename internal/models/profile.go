package models

import (
	"fmt"
	"time"
)

// Field names of the profile document.
const (
	FieldThemePreference = "themePreference"
	FieldFavourites      = "favourites"
)

// Profile is the per-user document held by the document store.
//
// Both fields are optional; an absent favourites field is the empty set.
type Profile struct {
	ThemePreference Theme       `json:"themePreference,omitempty"`
	Favourites      []Favourite `json:"favourites,omitempty"`
}

// Favourite is a stock symbol a user tracks for quick reference.
//
// Identity is the Symbol alone: no two favourites in a profile share one.
type Favourite struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"addedAt"`
}

// NewFavourite builds a [Favourite] stamped with addedAt in UTC at millisecond precision.
func NewFavourite(symbol, name string, addedAt time.Time) Favourite {
	return Favourite{
		Symbol:  symbol,
		Name:    name,
		AddedAt: addedAt.UTC().Truncate(time.Millisecond),
	}
}

// Validate checks that the favourite has a symbol.
func (f Favourite) Validate() error {
	if f.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	return nil
}

// Find returns the favourite with the given symbol.
func (p *Profile) Find(symbol string) (Favourite, bool) {
	if p == nil {
		return Favourite{}, false
	}
	for _, fav := range p.Favourites {
		if fav.Symbol == symbol {
			return fav, true
		}
	}
	return Favourite{}, false
}
