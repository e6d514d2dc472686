package ui

import (
	"github.com/desertthunder/tickr/internal/models"
)

// favouritesLoadedMsg carries a fresh favourites list.
type favouritesLoadedMsg struct {
	favourites []models.Favourite
}

// favouriteAddedMsg reports the outcome of an add.
type favouriteAddedMsg struct {
	symbol string
	ok     bool
}

// favouriteRemovedMsg reports the outcome of a remove.
type favouriteRemovedMsg struct {
	symbol string
	ok     bool
}

// themeToggledMsg carries the theme now active.
type themeToggledMsg struct {
	theme models.Theme
}
