package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tickr/internal/models"
)

var _ list.Item = favouriteItem{}

// favouriteItem wraps [models.Favourite] to implement [list.Item].
type favouriteItem struct {
	fav models.Favourite
}

func (i favouriteItem) FilterValue() string { return i.fav.Symbol + " " + i.fav.Name }
func (i favouriteItem) Title() string       { return i.fav.Symbol }
func (i favouriteItem) Description() string {
	desc := i.fav.Name
	if !i.fav.AddedAt.IsZero() {
		added := i.fav.AddedAt.Local().Format("2006-01-02")
		if desc == "" {
			return "added " + added
		}
		desc = fmt.Sprintf("%s • added %s", desc, added)
	}
	return desc
}

func toItems(favs []models.Favourite) []list.Item {
	items := make([]list.Item, len(favs))
	for i, f := range favs {
		items[i] = favouriteItem{fav: f}
	}
	return items
}

// newDelegate styles list rows with the palette's accent colour.
func newDelegate(p *Palette) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(p.text.GetForeground())
	return d
}
