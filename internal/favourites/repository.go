package favourites

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/store"
)

// Repository reads and writes favourites in the current user's profile document.
type Repository struct {
	store    store.Store
	identity store.Identity
	logger   *log.Logger
	clock    func() time.Time
}

// NewRepository creates a [Repository]. A nil logger uses the default logger.
func NewRepository(st store.Store, identity store.Identity, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Default()
	}
	return &Repository{
		store:    st,
		identity: identity,
		logger:   logger.With("component", "favourites"),
		clock:    time.Now,
	}
}

// WithClock replaces the clock used for addedAt.
func (r *Repository) WithClock(clock func() time.Time) *Repository {
	r.clock = clock
	return r
}

// List returns the user's favourites in stored order.
//
// It returns an empty slice when signed out, when the document or field is missing,
// and when the fetch fails.
func (r *Repository) List(ctx context.Context) []models.Favourite {
	uid, ok := r.currentUser()
	if !ok {
		return []models.Favourite{}
	}

	doc, err := r.store.Fetch(ctx, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Error("error fetching favourites", "user", uid, "error", err)
		}
		return []models.Favourite{}
	}
	profile := doc.Profile()
	if profile.Favourites == nil {
		return []models.Favourite{}
	}
	return profile.Favourites
}

// Add stores symbol with a display name unless it is already a favourite.
//
// An existing entry is left as is, addedAt included, and counts as success.
func (r *Repository) Add(ctx context.Context, symbol, name string) bool {
	uid, ok := r.currentUser()
	if !ok {
		return false
	}
	if symbol == "" {
		r.logger.Warn("refusing to add favourite without a symbol", "user", uid)
		return false
	}

	doc, err := r.store.Fetch(ctx, uid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc = store.Document{}
	case err != nil:
		r.logger.Error("error fetching favourites", "user", uid, "error", err)
		return false
	}

	if _, found := doc.Favourite(symbol); found {
		return true
	}

	fav := models.NewFavourite(symbol, name, r.clock())
	if err := r.store.Update(ctx, uid, store.UnionFavourite(fav)); err != nil {
		r.logger.Error("error adding favourite", "user", uid, "symbol", symbol, "error", err)
		return false
	}

	r.logger.Debug("favourite added", "user", uid, "symbol", symbol)
	return true
}

// Remove deletes the stored entry for symbol. A symbol that is not a favourite
// counts as success.
//
// The element removed is the one found in the document, byte for byte, so
// entries written by other clients with a different addedAt precision or extra
// fields still match.
func (r *Repository) Remove(ctx context.Context, symbol string) bool {
	uid, ok := r.currentUser()
	if !ok {
		return false
	}

	doc, err := r.store.Fetch(ctx, uid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return true
	case err != nil:
		r.logger.Error("error fetching favourites", "user", uid, "error", err)
		return false
	}

	stored, found := doc.Favourite(symbol)
	if !found {
		return true
	}

	if err := r.store.Update(ctx, uid, store.RemoveFavourite(stored)); err != nil {
		r.logger.Error("error removing favourite", "user", uid, "symbol", symbol, "error", err)
		return false
	}

	r.logger.Debug("favourite removed", "user", uid, "symbol", symbol)
	return true
}

// IsFavourite reports whether symbol is in [Repository.List].
func (r *Repository) IsFavourite(ctx context.Context, symbol string) bool {
	for _, f := range r.List(ctx) {
		if f.Symbol == symbol {
			return true
		}
	}
	return false
}

func (r *Repository) currentUser() (string, bool) {
	if r.identity == nil {
		return "", false
	}
	uid, ok := r.identity.CurrentUser()
	return uid, ok && uid != ""
}
