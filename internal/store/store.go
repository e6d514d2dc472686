package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/tickr/internal/models"
)

var (
	// ErrNotFound is returned by [Store.Fetch] when the user has no document yet.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidMutation is returned when a mutation cannot be applied to the document.
	ErrInvalidMutation = errors.New("invalid mutation")
)

// Identity reports the currently authenticated user.
type Identity interface {
	CurrentUser() (uid string, ok bool)
}

// Store is the per-user document store.
type Store interface {
	// Fetch returns the user's document as stored, or [ErrNotFound] if none
	// exists. Use [Document.Profile] for the typed view.
	Fetch(ctx context.Context, uid string) (Document, error)

	// Update applies all mutations to the user's document in one atomic step,
	// creating the document if it does not exist.
	Update(ctx context.Context, uid string, mutations ...Mutation) error
}

// Op is a field-level mutation operator.
type Op string

const (
	OpSet         Op = "set"
	OpArrayUnion  Op = "arrayUnion"
	OpArrayRemove Op = "arrayRemove"
)

// Mutation changes one top-level field of a document.
type Mutation struct {
	Field string          `json:"field"`
	Op    Op              `json:"op"`
	Value json.RawMessage `json:"value"`
}

// Validate checks the operator and that a field and value are present.
func (m Mutation) Validate() error {
	if m.Field == "" {
		return fmt.Errorf("%w: missing field", ErrInvalidMutation)
	}
	switch m.Op {
	case OpSet, OpArrayUnion, OpArrayRemove:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidMutation, m.Op)
	}
	if len(m.Value) == 0 || !json.Valid(m.Value) {
		return fmt.Errorf("%w: value for %s is not valid JSON", ErrInvalidMutation, m.Field)
	}
	return nil
}

// Set replaces field with v.
func Set(field string, v any) Mutation { return mustMutation(field, OpSet, v) }

// ArrayUnion appends v to the array field unless an equal element is already present.
func ArrayUnion(field string, v any) Mutation { return mustMutation(field, OpArrayUnion, v) }

// ArrayRemove removes every element equal to v from the array field.
func ArrayRemove(field string, v any) Mutation { return mustMutation(field, OpArrayRemove, v) }

// SetTheme sets the profile's theme preference.
func SetTheme(t models.Theme) Mutation { return Set(models.FieldThemePreference, t) }

// UnionFavourite adds fav to the profile's favourites.
func UnionFavourite(fav models.Favourite) Mutation { return ArrayUnion(models.FieldFavourites, fav) }

// RemoveFavourite removes stored, an element as returned by [Document.Favourite],
// from the profile's favourites. The bytes are sent untouched so the element
// matches whatever client wrote it.
func RemoveFavourite(stored json.RawMessage) Mutation {
	return Mutation{Field: models.FieldFavourites, Op: OpArrayRemove, Value: stored}
}

// mustMutation panics if v cannot be marshalled, like [regexp.MustCompile].
func mustMutation(field string, op Op, v any) Mutation {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("store: cannot marshal value for %s: %v", field, err))
	}
	return Mutation{Field: field, Op: op, Value: raw}
}
