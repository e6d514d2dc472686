package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tickr/internal/models"
)

// Document is a raw JSON object keyed by top-level field.
type Document map[string]json.RawMessage

// Apply applies mutations to doc in order. It does not persist anything: callers
// run it inside whatever transaction makes the read-modify-write atomic.
func Apply(doc Document, mutations ...Mutation) error {
	for _, m := range mutations {
		if err := m.Validate(); err != nil {
			return err
		}

		switch m.Op {
		case OpSet:
			doc[m.Field] = m.Value
		case OpArrayUnion, OpArrayRemove:
			elems, err := arrayField(doc, m.Field)
			if err != nil {
				return err
			}
			target, err := Canonical(m.Value)
			if err != nil {
				return err
			}

			if m.Op == OpArrayUnion {
				elems, err = union(elems, m.Value, target)
			} else {
				elems, err = remove(elems, target)
			}
			if err != nil {
				return err
			}

			raw, err := json.Marshal(elems)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", m.Field, err)
			}
			doc[m.Field] = raw
		}
	}
	return nil
}

// Canonical re-encodes raw so that equal JSON values compare equal byte for byte.
// Object keys come out sorted and insignificant whitespace is dropped.
func Canonical(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return json.Marshal(v)
}

func arrayField(doc Document, field string) ([]json.RawMessage, error) {
	raw, ok := doc[field]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []json.RawMessage{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: field %s is not an array", ErrInvalidMutation, field)
	}
	return elems, nil
}

func union(elems []json.RawMessage, value json.RawMessage, target []byte) ([]json.RawMessage, error) {
	for _, e := range elems {
		c, err := Canonical(e)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(c, target) {
			return elems, nil
		}
	}
	return append(elems, value), nil
}

func remove(elems []json.RawMessage, target []byte) ([]json.RawMessage, error) {
	kept := make([]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		c, err := Canonical(e)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(c, target) {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// ParseDocument decodes a stored JSON object. Empty input is an empty document.
func ParseDocument(data []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Profile returns the typed view of the document. It is lenient: a favourite
// that does not decode is skipped, and an addedAt that is not RFC 3339 reads as
// the zero time, so one odd entry never hides the rest.
func (d Document) Profile() *models.Profile {
	p := &models.Profile{}
	if raw, ok := d[models.FieldThemePreference]; ok {
		var theme string
		if json.Unmarshal(raw, &theme) == nil {
			p.ThemePreference = models.Theme(theme)
		}
	}
	for _, e := range d.favourites() {
		if fav, ok := decodeFavourite(e); ok {
			p.Favourites = append(p.Favourites, fav)
		}
	}
	return p
}

// Favourite returns the first stored favourites element whose symbol matches,
// exactly as stored.
func (d Document) Favourite(symbol string) (json.RawMessage, bool) {
	for _, e := range d.favourites() {
		var f struct {
			Symbol string `json:"symbol"`
		}
		if json.Unmarshal(e, &f) == nil && f.Symbol == symbol {
			return e, true
		}
	}
	return nil, false
}

// Clone returns a copy of d that shares no map with it.
func (d Document) Clone() Document {
	c := make(Document, len(d))
	for k, v := range d {
		c[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

func (d Document) favourites() []json.RawMessage {
	elems, err := arrayField(d, models.FieldFavourites)
	if err != nil {
		return nil
	}
	return elems
}

func decodeFavourite(raw json.RawMessage) (models.Favourite, bool) {
	var f struct {
		Symbol  string          `json:"symbol"`
		Name    json.RawMessage `json:"name"`
		AddedAt json.RawMessage `json:"addedAt"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return models.Favourite{}, false
	}

	fav := models.Favourite{Symbol: f.Symbol}
	_ = json.Unmarshal(f.Name, &fav.Name)

	var addedAt string
	if json.Unmarshal(f.AddedAt, &addedAt) == nil {
		if t, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
			fav.AddedAt = t
		}
	}
	return fav, true
}
