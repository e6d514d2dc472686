package models

import (
	"testing"
	"time"
)

func TestTheme(t *testing.T) {
	t.Run("ParseTheme", func(t *testing.T) {
		tests := []struct {
			input string
			want  Theme
			ok    bool
		}{
			{"light", ThemeLight, true},
			{"dark", ThemeDark, true},
			{"Dark", "", false},
			{"sepia", "", false},
			{"", "", false},
		}
		for _, tt := range tests {
			got, ok := ParseTheme(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseTheme(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		}
	})

	t.Run("Opposite", func(t *testing.T) {
		if ThemeLight.Opposite() != ThemeDark {
			t.Error("expected light to flip to dark")
		}
		if ThemeDark.Opposite() != ThemeLight {
			t.Error("expected dark to flip to light")
		}
	})

	t.Run("Default is light", func(t *testing.T) {
		if DefaultTheme != ThemeLight || !DefaultTheme.Valid() {
			t.Errorf("unexpected default theme %q", DefaultTheme)
		}
	})
}

func TestFavourite(t *testing.T) {
	t.Run("NewFavourite truncates to milliseconds in UTC", func(t *testing.T) {
		loc := time.FixedZone("EST", -5*60*60)
		at := time.Date(2024, 3, 1, 9, 30, 0, 123456789, loc)

		fav := NewFavourite("AAPL", "Apple", at)

		if fav.AddedAt.Location() != time.UTC {
			t.Errorf("expected UTC, got %v", fav.AddedAt.Location())
		}
		if fav.AddedAt.Nanosecond() != 123000000 {
			t.Errorf("expected millisecond precision, got %d ns", fav.AddedAt.Nanosecond())
		}
		if !fav.AddedAt.Equal(at.Truncate(time.Millisecond)) {
			t.Errorf("expected same instant, got %v", fav.AddedAt)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (Favourite{Symbol: "AAPL"}).Validate(); err != nil {
			t.Errorf("expected valid favourite, got %v", err)
		}
		if err := (Favourite{Name: "Apple"}).Validate(); err == nil {
			t.Error("expected error for missing symbol")
		}
	})
}

func TestProfileFind(t *testing.T) {
	p := &Profile{Favourites: []Favourite{{Symbol: "AAPL", Name: "Apple"}, {Symbol: "MSFT"}}}

	if fav, ok := p.Find("AAPL"); !ok || fav.Name != "Apple" {
		t.Errorf("expected AAPL, got %+v %v", fav, ok)
	}
	if _, ok := p.Find("aapl"); ok {
		t.Error("expected lookup to be case sensitive")
	}

	var nilProfile *Profile
	if _, ok := nilProfile.Find("AAPL"); ok {
		t.Error("expected nil profile to have no favourites")
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		display string
		wantErr bool
	}{
		{"valid", "ada@example.com", "Ada", false},
		{"missing email", "", "Ada", true},
		{"invalid email", "not-an-email", "Ada", true},
		{"missing name", "ada@example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUser(1, tt.email, tt.display).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
