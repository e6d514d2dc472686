package models

// Theme is the display mode preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// DefaultTheme is applied when neither an explicit preference nor a cached value exists.
	DefaultTheme = ThemeLight
)

// ParseTheme returns the [Theme] named by s. Only "light" and "dark" are valid.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	default:
		return "", false
	}
}

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	_, ok := ParseTheme(string(t))
	return ok
}

// Opposite returns dark for light and light for anything else.
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) String() string { return string(t) }
