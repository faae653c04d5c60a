package app

import "strings"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Dark() bool { return t == ThemeDark }

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// normalizeTheme reads the stored darkMode flag. Anything other than
// "true" is light.
func normalizeTheme(raw string) Theme {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", string(ThemeDark):
		return ThemeDark
	default:
		return ThemeLight
	}
}

func (t Theme) storedValue() string {
	if t == ThemeDark {
		return "true"
	}
	return "false"
}
