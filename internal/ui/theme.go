package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Header     lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Card       lipgloss.Style
	CardLocked lipgloss.Style
	CardDone   lipgloss.Style
	Accent     lipgloss.Style
	Pass       lipgloss.Style
	Fail       lipgloss.Style
	Pending    lipgloss.Style
	Muted      lipgloss.Style
	Body       lipgloss.Style
	BarFull    lipgloss.Style
	BarEmpty   lipgloss.Style
}

// ThemeFor picks the palette that matches the stored darkMode setting.
// The colours follow the Gambian flag.
func ThemeFor(dark, ascii bool) Theme {
	border := lipgloss.RoundedBorder()
	if ascii {
		border = asciiBorder
	}
	if dark {
		return darkTheme(border)
	}
	return lightTheme(border)
}

var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

func lightTheme(border lipgloss.Border) Theme {
	red := lipgloss.Color("#CE1126")
	blue := lipgloss.Color("#0C1C8C")
	green := lipgloss.Color("#3A7728")
	ink := lipgloss.Color("#1F2933")
	grey := lipgloss.Color("#7B8794")
	paper := lipgloss.Color("#FFFFFF")

	return Theme{
		Header:     lipgloss.NewStyle().Background(blue).Foreground(paper).Bold(true).Padding(0, 1),
		Title:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		Subtitle:   lipgloss.NewStyle().Foreground(green).Bold(true),
		Card:       lipgloss.NewStyle().BorderStyle(border).BorderForeground(blue).Padding(0, 1),
		CardLocked: lipgloss.NewStyle().BorderStyle(border).BorderForeground(grey).Foreground(grey).Padding(0, 1),
		CardDone:   lipgloss.NewStyle().BorderStyle(border).BorderForeground(green).Padding(0, 1),
		Accent:     lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:       lipgloss.NewStyle().Foreground(green).Bold(true),
		Fail:       lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("#B7791F")),
		Muted:      lipgloss.NewStyle().Foreground(grey),
		Body:       lipgloss.NewStyle().Foreground(ink),
		BarFull:    lipgloss.NewStyle().Foreground(green),
		BarEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD2D9")),
	}
}

func darkTheme(border lipgloss.Border) Theme {
	red := lipgloss.Color("#FF5C6C")
	blue := lipgloss.Color("#7C8CFF")
	green := lipgloss.Color("#6FCF57")
	night := lipgloss.Color("#0E1420")
	grey := lipgloss.Color("#9CAAC6")
	powder := lipgloss.Color("#EAF2FF")

	return Theme{
		Header:     lipgloss.NewStyle().Background(night).Foreground(powder).Bold(true).Padding(0, 1),
		Title:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		Subtitle:   lipgloss.NewStyle().Foreground(green).Bold(true),
		Card:       lipgloss.NewStyle().BorderStyle(border).BorderForeground(blue).Padding(0, 1),
		CardLocked: lipgloss.NewStyle().BorderStyle(border).BorderForeground(lipgloss.Color("#4B5F8A")).Foreground(grey).Padding(0, 1),
		CardDone:   lipgloss.NewStyle().BorderStyle(border).BorderForeground(green).Padding(0, 1),
		Accent:     lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:       lipgloss.NewStyle().Foreground(green).Bold(true),
		Fail:       lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")),
		Muted:      lipgloss.NewStyle().Foreground(grey),
		Body:       lipgloss.NewStyle().Foreground(powder),
		BarFull:    lipgloss.NewStyle().Foreground(green),
		BarEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#30394A")),
	}
}
