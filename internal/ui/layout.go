package ui

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutNarrow
)

func DetermineLayoutMode(cols int) LayoutMode {
	if cols <= 0 || cols >= 120 {
		return LayoutWide
	}
	if cols >= 80 {
		return LayoutMedium
	}
	return LayoutNarrow
}

// Columns is how many challenge cards fit side by side. Narrow terminals
// get a plain table instead of cards.
func (m LayoutMode) Columns() int {
	switch m {
	case LayoutWide:
		return 3
	case LayoutMedium:
		return 2
	default:
		return 0
	}
}

func cardWidth(cols int, mode LayoutMode) int {
	n := mode.Columns()
	if n == 0 {
		return 0
	}
	if cols <= 0 {
		cols = 120
	}
	// border and padding take four cells per card
	return cols/n - 4
}
