package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	if got := DetermineLayoutMode(140); got != LayoutWide {
		t.Fatalf("expected wide, got %v", got)
	}
	if got := DetermineLayoutMode(100); got != LayoutMedium {
		t.Fatalf("expected medium, got %v", got)
	}
	if got := DetermineLayoutMode(60); got != LayoutNarrow {
		t.Fatalf("expected narrow, got %v", got)
	}
	if got := DetermineLayoutMode(0); got != LayoutWide {
		t.Fatalf("unknown width should default to wide, got %v", got)
	}
}

func TestColumnsAndCardWidth(t *testing.T) {
	if LayoutWide.Columns() != 3 || LayoutMedium.Columns() != 2 || LayoutNarrow.Columns() != 0 {
		t.Fatalf("unexpected column counts")
	}
	if w := cardWidth(120, LayoutWide); w != 36 {
		t.Fatalf("expected 36, got %d", w)
	}
	if w := cardWidth(60, LayoutNarrow); w != 0 {
		t.Fatalf("narrow layout has no cards, got %d", w)
	}
}
