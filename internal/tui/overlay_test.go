package tui

import (
	"strings"
	"testing"
)

func grid(lines ...string) string { return strings.Join(lines, "\n") }

func TestCompositeAtPlacesDialog(t *testing.T) {
	base := grid(
		"..........",
		"..........",
		"..........",
		"..........",
	)
	dialog := grid("AAA", "BBB")

	got := compositeAt(base, dialog, 3, 1, 10)
	want := grid(
		"..........",
		"...AAA....",
		"...BBB....",
		"..........",
	)
	if got != want {
		t.Fatalf("composited:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompositeAtBottomRightCorner(t *testing.T) {
	base := grid(
		"..........",
		"..........",
		"..........",
	)
	got := compositeAt(base, grid("XX", "XX"), 8, 1, 10)
	want := grid(
		"..........",
		"........XX",
		"........XX",
	)
	if got != want {
		t.Fatalf("composited:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompositeAtDropsRowsOutsideBase(t *testing.T) {
	base := grid("..........", "..........")
	got := compositeAt(base, grid("AA", "BB", "CC"), 0, 1, 10)
	want := grid("..........", "AA........")
	if got != want {
		t.Fatalf("overflow rows must be dropped, not grown:\n%s", got)
	}
	if got := compositeAt(base, "ZZ", 0, -3, 10); got != base {
		t.Fatalf("fully above base must be a no-op:\n%s", got)
	}
}

func TestCompositeAtPadsShortBaseLines(t *testing.T) {
	base := grid("..", "..")
	got := compositeAt(base, "AA", 5, 0, 10)
	want := grid("..   AA   ", "..")
	if got != want {
		t.Fatalf("composited: %q, want %q", got, want)
	}
}

func TestCompositeAtRaggedDialogPaddedToWidestLine(t *testing.T) {
	base := grid("##########", "##########")
	got := compositeAt(base, grid("AAAA", "B"), 2, 0, 10)
	want := grid("##AAAA####", "##B   ####")
	if got != want {
		t.Fatalf("composited:\n%s\nwant:\n%s", got, want)
	}
}

func TestSplitLinesNeverEmpty(t *testing.T) {
	if got := splitLines(""); len(got) != 1 || got[0] != "" {
		t.Fatalf("splitLines(\"\") = %v", got)
	}
	if got := splitLines("a\nb"); len(got) != 2 {
		t.Fatalf("splitLines = %v", got)
	}
}
