package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/hylla/todoboard/internal/tui"
)

func TestRenderPaletteListsEverySwatch(t *testing.T) {
	out := ansi.Strip(renderPalette(tui.Swatches()))
	for _, s := range tui.Swatches() {
		if !strings.Contains(out, s.Name) || !strings.Contains(out, s.Light) || !strings.Contains(out, s.Dark) {
			t.Fatalf("palette missing %q:\n%s", s.Name, out)
		}
	}
}

func TestColorBlockRows(t *testing.T) {
	out := ansi.Strip(colorBlock(0, 15, 8))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "15") {
		t.Fatalf("expected last color on second row: %q", lines[1])
	}
}

func TestContrastColor(t *testing.T) {
	cases := map[int]string{0: "15", 7: "0", 100: "15", 240: "15", 250: "0"}
	for idx, want := range cases {
		if got := string(contrastColor(idx)); got != want {
			t.Fatalf("contrastColor(%d) = %q, want %q", idx, got, want)
		}
	}
}
