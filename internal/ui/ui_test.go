package ui

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyByName(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.Key
	}{
		{"q", ebiten.KeyQ},
		{"Q", ebiten.KeyQ},
		{" ", ebiten.KeySpace},
		{"Backspace", ebiten.KeyBackspace},
		{"space", ebiten.KeySpace},
	}
	for _, tt := range tests {
		got, ok := keyByName(tt.name)
		if !ok || got != tt.want {
			t.Errorf("keyByName(%q): expected %v, got %v (ok=%v)", tt.name, tt.want, got, ok)
		}
	}
	if _, ok := keyByName(""); ok {
		t.Error("Empty name should not resolve")
	}
	if _, ok := keyByName("not-a-key"); ok {
		t.Error("Unknown name should not resolve")
	}
}

func TestKeyLabel(t *testing.T) {
	if keyLabel(" ") != "Space" || keyLabel("q") != "Q" || keyLabel("Backspace") != "Backspace" {
		t.Error("Unexpected key labels")
	}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(1024, 768, 4, 5, 3)
	if len(l.grid) != 20 {
		t.Fatalf("Expected 20 grid cells, got %d", len(l.grid))
	}
	if len(l.offers) != 3 {
		t.Errorf("Expected 3 offer rows, got %d", len(l.offers))
	}
	if len(l.equipment) != 2 {
		t.Errorf("Expected 2 equipment cells, got %d", len(l.equipment))
	}

	// Regions must not overlap or hit tests become ambiguous
	for i, c := range l.choices {
		if hit(l.grid, c.x+1, c.y+1) >= 0 {
			t.Errorf("Choice %d overlaps the grid", i)
		}
	}
	last := l.choices[len(l.choices)-1]
	if last.y+last.h > l.cont.y {
		t.Error("Choices overlap the continue button")
	}
	if l.text.h <= 0 {
		t.Error("Text area should have room")
	}

	cell := l.grid[5]
	if got := hit(l.grid, cell.x+cellSize/2, cell.y+cellSize/2); got != 5 {
		t.Errorf("Expected hit on cell 5, got %d", got)
	}
	if got := hit(l.grid, cell.x+cellSize+cellGap/2, cell.y+1); got != -1 {
		t.Errorf("Gap between cells should miss, got %d", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("Square\n\nThe market is busy with traders and travellers from afar.", 7*20)
	if lines[0] != "Square" || lines[1] != "" {
		t.Errorf("Expected title then blank line, got %q", lines[:2])
	}
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("Line too long: %q", line)
		}
	}
	if got := strings.Join(strings.Fields(strings.Join(lines[2:], " ")), " "); got != "The market is busy with traders and travellers from afar." {
		t.Errorf("Wrapping lost words: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if truncate("Bread", 100) != "Bread" {
		t.Error("Short names should be untouched")
	}
	got := truncate("Leather Armor", 7*6)
	if len(got) > 6 || !strings.HasSuffix(got, ".") {
		t.Errorf("Expected truncated name, got %q", got)
	}
}
