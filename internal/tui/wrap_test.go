package tui

import "testing"

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{name: "fits", text: "one two", width: 10, expected: "one two"},
		{name: "wraps at boundary", text: "one two three", width: 7, expected: "one two\nthree"},
		{name: "long word unbroken", text: "tiny extraordinarily", width: 6, expected: "tiny\nextraordinarily"},
		{name: "zero width passthrough", text: "a b c", width: 0, expected: "a b c"},
		{name: "collapses whitespace", text: "  a   b  ", width: 10, expected: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.width); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClampWidth(t *testing.T) {
	if got := clampWidth(100); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
	if got := clampWidth(10); got != 20 {
		t.Fatalf("expected floor of 20, got %d", got)
	}
}
