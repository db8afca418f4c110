package textid

import "testing"

func TestTextID(t *testing.T) {
	a := TextID("rolaser", "hello world")
	if a != TextID("rolaser", "hello world") {
		t.Error("TextID should be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == TextID("laser2", "hello world") {
		t.Error("different models should yield different IDs")
	}
	if TextID("ab", "c") == TextID("a", "bc") {
		t.Error("model/text boundary should be unambiguous")
	}
}
