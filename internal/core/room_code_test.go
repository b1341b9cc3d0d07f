package core

import (
	"strings"
	"testing"
)

func TestCodeGeneratorShape(t *testing.T) {
	gen := NewCodeGenerator(6)
	for i := 0; i < 200; i++ {
		code := string(gen())
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("expected upper-case code, got %q", code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(roomCodeAlphabet, ch) {
				t.Fatalf("unexpected character %q in %q", ch, code)
			}
		}
	}
}

func TestCodeGeneratorDefaultLength(t *testing.T) {
	if got := len(NewCodeGenerator(0)()); got != DefaultRoomCodeLength {
		t.Fatalf("expected default length %d, got %d", DefaultRoomCodeLength, got)
	}
}

func TestCodeGeneratorVaries(t *testing.T) {
	gen := NewCodeGenerator(6)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[string(gen())] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("expected mostly distinct codes, got %d of 50", len(seen))
	}
}
