package slug

import (
	"regexp"
	"testing"
)

func TestNew_Length(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if len(s) != Length {
		t.Errorf("New() length = %d, want %d (slug=%q)", len(s), Length, s)
	}
}

func TestNew_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	for i := 0; i < 100; i++ {
		s, err := New()
		if err != nil {
			t.Fatalf("New() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(s) {
			t.Fatalf("New() = %q, does not match expected charset pattern", s)
		}
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		s, err := New()
		if err != nil {
			t.Fatalf("New() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate slug after %d generations: %q", i, s)
		}
		seen[s] = struct{}{}
	}
}
