package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Customers Report", "customers-report"},
		{"Hello, World!", "hello-world"},
		{"  spaced  out  ", "spaced-out"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyTransliterates(t *testing.T) {
	// Persian text must come out as non-empty ASCII.
	got := Slugify("مشتریان")
	if got == "" {
		t.Fatal("Slugify of Persian text returned empty slug")
	}
	for _, r := range got {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			t.Fatalf("Slugify returned non-slug rune %q in %q", r, got)
		}
	}
}
