package util

import "testing"

func TestToPersianDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0123456789", "۰۱۲۳۴۵۶۷۸۹"},
		{"1250000", "۱۲۵۰۰۰۰"},
		{"تومان 500", "تومان ۵۰۰"},
		{"", ""},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := ToPersianDigits(tt.in); got != tt.want {
			t.Errorf("ToPersianDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToLatinDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"۰۱۲۳۴۵۶۷۸۹", "0123456789"},
		{"۱۴۰۳/۰۵/۱۲", "1403/05/12"},
		{"٠٩١٢", "0912"}, // Arabic-Indic variant
		{"already latin 42", "already latin 42"},
	}
	for _, tt := range tests {
		if got := ToLatinDigits(tt.in); got != tt.want {
			t.Errorf("ToLatinDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToLatinDigitsRoundTrip(t *testing.T) {
	in := "1403/05/12"
	if got := ToLatinDigits(ToPersianDigits(in)); got != in {
		t.Errorf("round trip = %q, want %q", got, in)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1٬000"},
		{"1250000", "1٬250٬000"},
		{"-45000", "-45٬000"},
	}
	for _, tt := range tests {
		if got := GroupThousands(tt.in); got != tt.want {
			t.Errorf("GroupThousands(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
