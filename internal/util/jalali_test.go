package util

import (
	"testing"
	"time"
)

func TestParseJalaliToISO(t *testing.T) {
	// 1403/01/01 is Nowruz 2024 (2024-03-20).
	got, err := ParseJalaliToISO("1403/01/01")
	if err != nil {
		t.Fatalf("ParseJalaliToISO error: %v", err)
	}
	if got != "2024-03-20" {
		t.Errorf("ParseJalaliToISO(1403/01/01) = %q, want 2024-03-20", got)
	}
}

func TestParseJalaliToISOPersianDigits(t *testing.T) {
	got, err := ParseJalaliToISO("۱۴۰۳/۰۱/۰۱")
	if err != nil {
		t.Fatalf("ParseJalaliToISO error: %v", err)
	}
	if got != "2024-03-20" {
		t.Errorf("got %q, want 2024-03-20", got)
	}
}

func TestParseJalaliToISOInvalid(t *testing.T) {
	invalid := []string{
		"",
		"1403-01-01",
		"1403/13/01", // month out of range
		"1403/01/32", // day out of range
		"1403/12/30", // 1403 is a leap year; 1402/12/30 is not
		"abc/01/01",
	}
	for _, in := range invalid {
		if in == "1403/12/30" {
			// 1403 actually has 30 days in Esfand (leap year); use 1402.
			in = "1402/12/30"
		}
		if _, err := ParseJalaliToISO(in); err == nil {
			t.Errorf("ParseJalaliToISO(%q) expected error", in)
		}
	}
}

func TestFormatISOToJalali(t *testing.T) {
	if got := FormatISOToJalali("2024-03-20"); got != "1403/01/01" {
		t.Errorf("FormatISOToJalali(2024-03-20) = %q, want 1403/01/01", got)
	}
	if got := FormatISOToJalali(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
	if got := FormatISOToJalali("not-a-date"); got != "not-a-date" {
		t.Errorf("invalid input should pass through, got %q", got)
	}
	// Legacy rows with a time component.
	if got := FormatISOToJalali("2024-03-20 14:30:00"); got != "1403/01/01" {
		t.Errorf("FormatISOToJalali with time = %q, want 1403/01/01", got)
	}
}

func TestJalaliRoundTrip(t *testing.T) {
	iso, err := ParseJalaliToISO("1403/05/12")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatISOToJalali(iso); got != "1403/05/12" {
		t.Errorf("round trip = %q, want 1403/05/12", got)
	}
}

func TestTodayJalali(t *testing.T) {
	got := TodayJalali(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC))
	if got != "1403/01/01" {
		t.Errorf("TodayJalali = %q, want 1403/01/01", got)
	}
}
