package attendance

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		checkIn time.Time
		want    string
	}{
		{"on time", at(8, 55), StatusPresent},
		{"exactly at start", at(9, 0), StatusPresent},
		{"within grace", at(9, 15), StatusPresent},
		{"past grace", at(9, 16), StatusLate},
		{"very late", at(11, 30), StatusLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.checkIn, "09:00"); got != tc.want {
				t.Fatalf("DeriveStatus(%v) = %q, want %q", tc.checkIn, got, tc.want)
			}
		})
	}
}

func TestDeriveStatusBadConfigDefaultsPresent(t *testing.T) {
	if got := DeriveStatus(at(23, 0), "not-a-time"); got != StatusPresent {
		t.Fatalf("expected present for unparseable workday start, got %q", got)
	}
}

func TestWorkedMinutes(t *testing.T) {
	if got := WorkedMinutes(at(9, 0), at(17, 30)); got != 510 {
		t.Fatalf("expected 510 minutes, got %d", got)
	}
	if got := WorkedMinutes(at(17, 0), at(9, 0)); got != 0 {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
}
