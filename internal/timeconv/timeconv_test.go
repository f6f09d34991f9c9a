package timeconv

import (
	"testing"
	"time"
)

func TestNormalize_DSTWindow(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name  string
		date  string
		clock string
		want  string
	}{
		{"summer month uses DST offset", "2025-06-10", "18:00:00", "2025-06-10T23:00:00.000Z"},
		{"march is inside the window", "2025-03-01", "09:00:00", "2025-03-01T14:00:00.000Z"},
		{"november is inside the window", "2025-11-30", "18:00:00", "2025-11-30T23:00:00.000Z"},
		{"december uses standard offset", "2025-12-15", "18:00:00", "2025-12-16T00:00:00.000Z"},
		{"february uses standard offset", "2025-02-01", "10:30:00", "2025-02-01T16:30:00.000Z"},
		{"clock without seconds parses", "2025-06-10", "18:00", "2025-06-10T23:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Normalize(tt.date, tt.clock, "")
			if got == nil {
				t.Fatalf("Normalize(%q, %q) returned nil", tt.date, tt.clock)
			}
			if Format(got) != tt.want {
				t.Errorf("Normalize(%q, %q) = %s, want %s", tt.date, tt.clock, Format(got), tt.want)
			}
		})
	}
}

func TestNormalize_MissingOrMalformedInput(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name  string
		date  string
		clock string
		tz    string
	}{
		{"empty date", "", "18:00:00", ""},
		{"empty clock", "2025-06-10", "", ""},
		{"garbage date", "June 10", "18:00:00", ""},
		{"garbage clock", "2025-06-10", "6pm", ""},
		{"unknown timezone name", "2025-06-10", "18:00:00", "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Normalize(tt.date, tt.clock, tt.tz); got != nil {
				t.Errorf("Normalize(%q, %q, %q) = %v, want nil", tt.date, tt.clock, tt.tz, got)
			}
		})
	}
}

func TestNormalize_ExplicitTimezone(t *testing.T) {
	policy := DefaultPolicy()

	// New York is UTC-4 in June; the explicit zone must win over the
	// Central-time heuristic
	got := policy.Normalize("2025-06-10", "18:00:00", "America/New_York")
	if got == nil {
		t.Fatal("Normalize returned nil for a valid IANA timezone")
	}
	if want := "2025-06-10T22:00:00.000Z"; Format(got) != want {
		t.Errorf("Normalize with explicit tz = %s, want %s", Format(got), want)
	}

	// Winter date in an explicit zone uses the real rules, not the window
	got = policy.Normalize("2025-01-15", "12:00:00", "America/Chicago")
	if got == nil {
		t.Fatal("Normalize returned nil")
	}
	if want := "2025-01-15T18:00:00.000Z"; Format(got) != want {
		t.Errorf("Normalize winter explicit tz = %s, want %s", Format(got), want)
	}
}

func TestDefaultEnd(t *testing.T) {
	policy := DefaultPolicy()

	start := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	end := policy.DefaultEnd(&start)
	if end == nil {
		t.Fatal("DefaultEnd returned nil for a non-nil start")
	}
	if want := start.Add(2 * time.Hour); !end.Equal(want) {
		t.Errorf("DefaultEnd = %v, want %v", end, want)
	}

	if got := policy.DefaultEnd(nil); got != nil {
		t.Errorf("DefaultEnd(nil) = %v, want nil", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	ts := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	if got, want := Format(&ts), "2025-06-10T23:00:00.000Z"; got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestNormalize_CustomPolicy(t *testing.T) {
	policy := &Policy{
		DefaultDuration: time.Hour,
		DSTStartMonth:   time.April,
		DSTEndMonth:     time.October,
		DSTOffset:       4 * time.Hour,
		StdOffset:       5 * time.Hour,
	}

	got := policy.Normalize("2025-03-15", "12:00:00", "")
	if got == nil {
		t.Fatal("Normalize returned nil")
	}
	// March is outside the custom window, so the standard offset applies
	if want := "2025-03-15T17:00:00.000Z"; Format(got) != want {
		t.Errorf("Normalize custom policy = %s, want %s", Format(got), want)
	}
}
