package countdown

import (
	"errors"
	"testing"
	"time"
)

// ============================================================
// Parse
// ============================================================

func TestParseAbsoluteToday(t *testing.T) {
	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	spec, err := Parse("07:20", now)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if spec.Mode != ModeAbsolute {
		t.Errorf("Mode = %q, want %q", spec.Mode, ModeAbsolute)
	}
	want := time.Date(2025, 3, 10, 7, 20, 0, 0, time.UTC)
	if !spec.Target.Equal(want) {
		t.Errorf("Target = %v, want %v", spec.Target, want)
	}
	if spec.TimeOfDay != "07:20" {
		t.Errorf("TimeOfDay = %q, want %q", spec.TimeOfDay, "07:20")
	}
}

func TestParseAbsoluteRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	spec, err := Parse("07:20", now)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := time.Date(2025, 3, 11, 7, 20, 0, 0, time.UTC)
	if !spec.Target.Equal(want) {
		t.Errorf("Target = %v, want %v", spec.Target, want)
	}
}

func TestParseAbsoluteExactBoundary(t *testing.T) {
	// A target equal to the current instant already passed.
	now := time.Date(2025, 3, 10, 7, 20, 0, 0, time.UTC)

	spec, err := Parse("07:20", now)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := time.Date(2025, 3, 11, 7, 20, 0, 0, time.UTC)
	if !spec.Target.Equal(want) {
		t.Errorf("Target = %v, want %v", spec.Target, want)
	}
}

func TestParseRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"0:55", 55 * time.Second},
		{"1:05", 65 * time.Second},
		{"7:8", 7*time.Minute + 8*time.Second},
		{"120:30", 120*time.Minute + 30*time.Second},
		{"15", 15 * time.Minute},
		{"1", time.Minute},
		{"  15  ", 15 * time.Minute},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.input, now)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.input, err)
			continue
		}
		if spec.Mode != ModeRelative {
			t.Errorf("Parse(%q) mode = %q, want %q", tt.input, spec.Mode, ModeRelative)
		}
		if spec.Duration != tt.want {
			t.Errorf("Parse(%q) duration = %v, want %v", tt.input, spec.Duration, tt.want)
		}
	}
}

func TestParseTwoDigitPairIsAlwaysAbsolute(t *testing.T) {
	// Both groups exactly two digits means clock time, never M:SS.
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	spec, err := Parse("00:30", now)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if spec.Mode != ModeAbsolute {
		t.Fatalf("Parse(00:30) mode = %q, want %q", spec.Mode, ModeAbsolute)
	}
	want := time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)
	if !spec.Target.Equal(want) {
		t.Errorf("Target = %v, want %v", spec.Target, want)
	}
}

func TestParseInvalid(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []string{
		"",
		"   ",
		"abc",
		"24:00",
		"25:10",
		"45:00",
		"07:60",
		"1:60",
		"1:99",
		"0",
		"0:0",
		"0:00",
		"00:0:0",
		"1:2:3",
		"-5",
		"5m",
		"07:2a",
	}

	for _, input := range tests {
		if _, err := Parse(input, now); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidFormat", input, err)
		}
	}
}

func TestParseRangeViolationDoesNotFallThrough(t *testing.T) {
	// "45:00" matches the clock shape, so it must fail rather than
	// reparse as 45 minutes.
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	if _, err := Parse("45:00", now); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Parse(45:00) error = %v, want ErrInvalidFormat", err)
	}
}

// ============================================================
// ParseForMode
// ============================================================

func TestParseForModeAbsolute(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	spec, err := ParseForMode("07:20", ModeAbsolute, now)
	if err != nil {
		t.Fatalf("ParseForMode() error = %v", err)
	}
	if spec.Mode != ModeAbsolute {
		t.Errorf("Mode = %q, want %q", spec.Mode, ModeAbsolute)
	}

	if _, err := ParseForMode("0:30", ModeAbsolute, now); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseForMode(0:30, absolute) error = %v, want ErrInvalidFormat", err)
	}
	if _, err := ParseForMode("15", ModeAbsolute, now); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseForMode(15, absolute) error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseForModeRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"0:55", 55 * time.Second},
		{"07:20", 7*time.Minute + 20*time.Second},
		{"45:00", 45 * time.Minute},
		{"5", 5 * time.Minute},
	}

	for _, tt := range tests {
		spec, err := ParseForMode(tt.input, ModeRelative, now)
		if err != nil {
			t.Errorf("ParseForMode(%q, relative) error = %v", tt.input, err)
			continue
		}
		if spec.Duration != tt.want {
			t.Errorf("ParseForMode(%q, relative) duration = %v, want %v", tt.input, spec.Duration, tt.want)
		}
	}

	if _, err := ParseForMode("1:60", ModeRelative, now); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseForMode(1:60, relative) error = %v, want ErrInvalidFormat", err)
	}
}

// ============================================================
// NextOccurrence
// ============================================================

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		hour   int
		minute int
		want   time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
			hour: 7, minute: 20,
			want: time.Date(2025, 3, 10, 7, 20, 0, 0, time.UTC),
		},
		{
			name: "already passed",
			now:  time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			hour: 7, minute: 20,
			want: time.Date(2025, 3, 11, 7, 20, 0, 0, time.UTC),
		},
		{
			name: "same minute",
			now:  time.Date(2025, 3, 10, 7, 20, 30, 0, time.UTC),
			hour: 7, minute: 20,
			want: time.Date(2025, 3, 11, 7, 20, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			now:  time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC),
			hour: 1, minute: 0,
			want: time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		got := NextOccurrence(tt.hour, tt.minute, tt.now)
		if !got.Equal(tt.want) {
			t.Errorf("%s: NextOccurrence() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
