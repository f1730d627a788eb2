package countdown

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned for time inputs that match no accepted form
// or violate a field range.
var ErrInvalidFormat = errors.New("invalid time format")

var (
	absolutePattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	relativePattern = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	minutesPattern  = regexp.MustCompile(`^\d+$`)
)

// Spec is a parsed time input. Mode selects which fields are meaningful:
// Target and TimeOfDay for absolute specs, Duration for relative ones.
type Spec struct {
	Mode      Mode
	Target    time.Time
	TimeOfDay string
	Duration  time.Duration
}

// Parse converts a free-form time input into a Spec. Rules are tried in
// strict priority order; once a rule's shape matches, a range violation
// fails instead of falling through to the next rule:
//
//  1. HH:MM (exactly two digits each, hour 00-23, minute 00-59) is an
//     absolute time of day. The target is today at that time, or tomorrow
//     if it already passed.
//  2. M:SS (minutes unbounded, seconds 0-59) is a relative duration.
//  3. A bare integer is a relative duration in minutes.
//
// So "0:55" is 55 seconds while "00:55" is five to one at night, and
// "45:00" is invalid rather than 45 minutes.
func Parse(input string, now time.Time) (Spec, error) {
	input = strings.TrimSpace(input)
	if m := absolutePattern.FindStringSubmatch(input); m != nil {
		return parseAbsolute(m, now)
	}
	if m := relativePattern.FindStringSubmatch(input); m != nil {
		return parseRelative(m)
	}
	if minutesPattern.MatchString(input) {
		return parseMinutes(input)
	}
	return Spec{}, fmt.Errorf("%w: use HH:MM, M:SS, or minutes", ErrInvalidFormat)
}

// ParseForMode parses input using only the rules that produce the given
// mode. The edit path uses this so reconfiguring a timer can never flip
// its mode: for a relative timer "07:20" reads as 7 minutes 20 seconds.
func ParseForMode(input string, mode Mode, now time.Time) (Spec, error) {
	input = strings.TrimSpace(input)
	switch mode {
	case ModeAbsolute:
		if m := absolutePattern.FindStringSubmatch(input); m != nil {
			return parseAbsolute(m, now)
		}
		return Spec{}, fmt.Errorf("%w: use HH:MM", ErrInvalidFormat)
	case ModeRelative:
		if m := relativePattern.FindStringSubmatch(input); m != nil {
			return parseRelative(m)
		}
		if minutesPattern.MatchString(input) {
			return parseMinutes(input)
		}
		return Spec{}, fmt.Errorf("%w: use M:SS or minutes", ErrInvalidFormat)
	}
	return Spec{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidFormat, mode)
}

func parseAbsolute(m []string, now time.Time) (Spec, error) {
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return Spec{}, fmt.Errorf("%w: absolute time must be 00:00-23:59", ErrInvalidFormat)
	}
	return Spec{
		Mode:      ModeAbsolute,
		Target:    NextOccurrence(hour, minute, now),
		TimeOfDay: fmt.Sprintf("%02d:%02d", hour, minute),
	}, nil
}

func parseRelative(m []string) (Spec, error) {
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: minutes out of range", ErrInvalidFormat)
	}
	seconds, _ := strconv.Atoi(m[2])
	if seconds > 59 {
		return Spec{}, fmt.Errorf("%w: seconds must be 00-59", ErrInvalidFormat)
	}
	return relativeSpec(minutes*60 + seconds)
}

func parseMinutes(input string) (Spec, error) {
	minutes, err := strconv.Atoi(input)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: minutes out of range", ErrInvalidFormat)
	}
	return relativeSpec(minutes * 60)
}

func relativeSpec(totalSeconds int) (Spec, error) {
	if totalSeconds <= 0 {
		return Spec{}, fmt.Errorf("%w: duration must be greater than zero", ErrInvalidFormat)
	}
	return Spec{Mode: ModeRelative, Duration: time.Duration(totalSeconds) * time.Second}, nil
}

// NextOccurrence returns the next instant with the given time of day,
// strictly after now.
func NextOccurrence(hour, minute int, now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// parseTimeOfDay reads a canonical "HH:MM" string back into its parts.
func parseTimeOfDay(s string) (hour, minute int, ok bool) {
	m := absolutePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
