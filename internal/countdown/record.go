package countdown

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is the persisted state: every timer, split by trash membership.
type Document struct {
	Timers []Record `json:"timers"`
	Trash  []Record `json:"trash"`
}

// Record is the wire shape of one timer. Field names follow the state
// files written by the desktop app this replaces, so those files keep
// loading; the legacy fields at the bottom are read as fallbacks and
// never written back.
type Record struct {
	ID               string   `json:"timer_id"`
	Label            string   `json:"label"`
	Mode             string   `json:"input_mode"`
	State            string   `json:"state"`
	TargetEpoch      *float64 `json:"target_epoch,omitempty"`
	TimeOfDay        string   `json:"target_hhmm,omitempty"`
	RemainingSeconds *int     `json:"remaining_seconds,omitempty"`
	InitialSeconds   *int     `json:"initial_seconds,omitempty"`
	ResumeAnchor     string   `json:"resume_anchor,omitempty"`
	FinishedAt       string   `json:"finished_at,omitempty"`
	Alerted          bool     `json:"alerted"`

	EndTime         string `json:"end_time,omitempty"`
	PresetAbsolute  string `json:"preset_absolute,omitempty"`
	PresetRelative  string `json:"preset_relative,omitempty"`
	PausedRemaining *int   `json:"paused_remaining,omitempty"`
}

func (t *Absolute) Record() Record {
	epoch := float64(t.target.Unix())
	r := Record{
		ID:          t.id,
		Label:       t.label,
		Mode:        string(ModeAbsolute),
		State:       string(t.state),
		TargetEpoch: &epoch,
		TimeOfDay:   t.timeOfDay,
		Alerted:     t.alerted,
	}
	if !t.finishedAt.IsZero() {
		r.FinishedAt = t.finishedAt.Format(time.RFC3339Nano)
	}
	return r
}

func (t *Relative) Record() Record {
	remaining := int(t.remaining.Round(time.Second) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	initial := int(t.initial / time.Second)
	r := Record{
		ID:               t.id,
		Label:            t.label,
		Mode:             string(ModeRelative),
		State:            string(t.state),
		RemainingSeconds: &remaining,
		InitialSeconds:   &initial,
		Alerted:          t.alerted,
	}
	if t.anchor != nil {
		r.ResumeAnchor = t.anchor.Format(time.RFC3339Nano)
	}
	if !t.finishedAt.IsZero() {
		r.FinishedAt = t.finishedAt.Format(time.RFC3339Nano)
	}
	return r
}

// fromRecord rebuilds a timer from its persisted shape, applying the
// legacy fallbacks. Records with no label, or absolute records with no
// recoverable target, are dropped.
func fromRecord(r Record, now time.Time) (Timer, bool) {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	if r.Label == "" {
		return nil, false
	}

	mode := Mode(strings.ToLower(r.Mode))
	if mode != ModeAbsolute {
		mode = ModeRelative
	}
	state := loadState(r.State)

	base := timerBase{
		id:         id,
		label:      r.Label,
		state:      state,
		alerted:    r.Alerted,
		finishedAt: parseInstant(r.FinishedAt),
	}

	if mode == ModeAbsolute {
		return absoluteFromRecord(r, base)
	}
	return relativeFromRecord(r, base, now)
}

func absoluteFromRecord(r Record, base timerBase) (Timer, bool) {
	var target time.Time
	if r.TargetEpoch != nil {
		sec, frac := math.Modf(*r.TargetEpoch)
		target = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	} else if legacy := parseInstant(r.EndTime); !legacy.IsZero() {
		target = legacy
	}
	if target.IsZero() {
		return nil, false
	}

	timeOfDay := r.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = r.PresetAbsolute
	}
	if _, _, ok := parseTimeOfDay(timeOfDay); !ok {
		timeOfDay = target.Format("15:04")
	}

	// Absolute timers have no paused state.
	if base.state == StatePaused {
		base.state = StateStopped
	}
	return &Absolute{timerBase: base, target: target, timeOfDay: timeOfDay}, true
}

func relativeFromRecord(r Record, base timerBase, now time.Time) (Timer, bool) {
	var initial time.Duration
	if r.InitialSeconds != nil && *r.InitialSeconds > 0 {
		initial = time.Duration(*r.InitialSeconds) * time.Second
	} else if spec, err := ParseForMode(r.PresetRelative, ModeRelative, now); err == nil {
		initial = spec.Duration
	}

	var remaining time.Duration
	switch {
	case r.RemainingSeconds != nil:
		remaining = time.Duration(*r.RemainingSeconds) * time.Second
	case r.PausedRemaining != nil:
		remaining = time.Duration(*r.PausedRemaining) * time.Second
	default:
		if legacy := parseInstant(r.EndTime); !legacy.IsZero() {
			remaining = legacy.Sub(now).Truncate(time.Second)
		}
	}
	if remaining < 0 {
		remaining = 0
	}

	if initial <= 0 {
		initial = remaining.Round(time.Second)
		if initial < time.Second {
			initial = time.Second
		}
	}

	t := &Relative{timerBase: base, remaining: remaining, initial: initial}
	if t.state == StateRunning {
		anchor := parseInstant(r.ResumeAnchor)
		if anchor.IsZero() {
			anchor = now
		}
		t.anchor = &anchor
	}
	return t, true
}

func loadState(s string) State {
	switch State(strings.ToLower(s)) {
	case StateRunning:
		return StateRunning
	case StatePaused:
		return StatePaused
	case StateFinished:
		return StateFinished
	default:
		return StateStopped
	}
}

// parseInstant accepts RFC 3339 stamps as written by Record, plus the
// zone-less ISO form the desktop app serialized, taken as local time.
func parseInstant(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts
	}
	if ts, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local); err == nil {
		return ts
	}
	return time.Time{}
}
