package countdown

import (
	"fmt"
	"time"
)

// Mode selects which field group of a timer is authoritative.
type Mode string

const (
	ModeAbsolute Mode = "absolute"
	ModeRelative Mode = "relative"
)

// State is a timer's lifecycle state. Absolute timers never pause.
type State string

const (
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateStopped  State = "stopped"
	StateFinished State = "finished"
)

// Timer is one countdown entity. The two implementations, Absolute and
// Relative, keep their own transition rules behind this shared capability
// surface so nothing outside them switches on mode.
type Timer interface {
	ID() string
	Label() string
	SetLabel(label string)
	Mode() Mode
	State() State
	Deleted() bool
	// FinishedAt is the instant the last finish crossing was observed,
	// zero if none.
	FinishedAt() time.Time

	// Tick reconciles the timer against now and reports true exactly
	// once per running-to-finished crossing. Calling it again without
	// wall-clock advance changes nothing.
	Tick(now time.Time) bool
	// Start runs a stopped, paused, or finished timer; no-op while
	// running. Restart semantics differ per mode.
	Start(now time.Time)
	// Pause freezes a running relative timer; absolute timers ignore it.
	Pause(now time.Time)
	// Reset is the stop action: back to the pre-start baseline, keeping
	// the configured time. No-op on a finished timer.
	Reset(now time.Time)
	// Reconfigure re-baselines the timer from a freshly parsed spec of
	// its own mode and restarts it.
	Reconfigure(spec Spec, now time.Time)
	// Remaining is the live countdown value at now.
	Remaining(now time.Time) time.Duration
	// Row builds the display snapshot. alertPending tells a finished
	// timer whether its alert is still waiting to be acknowledged.
	Row(now time.Time, alertPending bool) Row
	// EditValue is the canonical input string the edit form starts from.
	EditValue(now time.Time) string
	// Record is the persisted shape of the timer.
	Record() Record

	base() *timerBase
}

// timerBase carries the identity and lifecycle fields shared by both
// modes. Embedding it also closes the Timer interface to this package.
type timerBase struct {
	id         string
	label      string
	state      State
	deleted    bool
	alerted    bool
	finishedAt time.Time
}

func (b *timerBase) ID() string            { return b.id }
func (b *timerBase) Label() string         { return b.label }
func (b *timerBase) SetLabel(label string) { b.label = label }
func (b *timerBase) State() State          { return b.state }
func (b *timerBase) Deleted() bool         { return b.deleted }
func (b *timerBase) FinishedAt() time.Time { return b.finishedAt }
func (b *timerBase) base() *timerBase      { return b }

// finish records a crossing. alerted guards the one-alert-per-crossing
// rule; it stays set until the timer is restarted, reset, or edited.
func (b *timerBase) finish(now time.Time) {
	b.state = StateFinished
	b.finishedAt = now
	b.alerted = true
}

func (b *timerBase) clearFinish() {
	b.finishedAt = time.Time{}
	b.alerted = false
}

// Display sentinels, matching the desktop app this replaces: a finished
// timer reads 00:00 until its alert is acknowledged, and a countdown
// that is not tracking anything reads --:--.
const (
	sentinelNone     = "--:--"
	sentinelFinished = "00:00"
)

// Row is the per-timer snapshot the UI renders each tick.
type Row struct {
	ID           string
	Label        string
	Mode         Mode
	State        State
	Remaining    string
	End          string
	AlertPending bool
}

// formatClock renders a duration as HH:MM:SS, floored to whole seconds
// and clamped at zero.
func formatClock(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// formatRelativeInput renders a duration as the M:SS input form.
func formatRelativeInput(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
