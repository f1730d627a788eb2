package countdown

import (
	"fmt"
	"time"
)

// Absolute counts down to a wall-clock instant. It has no pause; stopping
// keeps the target but suspends tracking, and restarting after a finish
// re-arms to the next occurrence of the original time of day.
type Absolute struct {
	timerBase
	target    time.Time
	timeOfDay string
}

func newAbsolute(id, label string, spec Spec) *Absolute {
	return &Absolute{
		timerBase: timerBase{id: id, label: label, state: StateRunning},
		target:    spec.Target,
		timeOfDay: spec.TimeOfDay,
	}
}

func (t *Absolute) Mode() Mode { return ModeAbsolute }

// Target is the instant the timer is counting down to. It stays set while
// stopped and after finishing.
func (t *Absolute) Target() time.Time { return t.target }

// TimeOfDay is the configured "HH:MM", the schedule restarts re-arm to.
func (t *Absolute) TimeOfDay() string { return t.timeOfDay }

func (t *Absolute) Tick(now time.Time) bool {
	if t.state != StateRunning {
		return false
	}
	if now.Before(t.target) {
		return false
	}
	t.finish(now)
	return true
}

func (t *Absolute) Start(now time.Time) {
	switch t.state {
	case StateRunning:
		return
	case StateFinished:
		// The time of day just passed, so the next occurrence lands
		// tomorrow. A timer started from stopped keeps its old target.
		t.target = t.nextTarget(now)
	}
	t.state = StateRunning
	t.clearFinish()
}

func (t *Absolute) Pause(now time.Time) {}

func (t *Absolute) Reset(now time.Time) {
	if t.state == StateFinished {
		return
	}
	t.state = StateStopped
	t.finishedAt = time.Time{}
}

func (t *Absolute) Reconfigure(spec Spec, now time.Time) {
	t.target = spec.Target
	t.timeOfDay = spec.TimeOfDay
	t.state = StateRunning
	t.clearFinish()
}

func (t *Absolute) Remaining(now time.Time) time.Duration {
	if t.state != StateRunning {
		return 0
	}
	remaining := t.target.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t *Absolute) nextTarget(now time.Time) time.Time {
	hour, minute, ok := parseTimeOfDay(t.timeOfDay)
	if !ok {
		hour, minute = t.target.Hour(), t.target.Minute()
	}
	t.timeOfDay = fmt.Sprintf("%02d:%02d", hour, minute)
	return NextOccurrence(hour, minute, now)
}

func (t *Absolute) Row(now time.Time, alertPending bool) Row {
	row := Row{
		ID:           t.id,
		Label:        t.label,
		Mode:         ModeAbsolute,
		State:        t.state,
		End:          t.timeOfDay,
		AlertPending: alertPending,
	}
	switch t.state {
	case StateStopped:
		row.Remaining = sentinelNone
	case StateFinished:
		if alertPending {
			row.Remaining = sentinelFinished
		} else {
			row.Remaining = sentinelNone
		}
	default:
		row.Remaining = formatClock(t.Remaining(now))
	}
	return row
}

func (t *Absolute) EditValue(now time.Time) string {
	return t.timeOfDay
}
