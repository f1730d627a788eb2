package countdown

import "time"

// Relative counts down a configured duration. While running, the live
// value derives from the resume anchor, so nothing decays between ticks
// and reconciliation after an arbitrary gap is exact. Pausing folds the
// elapsed interval into the baseline and drops the anchor.
type Relative struct {
	timerBase
	remaining time.Duration
	initial   time.Duration
	anchor    *time.Time
}

func newRelative(id, label string, spec Spec, now time.Time) *Relative {
	anchor := now
	return &Relative{
		timerBase: timerBase{id: id, label: label, state: StateRunning},
		remaining: spec.Duration,
		initial:   spec.Duration,
		anchor:    &anchor,
	}
}

func (t *Relative) Mode() Mode { return ModeRelative }

// Initial is the configured duration restarts and resets return to.
func (t *Relative) Initial() time.Duration { return t.initial }

func (t *Relative) Tick(now time.Time) bool {
	if t.state != StateRunning {
		return false
	}
	if t.anchor == nil {
		// A running timer without an anchor resumes from now.
		anchor := now
		t.anchor = &anchor
	}
	if t.remaining-now.Sub(*t.anchor) > 0 {
		return false
	}
	t.remaining = 0
	t.anchor = nil
	t.finish(now)
	return true
}

func (t *Relative) Start(now time.Time) {
	if t.state == StateRunning {
		return
	}
	if t.state == StateFinished || t.remaining <= 0 {
		t.remaining = t.initial
	}
	anchor := now
	t.anchor = &anchor
	t.state = StateRunning
	t.clearFinish()
}

func (t *Relative) Pause(now time.Time) {
	if t.state != StateRunning {
		return
	}
	t.remaining = t.Remaining(now)
	t.anchor = nil
	t.state = StatePaused
}

func (t *Relative) Reset(now time.Time) {
	if t.state == StateFinished {
		return
	}
	t.state = StateStopped
	t.remaining = t.initial
	t.anchor = nil
	t.clearFinish()
}

func (t *Relative) Reconfigure(spec Spec, now time.Time) {
	t.initial = spec.Duration
	t.remaining = spec.Duration
	anchor := now
	t.anchor = &anchor
	t.state = StateRunning
	t.clearFinish()
}

func (t *Relative) Remaining(now time.Time) time.Duration {
	if t.state == StateRunning && t.anchor != nil {
		live := t.remaining - now.Sub(*t.anchor)
		if live < 0 {
			return 0
		}
		return live
	}
	return t.remaining
}

func (t *Relative) Row(now time.Time, alertPending bool) Row {
	row := Row{
		ID:           t.id,
		Label:        t.label,
		Mode:         ModeRelative,
		State:        t.state,
		End:          sentinelNone,
		AlertPending: alertPending,
	}
	switch t.state {
	case StateFinished:
		if alertPending {
			row.Remaining = sentinelFinished
		} else {
			row.Remaining = formatClock(t.initial)
		}
	case StateStopped:
		row.Remaining = formatClock(t.initial)
	case StateRunning:
		live := t.Remaining(now)
		row.Remaining = formatClock(live)
		row.End = now.Add(live).Format("15:04")
	default:
		row.Remaining = formatClock(t.remaining)
	}
	return row
}

func (t *Relative) EditValue(now time.Time) string {
	if t.state == StateStopped {
		return formatRelativeInput(t.initial)
	}
	return formatRelativeInput(t.Remaining(now))
}
