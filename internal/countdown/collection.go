package countdown

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for operations addressing an id that does not
// exist or sits in the wrong partition (active vs trash).
var ErrNotFound = errors.New("timer not found")

// Collection owns every timer, active and trashed alike; trash membership
// is a flag on the timer, not a second container, so restore keeps list
// order. Only active timers are reconciled by Tick. Finish crossings queue
// pending alerts FIFO until the UI acknowledges them, at most one queued
// alert per timer.
//
// Collection is not safe for concurrent use; the UI loop serializes all
// calls.
type Collection struct {
	timers map[string]Timer
	order  []string
	alerts []string

	// OnFinish, when set, observes every finish crossing, including
	// those detected while loading persisted state.
	OnFinish func(t Timer)
}

func NewCollection() *Collection {
	return &Collection{timers: make(map[string]Timer)}
}

// Add parses input and creates a timer, running immediately. An empty
// label defaults to "Timer N".
func (c *Collection) Add(label, input string, now time.Time) (Timer, error) {
	spec, err := Parse(input, now)
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Timer %d", c.ActiveCount()+1)
	}

	var t Timer
	id := uuid.NewString()
	if spec.Mode == ModeAbsolute {
		t = newAbsolute(id, label, spec)
	} else {
		t = newRelative(id, label, spec, now)
	}
	c.timers[id] = t
	c.order = append(c.order, id)
	return t, nil
}

// Get looks a timer up in either partition.
func (c *Collection) Get(id string) (Timer, bool) {
	t, ok := c.timers[id]
	return t, ok
}

func (c *Collection) EditLabel(id, label string) error {
	t, err := c.activeTimer(id)
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label != "" {
		t.SetLabel(label)
	}
	return nil
}

// EditTime reconfigures a timer from input parsed for its own mode and
// restarts it, finished or not.
func (c *Collection) EditTime(id, input string, now time.Time) error {
	t, err := c.activeTimer(id)
	if err != nil {
		return err
	}
	spec, err := ParseForMode(input, t.Mode(), now)
	if err != nil {
		return err
	}
	t.Reconfigure(spec, now)
	c.dropAlert(id)
	return nil
}

func (c *Collection) Start(id string, now time.Time) error {
	t, err := c.activeTimer(id)
	if err != nil {
		return err
	}
	t.Start(now)
	return nil
}

func (c *Collection) Pause(id string, now time.Time) error {
	t, err := c.activeTimer(id)
	if err != nil {
		return err
	}
	t.Pause(now)
	return nil
}

// StopOrReset stops tracking without destroying the timer. Stopping a
// finished timer is a no-op and leaves its pending alert queued; stopping
// any other timer withdraws a stale queued alert left from an earlier
// finish.
func (c *Collection) StopOrReset(id string, now time.Time) error {
	t, err := c.activeTimer(id)
	if err != nil {
		return err
	}
	if t.State() == StateFinished {
		return nil
	}
	t.Reset(now)
	c.dropAlert(id)
	return nil
}

// SoftDelete moves a timer to the trash. Trashed timers are excluded from
// reconciliation and never present alerts. No-op if already trashed.
func (c *Collection) SoftDelete(id string) error {
	t, ok := c.timers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if t.base().deleted {
		return nil
	}
	t.base().deleted = true
	c.dropAlert(id)
	return nil
}

// Restore moves a trashed timer back to the active partition and
// reconciles it immediately, as if freshly loaded: time kept passing
// while it sat in the trash. No-op if not trashed.
func (c *Collection) Restore(id string, now time.Time) error {
	t, ok := c.timers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b := t.base()
	if !b.deleted {
		return nil
	}
	b.deleted = false
	if t.Tick(now) {
		c.crossed(t)
	}
	return nil
}

// PermanentDelete destroys a trashed timer. Ids outside the trash fail
// with ErrNotFound.
func (c *Collection) PermanentDelete(id string) error {
	t, ok := c.timers[id]
	if !ok || !t.base().deleted {
		return fmt.Errorf("%w: %s is not in the trash", ErrNotFound, id)
	}
	delete(c.timers, id)
	c.order = slices.DeleteFunc(c.order, func(o string) bool { return o == id })
	return nil
}

// EmptyTrash permanently deletes every trashed timer.
func (c *Collection) EmptyTrash() {
	kept := c.order[:0]
	for _, id := range c.order {
		if c.timers[id].base().deleted {
			delete(c.timers, id)
		} else {
			kept = append(kept, id)
		}
	}
	c.order = kept
}

// Tick reconciles every active timer against now, queueing one alert per
// finish crossing. Reports whether any timer changed state.
func (c *Collection) Tick(now time.Time) bool {
	changed := false
	for _, id := range c.order {
		t := c.timers[id]
		if t.base().deleted {
			continue
		}
		if t.Tick(now) {
			c.crossed(t)
			changed = true
		}
	}
	return changed
}

// Move shifts a timer by delta positions within its own partition.
func (c *Collection) Move(id string, delta int) error {
	t, ok := c.timers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	deleted := t.base().deleted

	var peers []int
	pos := -1
	for i, o := range c.order {
		if c.timers[o].base().deleted != deleted {
			continue
		}
		if o == id {
			pos = len(peers)
		}
		peers = append(peers, i)
	}
	target := pos + delta
	if target < 0 || target >= len(peers) {
		return nil
	}
	c.order[peers[pos]], c.order[peers[target]] = c.order[peers[target]], c.order[peers[pos]]
	return nil
}

// Rows snapshots the active partition in display order.
func (c *Collection) Rows(now time.Time) []Row {
	return c.rows(now, false)
}

// TrashRows snapshots the trash partition in display order.
func (c *Collection) TrashRows(now time.Time) []Row {
	return c.rows(now, true)
}

func (c *Collection) rows(now time.Time, deleted bool) []Row {
	rows := make([]Row, 0, len(c.order))
	for _, id := range c.order {
		t := c.timers[id]
		if t.base().deleted != deleted {
			continue
		}
		rows = append(rows, t.Row(now, c.alertPending(id)))
	}
	return rows
}

// PendingAlert returns the next finished timer awaiting acknowledgment.
// Entries invalidated since queueing (restarted, trashed, gone) are
// discarded on the way.
func (c *Collection) PendingAlert() (Timer, bool) {
	for len(c.alerts) > 0 {
		id := c.alerts[0]
		t, ok := c.timers[id]
		if ok && !t.base().deleted && t.State() == StateFinished {
			return t, true
		}
		c.alerts = c.alerts[1:]
	}
	return nil, false
}

// Acknowledge dismisses the alert for id; the timer's finished state
// counts as presented from here on.
func (c *Collection) Acknowledge(id string) {
	c.dropAlert(id)
}

func (c *Collection) ActiveCount() int {
	n := 0
	for _, t := range c.timers {
		if !t.base().deleted {
			n++
		}
	}
	return n
}

func (c *Collection) TrashCount() int {
	return len(c.timers) - c.ActiveCount()
}

// Load replaces the collection with the document's timers. Duplicate ids
// get fresh ones. The active partition is reconciled once: a running
// timer that crossed zero while the state sat on disk finishes now, with
// exactly one alert, no matter how long ago the crossing was. Trashed
// timers wait for Restore.
func (c *Collection) Load(doc Document, now time.Time) {
	c.timers = make(map[string]Timer)
	c.order = nil
	c.alerts = nil

	for _, r := range doc.Timers {
		c.loadRecord(r, false, now)
	}
	for _, r := range doc.Trash {
		c.loadRecord(r, true, now)
	}

	for _, id := range c.order {
		t := c.timers[id]
		b := t.base()
		if b.deleted {
			continue
		}
		if t.Tick(now) {
			c.crossed(t)
		} else if b.state == StateFinished && !b.alerted {
			// A finished record whose alert was never raised still
			// owes exactly one.
			b.alerted = true
			c.crossed(t)
		}
	}
}

func (c *Collection) loadRecord(r Record, deleted bool, now time.Time) {
	t, ok := fromRecord(r, now)
	if !ok {
		return
	}
	b := t.base()
	b.deleted = deleted
	for {
		if _, taken := c.timers[b.id]; !taken {
			break
		}
		b.id = uuid.NewString()
	}
	c.timers[b.id] = t
	c.order = append(c.order, b.id)
}

// Document snapshots every timer for persistence, in display order.
func (c *Collection) Document() Document {
	doc := Document{Timers: []Record{}, Trash: []Record{}}
	for _, id := range c.order {
		t := c.timers[id]
		if t.base().deleted {
			doc.Trash = append(doc.Trash, t.Record())
		} else {
			doc.Timers = append(doc.Timers, t.Record())
		}
	}
	return doc
}

func (c *Collection) activeTimer(id string) (Timer, error) {
	t, ok := c.timers[id]
	if !ok || t.base().deleted {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

func (c *Collection) crossed(t Timer) {
	if !slices.Contains(c.alerts, t.ID()) {
		c.alerts = append(c.alerts, t.ID())
	}
	if c.OnFinish != nil {
		c.OnFinish(t)
	}
}

func (c *Collection) alertPending(id string) bool {
	return slices.Contains(c.alerts, id)
}

func (c *Collection) dropAlert(id string) {
	c.alerts = slices.DeleteFunc(c.alerts, func(a string) bool { return a == id })
}
