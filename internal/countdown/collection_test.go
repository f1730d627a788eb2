package countdown

import (
	"errors"
	"testing"
	"time"
)

func intPtr(i int) *int { return &i }

func addTimer(t *testing.T, c *Collection, label, input string, now time.Time) Timer {
	t.Helper()
	tm, err := c.Add(label, input, now)
	if err != nil {
		t.Fatalf("Add(%q, %q) error = %v", label, input, err)
	}
	return tm
}

// ============================================================
// Add
// ============================================================

func TestCollectionAdd(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tm := addTimer(t, c, "Tea", "5", now)
	if tm.Label() != "Tea" {
		t.Errorf("Label = %q, want Tea", tm.Label())
	}
	if tm.Mode() != ModeRelative {
		t.Errorf("Mode = %q, want relative", tm.Mode())
	}
	if tm.State() != StateRunning {
		t.Errorf("State = %q, want running", tm.State())
	}
	if tm.ID() == "" {
		t.Error("ID is empty")
	}
	if c.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", c.ActiveCount())
	}
}

func TestCollectionAddDefaultLabels(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	first := addTimer(t, c, "", "5", now)
	second := addTimer(t, c, "  ", "10", now)
	if first.Label() != "Timer 1" {
		t.Errorf("first label = %q, want Timer 1", first.Label())
	}
	if second.Label() != "Timer 2" {
		t.Errorf("second label = %q, want Timer 2", second.Label())
	}
}

func TestCollectionAddInvalidInput(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	if _, err := c.Add("Tea", "24:00", now); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Add error = %v, want ErrInvalidFormat", err)
	}
	if c.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", c.ActiveCount())
	}
}

// ============================================================
// Ticking and alerts
// ============================================================

func TestCollectionTickQueuesAlertOnce(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Soup", "0:2", start)

	if !c.Tick(start.Add(10 * time.Second)) {
		t.Fatal("Tick() did not report the crossing")
	}
	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != tm.ID() {
		t.Fatalf("PendingAlert = %v, %v; want the finished timer", pending, ok)
	}
	// Peeking does not consume the alert.
	if again, ok := c.PendingAlert(); !ok || again.ID() != tm.ID() {
		t.Fatal("PendingAlert consumed the queued alert")
	}

	if c.Tick(start.Add(20 * time.Second)) {
		t.Error("Tick() reported a second crossing for the same finish")
	}

	c.Acknowledge(tm.ID())
	if _, ok := c.PendingAlert(); ok {
		t.Error("alert still pending after acknowledgment")
	}
}

func TestCollectionAlertsAreFIFO(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	first := addTimer(t, c, "First", "0:1", start)
	second := addTimer(t, c, "Second", "0:2", start)

	c.Tick(start.Add(5 * time.Second))

	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != first.ID() {
		t.Fatalf("first PendingAlert = %v, want %q", pending, first.ID())
	}
	c.Acknowledge(first.ID())

	pending, ok = c.PendingAlert()
	if !ok || pending.ID() != second.ID() {
		t.Fatalf("second PendingAlert = %v, want %q", pending, second.ID())
	}
	c.Acknowledge(second.ID())

	if _, ok := c.PendingAlert(); ok {
		t.Error("alert still pending after acknowledging both")
	}
}

func TestCollectionPendingAlertSkipsRestarted(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	first := addTimer(t, c, "First", "0:1", start)
	second := addTimer(t, c, "Second", "0:2", start)

	c.Tick(start.Add(5 * time.Second))

	// Restarting the first timer before its alert shows invalidates the
	// queued entry; the second timer's alert surfaces instead.
	if err := c.Start(first.ID(), start.Add(6*time.Second)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != second.ID() {
		t.Fatalf("PendingAlert = %v, want %q", pending, second.ID())
	}
}

func TestCollectionNeverQueuesDuplicateAlerts(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Loop", "0:1", start)

	c.Tick(start.Add(2 * time.Second))
	// Restart without acknowledging, let it finish again.
	if err := c.Start(tm.ID(), start.Add(3*time.Second)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	c.Tick(start.Add(10 * time.Second))

	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != tm.ID() {
		t.Fatalf("PendingAlert = %v, %v; want the finished timer", pending, ok)
	}
	c.Acknowledge(tm.ID())
	if _, ok := c.PendingAlert(); ok {
		t.Error("duplicate alert queued for a single timer")
	}
}

func TestCollectionOnFinishHook(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	var finished []string
	c.OnFinish = func(tm Timer) { finished = append(finished, tm.Label()) }

	addTimer(t, c, "Soup", "0:2", start)
	c.Tick(start.Add(5 * time.Second))
	c.Tick(start.Add(6 * time.Second))

	if len(finished) != 1 || finished[0] != "Soup" {
		t.Errorf("OnFinish calls = %v, want exactly [Soup]", finished)
	}
}

// ============================================================
// Start, pause, stop
// ============================================================

func TestCollectionStopLeavesFinishedAlertQueued(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Soup", "0:1", start)

	c.Tick(start.Add(5 * time.Second))
	if err := c.StopOrReset(tm.ID(), start.Add(6*time.Second)); err != nil {
		t.Fatalf("StopOrReset() error = %v", err)
	}
	if tm.State() != StateFinished {
		t.Errorf("State = %q, want finished; stop must not clear a finish", tm.State())
	}
	if _, ok := c.PendingAlert(); !ok {
		t.Error("pending alert withdrawn by a no-op stop")
	}
}

func TestCollectionStopWithdrawsStaleAlert(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Soup", "0:1", start)

	c.Tick(start.Add(5 * time.Second))
	if err := c.Start(tm.ID(), start.Add(6*time.Second)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.StopOrReset(tm.ID(), start.Add(7*time.Second)); err != nil {
		t.Fatalf("StopOrReset() error = %v", err)
	}
	if tm.State() != StateStopped {
		t.Errorf("State = %q, want stopped", tm.State())
	}
	if _, ok := c.PendingAlert(); ok {
		t.Error("stale alert survived the stop")
	}
}

func TestCollectionOperationsRequireActiveTimer(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Tea", "5", now)
	_ = c.SoftDelete(tm.ID())

	if err := c.Start(tm.ID(), now); !errors.Is(err, ErrNotFound) {
		t.Errorf("Start on trashed = %v, want ErrNotFound", err)
	}
	if err := c.Pause(tm.ID(), now); !errors.Is(err, ErrNotFound) {
		t.Errorf("Pause on trashed = %v, want ErrNotFound", err)
	}
	if err := c.EditLabel(tm.ID(), "New"); !errors.Is(err, ErrNotFound) {
		t.Errorf("EditLabel on trashed = %v, want ErrNotFound", err)
	}
	if err := c.Start("missing", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("Start on missing = %v, want ErrNotFound", err)
	}
}

// ============================================================
// Trash
// ============================================================

func TestCollectionTrashRoundTrip(t *testing.T) {
	// A trashed timer is excluded from ticking, but wall-clock time
	// keeps passing: restoring five minutes later shows five fewer.
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Bread", "10", start)

	c.Tick(start.Add(time.Minute))
	if err := c.SoftDelete(tm.ID()); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if c.Tick(start.Add(3 * time.Minute)) {
		t.Error("Tick() touched a trashed timer")
	}
	if c.ActiveCount() != 0 || c.TrashCount() != 1 {
		t.Fatalf("counts = %d active, %d trash; want 0, 1", c.ActiveCount(), c.TrashCount())
	}
	if len(c.Rows(start)) != 0 || len(c.TrashRows(start)) != 1 {
		t.Fatal("rows not partitioned by trash membership")
	}

	restore := start.Add(6 * time.Minute)
	if err := c.Restore(tm.ID(), restore); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if tm.State() != StateRunning {
		t.Errorf("State = %q, want running", tm.State())
	}
	if got := tm.Remaining(restore); got != 4*time.Minute {
		t.Errorf("Remaining after restore = %v, want 4m", got)
	}
}

func TestCollectionRestoreReconcilesCrossing(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Egg", "0:2", start)

	_ = c.SoftDelete(tm.ID())
	if err := c.Restore(tm.ID(), start.Add(10*time.Second)); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if tm.State() != StateFinished {
		t.Fatalf("State = %q, want finished", tm.State())
	}
	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != tm.ID() {
		t.Errorf("PendingAlert = %v, %v; want the restored timer", pending, ok)
	}
}

func TestCollectionSoftDeleteDropsAlert(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Soup", "0:1", start)

	c.Tick(start.Add(5 * time.Second))
	_ = c.SoftDelete(tm.ID())
	if _, ok := c.PendingAlert(); ok {
		t.Error("trashed timer still has a pending alert")
	}
}

func TestCollectionSoftDeleteEdgeCases(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Tea", "5", now)

	if err := c.SoftDelete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SoftDelete(missing) = %v, want ErrNotFound", err)
	}
	if err := c.SoftDelete(tm.ID()); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if err := c.SoftDelete(tm.ID()); err != nil {
		t.Errorf("second SoftDelete() error = %v, want nil no-op", err)
	}
	if c.TrashCount() != 1 {
		t.Errorf("TrashCount = %d, want 1", c.TrashCount())
	}
}

func TestCollectionRestoreActiveIsNoOp(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Tea", "5", now)

	if err := c.Restore(tm.ID(), now.Add(time.Minute)); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if c.ActiveCount() != 1 || tm.State() != StateRunning {
		t.Error("Restore changed an active timer")
	}
}

func TestCollectionPermanentDelete(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Tea", "5", now)

	if err := c.PermanentDelete(tm.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("PermanentDelete on active = %v, want ErrNotFound", err)
	}

	_ = c.SoftDelete(tm.ID())
	if err := c.PermanentDelete(tm.ID()); err != nil {
		t.Fatalf("PermanentDelete() error = %v", err)
	}
	if _, ok := c.Get(tm.ID()); ok {
		t.Error("timer still present after permanent delete")
	}
	if c.TrashCount() != 0 {
		t.Errorf("TrashCount = %d, want 0", c.TrashCount())
	}
}

func TestCollectionEmptyTrash(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	keep := addTimer(t, c, "Keep", "5", now)
	first := addTimer(t, c, "One", "10", now)
	second := addTimer(t, c, "Two", "15", now)

	_ = c.SoftDelete(first.ID())
	_ = c.SoftDelete(second.ID())
	c.EmptyTrash()

	if c.TrashCount() != 0 {
		t.Errorf("TrashCount = %d, want 0", c.TrashCount())
	}
	rows := c.Rows(now)
	if len(rows) != 1 || rows[0].ID != keep.ID() {
		t.Errorf("Rows = %v, want only the kept timer", rows)
	}
}

// ============================================================
// Editing
// ============================================================

func TestCollectionEditTimeKeepsMode(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	abs := addTimer(t, c, "Standup", "07:20", now)
	rel := addTimer(t, c, "Tea", "5", now)

	// A relative form is rejected for an absolute timer instead of
	// flipping its mode.
	if err := c.EditTime(abs.ID(), "0:30", now); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("EditTime(absolute, 0:30) = %v, want ErrInvalidFormat", err)
	}
	if err := c.EditTime(abs.ID(), "09:30", now); err != nil {
		t.Fatalf("EditTime(absolute) error = %v", err)
	}
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	if got := abs.(*Absolute).Target(); !got.Equal(want) {
		t.Errorf("Target = %v, want %v", got, want)
	}

	// "07:20" reads as 7 minutes 20 seconds for a relative timer.
	if err := c.EditTime(rel.ID(), "07:20", now); err != nil {
		t.Fatalf("EditTime(relative) error = %v", err)
	}
	if got := rel.(*Relative).Initial(); got != 7*time.Minute+20*time.Second {
		t.Errorf("Initial = %v, want 7m20s", got)
	}
}

func TestCollectionEditTimeRestartsFinished(t *testing.T) {
	c := NewCollection()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Soup", "0:1", start)

	c.Tick(start.Add(5 * time.Second))
	if err := c.EditTime(tm.ID(), "5", start.Add(6*time.Second)); err != nil {
		t.Fatalf("EditTime() error = %v", err)
	}
	if tm.State() != StateRunning {
		t.Errorf("State = %q, want running", tm.State())
	}
	if _, ok := c.PendingAlert(); ok {
		t.Error("pending alert survived the edit")
	}
}

func TestCollectionEditLabel(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := addTimer(t, c, "Tea", "5", now)

	if err := c.EditLabel(tm.ID(), "  Green Tea  "); err != nil {
		t.Fatalf("EditLabel() error = %v", err)
	}
	if tm.Label() != "Green Tea" {
		t.Errorf("Label = %q, want Green Tea", tm.Label())
	}
	// Blank input keeps the old label.
	if err := c.EditLabel(tm.ID(), "   "); err != nil {
		t.Fatalf("EditLabel() error = %v", err)
	}
	if tm.Label() != "Green Tea" {
		t.Errorf("Label = %q, want Green Tea", tm.Label())
	}
}

// ============================================================
// Ordering
// ============================================================

func TestCollectionMove(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	a := addTimer(t, c, "A", "5", now)
	b := addTimer(t, c, "B", "5", now)
	cc := addTimer(t, c, "C", "5", now)

	if err := c.Move(b.ID(), -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	rows := c.Rows(now)
	if rows[0].ID != b.ID() || rows[1].ID != a.ID() || rows[2].ID != cc.ID() {
		t.Errorf("order = %q %q %q, want B A C", rows[0].Label, rows[1].Label, rows[2].Label)
	}

	// Already at the top: no-op.
	if err := c.Move(b.ID(), -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if got := c.Rows(now)[0].ID; got != b.ID() {
		t.Errorf("top = %q, want B", got)
	}
}

func TestCollectionMoveSkipsOtherPartition(t *testing.T) {
	c := NewCollection()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	a := addTimer(t, c, "A", "5", now)
	trashed := addTimer(t, c, "T", "5", now)
	b := addTimer(t, c, "B", "5", now)
	_ = c.SoftDelete(trashed.ID())

	if err := c.Move(b.ID(), -1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	rows := c.Rows(now)
	if rows[0].ID != b.ID() || rows[1].ID != a.ID() {
		t.Errorf("active order = %q %q, want B A", rows[0].Label, rows[1].Label)
	}
	if trash := c.TrashRows(now); len(trash) != 1 || trash[0].ID != trashed.ID() {
		t.Error("trash order disturbed by an active move")
	}
}

// ============================================================
// Load and snapshot
// ============================================================

func TestCollectionLoadReconcilesCrossing(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Timers: []Record{{
		ID:               "r1",
		Label:            "Soup",
		Mode:             "relative",
		State:            "running",
		RemainingSeconds: intPtr(120),
		InitialSeconds:   intPtr(120),
		ResumeAnchor:     start.Format(time.RFC3339Nano),
	}}}

	c := NewCollection()
	finishes := 0
	c.OnFinish = func(Timer) { finishes++ }
	c.Load(doc, start.Add(10*time.Minute))

	tm, ok := c.Get("r1")
	if !ok {
		t.Fatal("timer not loaded")
	}
	if tm.State() != StateFinished {
		t.Errorf("State = %q, want finished", tm.State())
	}
	if finishes != 1 {
		t.Errorf("OnFinish calls = %d, want 1", finishes)
	}
	if pending, ok := c.PendingAlert(); !ok || pending.ID() != "r1" {
		t.Errorf("PendingAlert = %v, %v; want r1", pending, ok)
	}
}

func TestCollectionLoadRunningKeepsAnchorContinuity(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Timers: []Record{{
		ID:               "r1",
		Label:            "Bread",
		Mode:             "relative",
		State:            "running",
		RemainingSeconds: intPtr(600),
		InitialSeconds:   intPtr(600),
		ResumeAnchor:     start.Format(time.RFC3339Nano),
	}}}

	c := NewCollection()
	later := start.Add(4 * time.Minute)
	c.Load(doc, later)

	tm, _ := c.Get("r1")
	if got := tm.Remaining(later); got != 6*time.Minute {
		t.Errorf("Remaining = %v, want 6m; the gap while closed must count", got)
	}
}

func TestCollectionLoadFinishedUnalertedOwesOneAlert(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Timers: []Record{
		{
			ID: "owed", Label: "Owed", Mode: "relative", State: "finished",
			RemainingSeconds: intPtr(0), InitialSeconds: intPtr(60),
			Alerted: false,
		},
		{
			ID: "seen", Label: "Seen", Mode: "relative", State: "finished",
			RemainingSeconds: intPtr(0), InitialSeconds: intPtr(60),
			Alerted: true,
		},
	}}

	c := NewCollection()
	c.Load(doc, start)

	pending, ok := c.PendingAlert()
	if !ok || pending.ID() != "owed" {
		t.Fatalf("PendingAlert = %v, %v; want owed", pending, ok)
	}
	c.Acknowledge("owed")
	if _, ok := c.PendingAlert(); ok {
		t.Error("already-alerted finish raised a second alert")
	}
}

func TestCollectionLoadDeduplicatesIds(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Timers: []Record{
		{ID: "dup", Label: "First", Mode: "relative", State: "paused", RemainingSeconds: intPtr(60), InitialSeconds: intPtr(60)},
		{ID: "dup", Label: "Second", Mode: "relative", State: "paused", RemainingSeconds: intPtr(90), InitialSeconds: intPtr(90)},
	}}

	c := NewCollection()
	c.Load(doc, start)

	if c.ActiveCount() != 2 {
		t.Fatalf("ActiveCount = %d, want 2", c.ActiveCount())
	}
	rows := c.Rows(start)
	if rows[0].ID != "dup" {
		t.Errorf("first id = %q, want dup", rows[0].ID)
	}
	if rows[1].ID == "dup" || rows[1].ID == "" {
		t.Errorf("second id = %q, want a fresh one", rows[1].ID)
	}
}

func TestCollectionLoadDropsUnusableRecords(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Timers: []Record{
		{ID: "a", Label: "", Mode: "relative", State: "paused", RemainingSeconds: intPtr(60)},
		{ID: "b", Label: "No target", Mode: "absolute", State: "running"},
		{ID: "c", Label: "Good", Mode: "relative", State: "paused", RemainingSeconds: intPtr(60), InitialSeconds: intPtr(60)},
	}}

	c := NewCollection()
	c.Load(doc, start)

	if c.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", c.ActiveCount())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("usable record was dropped")
	}
}

func TestCollectionLoadLegacyFields(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	target := start.Add(45 * time.Minute)
	doc := Document{Timers: []Record{
		{
			ID: "abs", Label: "Old absolute", Mode: "absolute", State: "Running",
			EndTime: target.Format(time.RFC3339Nano),
		},
		{
			ID: "rel", Label: "Old relative", Mode: "relative", State: "Paused",
			PausedRemaining: intPtr(90), PresetRelative: "5",
		},
	}}

	c := NewCollection()
	c.Load(doc, start)

	abs, ok := c.Get("abs")
	if !ok {
		t.Fatal("legacy absolute record dropped")
	}
	if abs.State() != StateRunning {
		t.Errorf("absolute state = %q, want running", abs.State())
	}
	if got := abs.Remaining(start); got != 45*time.Minute {
		t.Errorf("absolute Remaining = %v, want 45m", got)
	}
	if got := abs.(*Absolute).TimeOfDay(); got != target.Format("15:04") {
		t.Errorf("TimeOfDay = %q, want %q", got, target.Format("15:04"))
	}

	rel, ok := c.Get("rel")
	if !ok {
		t.Fatal("legacy relative record dropped")
	}
	if rel.State() != StatePaused {
		t.Errorf("relative state = %q, want paused", rel.State())
	}
	if got := rel.Remaining(start); got != 90*time.Second {
		t.Errorf("relative Remaining = %v, want 90s", got)
	}
	if got := rel.(*Relative).Initial(); got != 5*time.Minute {
		t.Errorf("relative Initial = %v, want 5m", got)
	}
}

func TestCollectionLoadDoesNotReconcileTrash(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	doc := Document{Trash: []Record{{
		ID:               "t1",
		Label:            "Buried",
		Mode:             "relative",
		State:            "running",
		RemainingSeconds: intPtr(2),
		InitialSeconds:   intPtr(2),
		ResumeAnchor:     start.Format(time.RFC3339Nano),
	}}}

	c := NewCollection()
	load := start.Add(time.Hour)
	c.Load(doc, load)

	tm, ok := c.Get("t1")
	if !ok {
		t.Fatal("trashed record dropped")
	}
	if tm.State() != StateRunning {
		t.Fatalf("State = %q, want running; trash must wait for restore", tm.State())
	}
	if _, ok := c.PendingAlert(); ok {
		t.Fatal("trashed timer raised an alert on load")
	}

	if err := c.Restore("t1", load); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if tm.State() != StateFinished {
		t.Errorf("State after restore = %q, want finished", tm.State())
	}
}

func TestCollectionDocumentRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	c1 := NewCollection()
	running := addTimer(t, c1, "Running", "10", start)
	paused := addTimer(t, c1, "Paused", "3", start)
	stopped := addTimer(t, c1, "Stopped", "18:00", start)
	finished := addTimer(t, c1, "Finished", "0:1", start)
	trashed := addTimer(t, c1, "Trashed", "2", start)

	_ = c1.Pause(paused.ID(), start.Add(30*time.Second))
	_ = c1.StopOrReset(stopped.ID(), start.Add(30*time.Second))
	c1.Tick(start.Add(30 * time.Second))
	_ = c1.SoftDelete(trashed.ID())

	doc := c1.Document()
	if len(doc.Timers) != 4 || len(doc.Trash) != 1 {
		t.Fatalf("document = %d timers, %d trash; want 4, 1", len(doc.Timers), len(doc.Trash))
	}

	later := start.Add(2 * time.Minute)
	c2 := NewCollection()
	c2.Load(doc, later)

	got, ok := c2.Get(running.ID())
	if !ok {
		t.Fatal("running timer lost in round trip")
	}
	if got.State() != StateRunning {
		t.Errorf("running state = %q, want running", got.State())
	}
	if want := 8 * time.Minute; got.Remaining(later) != want {
		t.Errorf("running Remaining = %v, want %v", got.Remaining(later), want)
	}

	got, _ = c2.Get(paused.ID())
	if got.State() != StatePaused || got.Remaining(later) != 2*time.Minute+30*time.Second {
		t.Errorf("paused = %q %v, want paused 2m30s", got.State(), got.Remaining(later))
	}

	got, _ = c2.Get(stopped.ID())
	if got.State() != StateStopped {
		t.Errorf("stopped state = %q, want stopped", got.State())
	}

	got, _ = c2.Get(finished.ID())
	if got.State() != StateFinished {
		t.Errorf("finished state = %q, want finished", got.State())
	}
	if !got.FinishedAt().Equal(start.Add(30 * time.Second)) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt(), start.Add(30*time.Second))
	}
	// Its alert was already raised before saving; loading owes nothing.
	if _, ok := c2.PendingAlert(); ok {
		t.Error("round trip re-raised an already-raised alert")
	}

	if c2.TrashCount() != 1 {
		t.Errorf("TrashCount = %d, want 1", c2.TrashCount())
	}
}
