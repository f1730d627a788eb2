package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// History is the SQLite log of finish crossings.
type History struct {
	db *sql.DB
}

// NewHistory opens (or creates) the SQLite database at dbPath and runs
// migrations.
func NewHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return h, nil
}

// NewMemoryHistory creates an in-memory history for testing.
func NewMemoryHistory() (*History, error) {
	return NewHistory(":memory:")
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) migrate() error {
	var version int
	err := h.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := h.migrateV1(); err != nil {
			return err
		}
	}

	_, err = h.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (h *History) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS finishes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		timer_id    TEXT NOT NULL,
		label       TEXT NOT NULL,
		mode        TEXT NOT NULL,
		seconds     INTEGER NOT NULL DEFAULT 0,
		finished_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_finishes_at ON finishes(finished_at);
	`
	_, err := h.db.Exec(ddl)
	return err
}

// AddFinish records one finish crossing. seconds is the configured
// duration for relative timers, zero for absolute ones.
func (h *History) AddFinish(timerID, label, mode string, seconds int64, finishedAt time.Time) (*Finish, error) {
	res, err := h.db.Exec(
		`INSERT INTO finishes (timer_id, label, mode, seconds, finished_at) VALUES (?, ?, ?, ?, ?)`,
		timerID, label, mode, seconds, finishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("add finish: %w", err)
	}
	id, _ := res.LastInsertId()
	return h.GetFinish(id)
}

func (h *History) GetFinish(id int64) (*Finish, error) {
	f := &Finish{}
	var finishedAt string

	err := h.db.QueryRow(
		`SELECT id, timer_id, label, mode, seconds, finished_at FROM finishes WHERE id = ?`, id,
	).Scan(&f.ID, &f.TimerID, &f.Label, &f.Mode, &f.Seconds, &finishedAt)
	if err != nil {
		return nil, fmt.Errorf("get finish %d: %w", id, err)
	}
	f.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return f, nil
}

// RecentFinishes returns the newest crossings first.
func (h *History) RecentFinishes(limit int) ([]Finish, error) {
	query := `SELECT id, timer_id, label, mode, seconds, finished_at FROM finishes ORDER BY finished_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := h.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("recent finishes: %w", err)
	}
	defer rows.Close()

	var finishes []Finish
	for rows.Next() {
		var f Finish
		var finishedAt string
		if err := rows.Scan(&f.ID, &f.TimerID, &f.Label, &f.Mode, &f.Seconds, &finishedAt); err != nil {
			return nil, err
		}
		f.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		finishes = append(finishes, f)
	}
	return finishes, rows.Err()
}

// FinishesPerDay aggregates crossings per calendar day in [from, to).
func (h *History) FinishesPerDay(from, to time.Time) ([]DayCount, error) {
	rows, err := h.db.Query(`
		SELECT date(finished_at) AS day, COUNT(*)
		FROM finishes
		WHERE finished_at >= ? AND finished_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("finishes per day: %w", err)
	}
	defer rows.Close()

	var days []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// CountFinishes returns the total number of recorded crossings.
func (h *History) CountFinishes() (int64, error) {
	var total sql.NullInt64
	err := h.db.QueryRow(`SELECT COUNT(*) FROM finishes`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
