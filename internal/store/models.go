package store

import "time"

// Finish is one recorded finish crossing.
type Finish struct {
	ID         int64
	TimerID    string
	Label      string
	Mode       string
	Seconds    int64 // configured duration, 0 for absolute timers
	FinishedAt time.Time
}

// DayCount aggregates finishes per calendar day.
type DayCount struct {
	Date  string // YYYY-MM-DD
	Count int64
}
