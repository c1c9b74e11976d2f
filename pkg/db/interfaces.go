package db

import "context"

// ScheduleStore defines the interface for schedule-history operations.
// The postgres package provides the production implementation.
type ScheduleStore interface {
	// GetScheduleRuns returns all persisted runs, oldest first
	GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error)

	// GetTurnsForRun returns the turns of one run in schedule order
	GetTurnsForRun(ctx context.Context, runID string) ([]TurnRecord, error)

	// InsertScheduleRun persists a run and its turns atomically
	InsertScheduleRun(ctx context.Context, run *ScheduleRun, turns []TurnRecord) error

	// LoadTotals returns cumulative on-call days per person ID across all
	// persisted runs
	LoadTotals(ctx context.Context) (map[string]int, error)
}
