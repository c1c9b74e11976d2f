package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/turns/pkg/db"
)

// GetScheduleRuns retrieves all persisted schedule runs, oldest first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, start_date, end_date, algorithm, created_at
		FROM schedule_run
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		var r db.ScheduleRun
		var start, end time.Time
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &start, &end, &r.Algorithm, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		r.Start = start.Format("2006-01-02")
		r.End = end.Format("2006-01-02")
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetTurnsForRun retrieves the turns of one run in schedule order
func (d *DB) GetTurnsForRun(ctx context.Context, runID string) ([]db.TurnRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, person_id, start_date, end_date, days
		FROM turn
		WHERE run_id = $1
		ORDER BY start_date
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []db.TurnRecord
	for rows.Next() {
		var t db.TurnRecord
		var start, end time.Time
		if err := rows.Scan(&t.ID, &t.RunID, &t.PersonID, &start, &end, &t.Days); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Start = start.Format("2006-01-02")
		t.End = end.Format("2006-01-02")
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	return turns, nil
}

// InsertScheduleRun persists a run and its turns in one transaction
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, turns []db.TurnRecord) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_run (id, start_date, end_date, algorithm)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.Start, run.End, run.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}

	for _, t := range turns {
		_, err := tx.Exec(ctx, `
			INSERT INTO turn (id, run_id, person_id, start_date, end_date, days)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, t.ID, t.RunID, t.PersonID, t.Start, t.End, t.Days)
		if err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadTotals returns cumulative on-call days per person across all runs
func (d *DB) LoadTotals(ctx context.Context) (map[string]int, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT person_id, COALESCE(SUM(days), 0)
		FROM turn
		GROUP BY person_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query load totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var personID string
		var days int
		if err := rows.Scan(&personID, &days); err != nil {
			return nil, fmt.Errorf("failed to scan load total: %w", err)
		}
		totals[personID] = days
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load totals: %w", err)
	}

	return totals, nil
}
