package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/turns/internal/config"
	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/roster"
	"github.com/jakechorley/turns/pkg/core/scheduler"
	"github.com/jakechorley/turns/pkg/db"
)

// OOOSource fetches out-of-office intervals for a calendar, typically the
// Google Calendar client
type OOOSource interface {
	ListOutOfOffice(calendarID string, window calendar.Interval) ([]calendar.Interval, error)
}

// GenerateOptions controls optional behavior of a schedule generation run
type GenerateOptions struct {
	// SeedHistory seeds each person's starting load from persisted runs so
	// fairness carries across consecutive schedules
	SeedHistory bool

	// UseCalendar merges out-of-office events from each person's configured
	// calendar into the roster before scheduling
	UseCalendar bool

	// DryRun skips persisting the generated schedule
	DryRun bool
}

// GenerateResult is the outcome of a schedule generation run
type GenerateResult struct {
	Schedule *scheduler.Schedule

	// RunID is the persisted run's ID, empty for dry runs or when no store
	// is configured
	RunID string

	// SeededLoad is the per-person starting load, nil when seeding was off
	SeededLoad []int
}

// GenerateSchedule builds the roster from configuration, runs the configured
// algorithm over the schedule window, and persists the result.
// store and oooSource may be nil; the corresponding options are then ignored.
func GenerateSchedule(
	ctx context.Context,
	cfg *config.Config,
	store db.ScheduleStore,
	oooSource OOOSource,
	logger *zap.Logger,
	opts GenerateOptions,
) (*GenerateResult, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	specs, err := cfg.PersonSpecs()
	if err != nil {
		return nil, err
	}

	logger.Info("Generating schedule",
		zap.String("from", cfg.Schedule.From),
		zap.String("to", cfg.Schedule.To),
		zap.Int("people", len(specs)))

	if opts.UseCalendar && oooSource != nil {
		if err := mergeCalendarOOO(cfg, specs, oooSource, window, logger); err != nil {
			return nil, err
		}
	}

	people, err := roster.Build(specs, window)
	if err != nil {
		return nil, fmt.Errorf("failed to build roster: %w", err)
	}

	algo, err := AlgorithmFromConfig(&cfg.Schedule.Algo)
	if err != nil {
		return nil, err
	}
	logger.Debug("Algorithm selected", zap.String("algorithm", algo.Name()))

	result := &GenerateResult{}

	req := scheduler.Request{Start: window.Start, End: window.End, People: people}
	if opts.SeedHistory && store != nil {
		initialLoad, err := historicalLoad(ctx, store, people)
		if err != nil {
			return nil, err
		}
		req.InitialLoad = initialLoad
		result.SeededLoad = initialLoad
		logger.Info("Seeded starting load from history", zap.Ints("load", initialLoad))
	}

	schedule, err := scheduler.Assemble(req, algo)
	if err != nil {
		return nil, err
	}
	result.Schedule = schedule

	logger.Info("Schedule generated",
		zap.Int("turns", len(schedule.Turns)),
		zap.Ints("load", schedule.Load()))

	if store != nil && !opts.DryRun {
		runID, err := persistSchedule(ctx, store, cfg, algo.Name(), schedule)
		if err != nil {
			return nil, err
		}
		result.RunID = runID
		logger.Info("Schedule persisted", zap.String("run_id", runID))
	}

	return result, nil
}

// mergeCalendarOOO appends out-of-office intervals fetched from each person's
// calendar to their roster spec
func mergeCalendarOOO(
	cfg *config.Config,
	specs []roster.PersonSpec,
	oooSource OOOSource,
	window calendar.Interval,
	logger *zap.Logger,
) error {
	for i := range specs {
		calendarID := cfg.People[specs[i].ID].CalendarID
		if calendarID == "" {
			continue
		}

		intervals, err := oooSource.ListOutOfOffice(calendarID, window)
		if err != nil {
			return fmt.Errorf("failed to import out-of-office for %s: %w", specs[i].ID, err)
		}
		logger.Debug("Imported out-of-office events",
			zap.String("person", specs[i].ID),
			zap.Int("events", len(intervals)))

		for _, interval := range intervals {
			interval := interval
			specs[i].OutOfOffice = append(specs[i].OutOfOffice, roster.OutOfOffice{Period: &interval})
		}
	}
	return nil
}

// historicalLoad maps persisted per-person day totals onto roster indices
func historicalLoad(ctx context.Context, store db.ScheduleStore, people []roster.Person) ([]int, error) {
	totals, err := store.LoadTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical totals: %w", err)
	}

	load := make([]int, len(people))
	for i, person := range people {
		load[i] = totals[person.ID]
	}
	return load, nil
}

// persistSchedule records the run and its turns in the history store
func persistSchedule(
	ctx context.Context,
	store db.ScheduleStore,
	cfg *config.Config,
	algorithm string,
	schedule *scheduler.Schedule,
) (string, error) {
	run := &db.ScheduleRun{
		ID:        uuid.New().String(),
		Start:     cfg.Schedule.From,
		End:       cfg.Schedule.To,
		Algorithm: algorithm,
	}

	turns := make([]db.TurnRecord, len(schedule.Turns))
	for i, turn := range schedule.Turns {
		turns[i] = db.TurnRecord{
			ID:       uuid.New().String(),
			RunID:    run.ID,
			PersonID: schedule.People[turn.Person].ID,
			Start:    turn.Start.Format(calendar.DateLayout),
			End:      turn.End.Format(calendar.DateLayout),
			Days:     turn.Days(),
		}
	}

	if err := store.InsertScheduleRun(ctx, run, turns); err != nil {
		return "", fmt.Errorf("failed to persist schedule run: %w", err)
	}
	return run.ID, nil
}
