package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/turns/internal/config"
	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/db"
)

type fakeStore struct {
	totals       map[string]int
	totalsErr    error
	insertErr    error
	insertedRun  *db.ScheduleRun
	insertedTurn []db.TurnRecord
}

func (f *fakeStore) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	return nil, nil
}

func (f *fakeStore) GetTurnsForRun(ctx context.Context, runID string) ([]db.TurnRecord, error) {
	return nil, nil
}

func (f *fakeStore) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, turns []db.TurnRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insertedRun = run
	f.insertedTurn = turns
	return nil
}

func (f *fakeStore) LoadTotals(ctx context.Context) (map[string]int, error) {
	if f.totalsErr != nil {
		return nil, f.totalsErr
	}
	return f.totals, nil
}

type fakeOOOSource struct {
	intervals map[string][]calendar.Interval
	err       error
	requested []string
}

func (f *fakeOOOSource) ListOutOfOffice(calendarID string, window calendar.Interval) ([]calendar.Interval, error) {
	f.requested = append(f.requested, calendarID)
	if f.err != nil {
		return nil, f.err
	}
	return f.intervals[calendarID], nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDay(s)
	require.NoError(t, err)
	return d
}

func greedyConfig() *config.Config {
	return &config.Config{
		People: map[string]config.PersonConfig{
			"alice": {Name: "Alice"},
			"bob":   {Name: "Bob"},
		},
		Schedule: config.ScheduleConfig{
			From: "2025-01-01",
			To:   "2025-01-08",
			Algo: config.AlgoConfig{
				Greedy: &config.GreedyConfig{TurnLengthDays: 2, PreferenceWeight: 1},
			},
		},
	}
}

func TestGenerateScheduleAlternatesByLoad(t *testing.T) {
	result, err := GenerateSchedule(context.Background(), greedyConfig(), nil, nil, zap.NewNop(), GenerateOptions{})

	require.NoError(t, err)
	require.NotNil(t, result.Schedule)
	require.Len(t, result.Schedule.Turns, 4)
	assert.Equal(t, []int{4, 4}, result.Schedule.Load())
	assert.Empty(t, result.RunID)
	assert.Nil(t, result.SeededLoad)
}

func TestGenerateSchedulePersistsRun(t *testing.T) {
	store := &fakeStore{}

	result, err := GenerateSchedule(context.Background(), greedyConfig(), store, nil, zap.NewNop(), GenerateOptions{})

	require.NoError(t, err)
	require.NotNil(t, store.insertedRun)
	assert.Equal(t, result.RunID, store.insertedRun.ID)
	assert.Equal(t, "2025-01-01", store.insertedRun.Start)
	assert.Equal(t, "2025-01-08", store.insertedRun.End)
	assert.Equal(t, "greedy", store.insertedRun.Algorithm)

	require.Len(t, store.insertedTurn, 4)
	assert.Equal(t, "alice", store.insertedTurn[0].PersonID)
	assert.Equal(t, "2025-01-01", store.insertedTurn[0].Start)
	assert.Equal(t, "2025-01-02", store.insertedTurn[0].End)
	assert.Equal(t, 2, store.insertedTurn[0].Days)
	assert.Equal(t, store.insertedRun.ID, store.insertedTurn[0].RunID)
}

func TestGenerateScheduleDryRunSkipsPersist(t *testing.T) {
	store := &fakeStore{}

	result, err := GenerateSchedule(context.Background(), greedyConfig(), store, nil, zap.NewNop(), GenerateOptions{DryRun: true})

	require.NoError(t, err)
	assert.Nil(t, store.insertedRun)
	assert.Empty(t, result.RunID)
}

func TestGenerateScheduleSeedsHistoricalLoad(t *testing.T) {
	store := &fakeStore{totals: map[string]int{"alice": 10}}

	result, err := GenerateSchedule(context.Background(), greedyConfig(), store, nil, zap.NewNop(),
		GenerateOptions{SeedHistory: true, DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 0}, result.SeededLoad)

	// Alice starts ten days ahead, so Bob takes the first turn
	first := result.Schedule.Turns[0]
	assert.Equal(t, "bob", result.Schedule.People[first.Person].ID)
}

func TestGenerateScheduleSeedErrorFailsRun(t *testing.T) {
	store := &fakeStore{totalsErr: errors.New("connection refused")}

	_, err := GenerateSchedule(context.Background(), greedyConfig(), store, nil, zap.NewNop(),
		GenerateOptions{SeedHistory: true})

	assert.ErrorContains(t, err, "failed to load historical totals")
}

func TestGenerateScheduleMergesCalendarOOO(t *testing.T) {
	cfg := greedyConfig()
	person := cfg.People["bob"]
	person.CalendarID = "bob@example.com"
	cfg.People["bob"] = person

	window := calendar.Interval{Start: day(t, "2025-01-01"), End: day(t, "2025-01-08")}
	source := &fakeOOOSource{intervals: map[string][]calendar.Interval{
		"bob@example.com": {window},
	}}

	result, err := GenerateSchedule(context.Background(), cfg, nil, source, zap.NewNop(),
		GenerateOptions{UseCalendar: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, source.requested)
	for _, turn := range result.Schedule.Turns {
		assert.Equal(t, "alice", result.Schedule.People[turn.Person].ID)
	}
}

func TestGenerateScheduleCalendarErrorFailsRun(t *testing.T) {
	cfg := greedyConfig()
	person := cfg.People["alice"]
	person.CalendarID = "alice@example.com"
	cfg.People["alice"] = person

	source := &fakeOOOSource{err: errors.New("quota exceeded")}

	_, err := GenerateSchedule(context.Background(), cfg, nil, source, zap.NewNop(),
		GenerateOptions{UseCalendar: true})

	assert.ErrorContains(t, err, "failed to import out-of-office for alice")
}

func TestGenerateScheduleSkipsPeopleWithoutCalendar(t *testing.T) {
	source := &fakeOOOSource{}

	_, err := GenerateSchedule(context.Background(), greedyConfig(), nil, source, zap.NewNop(),
		GenerateOptions{UseCalendar: true})

	require.NoError(t, err)
	assert.Empty(t, source.requested)
}

func TestGenerateScheduleRejectsUnknownAlgorithm(t *testing.T) {
	cfg := greedyConfig()
	cfg.Schedule.Algo = config.AlgoConfig{}

	_, err := GenerateSchedule(context.Background(), cfg, nil, nil, zap.NewNop(), GenerateOptions{})

	assert.Error(t, err)
}
