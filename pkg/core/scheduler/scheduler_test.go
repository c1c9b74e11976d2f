package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/roster"
)

// fixedAlgorithm rotates through the roster with a fixed turn length
type fixedAlgorithm struct {
	length int
	next   int
}

func (f *fixedAlgorithm) Name() string { return "fixed" }

func (f *fixedAlgorithm) NextTurn(req *Request, cursor time.Time, load *LoadTracker) (Decision, error) {
	person := f.next
	f.next = (f.next + 1) % len(req.People)
	return Decision{Person: person, Length: f.length}, nil
}

// brokenAlgorithm returns an invalid decision
type brokenAlgorithm struct {
	decision Decision
}

func (b *brokenAlgorithm) Name() string { return "broken" }

func (b *brokenAlgorithm) NextTurn(req *Request, cursor time.Time, load *LoadTracker) (Decision, error) {
	return b.decision, nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDay(s)
	require.NoError(t, err)
	return d
}

func testPeople(t *testing.T, ids ...string) []roster.Person {
	t.Helper()
	specs := make([]roster.PersonSpec, len(ids))
	for i, id := range ids {
		specs[i] = roster.PersonSpec{ID: id, Name: id}
	}
	window := calendar.Interval{Start: day(t, "2025-01-01"), End: day(t, "2025-12-31")}
	people, err := roster.Build(specs, window)
	require.NoError(t, err)
	return people
}

// assertCoverage checks the central schedule invariant: turns are contiguous
// and cover exactly [start, end]
func assertCoverage(t *testing.T, s *Schedule, start, end time.Time) {
	t.Helper()
	require.NotEmpty(t, s.Turns)
	assert.Equal(t, start, s.Turns[0].Start)
	assert.Equal(t, end, s.Turns[len(s.Turns)-1].End)
	for i := 1; i < len(s.Turns); i++ {
		assert.Equal(t, calendar.NextDay(s.Turns[i-1].End), s.Turns[i].Start,
			"turn %d must start the day after turn %d ends", i, i-1)
	}
	for _, turn := range s.Turns {
		assert.False(t, turn.End.Before(turn.Start))
	}
}

func TestAssemble_CoversRangeExactly(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-12"),
		People: testPeople(t, "alice", "bob", "carol"),
	}

	schedule, err := Assemble(req, &fixedAlgorithm{length: 4})
	require.NoError(t, err)
	require.Len(t, schedule.Turns, 3)
	assertCoverage(t, schedule, req.Start, req.End)
}

func TestAssemble_ClipsFinalTurn(t *testing.T) {
	// 10 days with 4-day turns: the third turn is clipped to 2 days
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-10"),
		People: testPeople(t, "alice", "bob"),
	}

	schedule, err := Assemble(req, &fixedAlgorithm{length: 4})
	require.NoError(t, err)
	require.Len(t, schedule.Turns, 3)
	assertCoverage(t, schedule, req.Start, req.End)
	assert.Equal(t, 2, schedule.Turns[2].Days())
}

func TestAssemble_SingleDayRange(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-01"),
		People: testPeople(t, "alice"),
	}

	schedule, err := Assemble(req, &fixedAlgorithm{length: 7})
	require.NoError(t, err)
	require.Len(t, schedule.Turns, 1)
	assert.Equal(t, 1, schedule.Turns[0].Days())
}

func TestAssemble_CommitsLoad(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-12"),
		People: testPeople(t, "alice", "bob", "carol"),
	}

	schedule, err := Assemble(req, &fixedAlgorithm{length: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, schedule.Load())
}

func TestAssemble_EmptyRoster(t *testing.T) {
	req := Request{
		Start: day(t, "2025-01-01"),
		End:   day(t, "2025-01-10"),
	}

	_, err := Assemble(req, &fixedAlgorithm{length: 4})
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestAssemble_EndBeforeStart(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-10"),
		End:    day(t, "2025-01-01"),
		People: testPeople(t, "alice"),
	}

	_, err := Assemble(req, &fixedAlgorithm{length: 4})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAssemble_InitialLoadLengthMismatch(t *testing.T) {
	req := Request{
		Start:       day(t, "2025-01-01"),
		End:         day(t, "2025-01-10"),
		People:      testPeople(t, "alice", "bob"),
		InitialLoad: []int{3},
	}

	_, err := Assemble(req, &fixedAlgorithm{length: 4})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAssemble_RejectsNonPositiveTurnLength(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-10"),
		People: testPeople(t, "alice"),
	}

	_, err := Assemble(req, &brokenAlgorithm{decision: Decision{Person: 0, Length: 0}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAssemble_RejectsUnknownPerson(t *testing.T) {
	req := Request{
		Start:  day(t, "2025-01-01"),
		End:    day(t, "2025-01-10"),
		People: testPeople(t, "alice"),
	}

	_, err := Assemble(req, &brokenAlgorithm{decision: Decision{Person: 5, Length: 2}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNoAvailablePersonError_Message(t *testing.T) {
	err := &NoAvailablePersonError{Start: day(t, "2025-01-03"), End: day(t, "2025-01-05")}
	assert.Equal(t, "no one is available between 2025-01-03 and 2025-01-05", err.Error())

	var target *NoAvailablePersonError
	assert.True(t, errors.As(error(err), &target))
}
