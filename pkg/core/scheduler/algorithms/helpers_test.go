package algorithms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/roster"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDay(s)
	require.NoError(t, err)
	return d
}

func buildPeople(t *testing.T, specs []roster.PersonSpec) []roster.Person {
	t.Helper()
	window := calendar.Interval{
		Start: day(t, "2025-01-01"),
		End:   day(t, "2025-12-31"),
	}
	people, err := roster.Build(specs, window)
	require.NoError(t, err)
	return people
}

func plainPeople(t *testing.T, ids ...string) []roster.Person {
	t.Helper()
	specs := make([]roster.PersonSpec, len(ids))
	for i, id := range ids {
		specs[i] = roster.PersonSpec{ID: id, Name: id}
	}
	return buildPeople(t, specs)
}
