package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/turns/pkg/core/roster"
	"github.com/jakechorley/turns/pkg/core/scheduler"
)

func sampleSchedule(t *testing.T) *scheduler.Schedule {
	t.Helper()
	return &scheduler.Schedule{
		People: []roster.Person{
			{Index: 0, ID: "alice", Name: "Alice"},
			{Index: 1, ID: "bob", Name: "Bob"},
		},
		Turns: []scheduler.Turn{
			{Person: 0, Start: day(t, "2025-01-01"), End: day(t, "2025-01-03")},
			{Person: 1, Start: day(t, "2025-01-04"), End: day(t, "2025-01-05")},
		},
	}
}

func TestFormatScheduleListsTurnsAndLoad(t *testing.T) {
	out := FormatSchedule(sampleSchedule(t))

	assert.Contains(t, out, "Alice\t2025-01-01 - 2025-01-03 (3 days)")
	assert.Contains(t, out, "Bob\t2025-01-04 - 2025-01-05 (2 days)")
	assert.Contains(t, out, "Load summary:")
	assert.Contains(t, out, "Alice: 3 days")
	assert.Contains(t, out, "Bob: 2 days")
}

func TestMarshalScheduleYAMLUsesPersonIDs(t *testing.T) {
	data, err := MarshalScheduleYAML(sampleSchedule(t))

	require.NoError(t, err)
	expected := `schedule:
    - person: alice
      start: "2025-01-01"
      end: "2025-01-03"
    - person: bob
      start: "2025-01-04"
      end: "2025-01-05"
`
	assert.Equal(t, expected, string(data))
}
