package scheduler

import (
	"fmt"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

// Assemble walks the requested date range turn by turn, asking the algorithm
// for each decision and committing it to the schedule. Turns are contiguous
// and the final turn is clipped to land exactly on the end date. Any failure
// abandons the whole run; no partial schedule is returned.
func Assemble(req Request, algo Algorithm) (*Schedule, error) {
	if len(req.People) == 0 {
		return nil, ErrEmptyRoster
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s",
			ErrInvalidConfig,
			req.End.Format(calendar.DateLayout),
			req.Start.Format(calendar.DateLayout))
	}
	if req.InitialLoad != nil && len(req.InitialLoad) != len(req.People) {
		return nil, fmt.Errorf("%w: initial load has %d entries for %d people",
			ErrInvalidConfig, len(req.InitialLoad), len(req.People))
	}

	load := NewLoadTracker(len(req.People))
	for person, days := range req.InitialLoad {
		load.Record(person, days)
	}

	schedule := &Schedule{People: req.People}
	cursor := calendar.Day(req.Start)
	end := calendar.Day(req.End)

	for !cursor.After(end) {
		decision, err := algo.NextTurn(&req, cursor, load)
		if err != nil {
			return nil, err
		}
		if decision.Length < 1 {
			return nil, fmt.Errorf("%w: algorithm %s proposed a %d-day turn",
				ErrInvalidConfig, algo.Name(), decision.Length)
		}
		if decision.Person < 0 || decision.Person >= len(req.People) {
			return nil, fmt.Errorf("%w: algorithm %s assigned unknown person %d",
				ErrInvalidConfig, algo.Name(), decision.Person)
		}

		turnEnd := calendar.AddDays(cursor, decision.Length-1)
		if turnEnd.After(end) {
			turnEnd = end
		}

		turn := Turn{Person: decision.Person, Start: cursor, End: turnEnd}
		schedule.Turns = append(schedule.Turns, turn)
		load.Record(turn.Person, turn.Days())
		cursor = calendar.NextDay(turnEnd)
	}

	return schedule, nil
}
