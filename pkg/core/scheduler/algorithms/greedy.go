package algorithms

import (
	"fmt"
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/scheduler"
)

// Greedy assigns fixed-length turns by picking, at each step, the available
// person with the best score: preference weight times the summed Want/NotWant
// preferences over the turn window, minus the person's current load. It never
// backtracks, so a locally good pick can leave a later turn without any
// candidate, which fails the whole run.
type Greedy struct {
	turnLength       int
	preferenceWeight float64
}

// NewGreedy creates a Greedy algorithm with the given turn length in days and
// preference weight
func NewGreedy(turnLengthDays int, preferenceWeight float64) (*Greedy, error) {
	if turnLengthDays < 1 {
		return nil, fmt.Errorf("%w: turn length must be positive, got %d",
			scheduler.ErrInvalidConfig, turnLengthDays)
	}
	if preferenceWeight < 0 {
		return nil, fmt.Errorf("%w: preference weight must not be negative, got %g",
			scheduler.ErrInvalidConfig, preferenceWeight)
	}
	return &Greedy{turnLength: turnLengthDays, preferenceWeight: preferenceWeight}, nil
}

func (g *Greedy) Name() string {
	return "greedy"
}

func (g *Greedy) NextTurn(req *scheduler.Request, cursor time.Time, load *scheduler.LoadTracker) (scheduler.Decision, error) {
	turnEnd := calendar.AddDays(cursor, g.turnLength-1)
	if turnEnd.After(req.End) {
		turnEnd = calendar.Day(req.End)
	}

	best := -1
	var bestScore float64

	for i := range req.People {
		person := &req.People[i]
		if !person.IsAvailableRange(cursor, turnEnd) {
			continue
		}

		score := g.preferenceWeight*float64(person.PreferenceScoreRange(cursor, turnEnd)) -
			float64(load.Total(i))

		// Ties keep the earlier roster index for reproducible output
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best == -1 {
		return scheduler.Decision{}, &scheduler.NoAvailablePersonError{Start: cursor, End: turnEnd}
	}

	return scheduler.Decision{Person: best, Length: g.turnLength}, nil
}
