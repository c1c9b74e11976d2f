package scheduler

import (
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/roster"
)

// Turn is a contiguous on-call assignment. Start and End are both inclusive.
type Turn struct {
	// Person is the stable roster index of the assignee
	Person int

	Start time.Time
	End   time.Time
}

// Days returns the number of on-call days in the turn
func (t Turn) Days() int {
	return calendar.DaysInclusive(t.Start, t.End)
}

// Schedule is the ordered sequence of turns covering the requested range
// with no gaps and no overlaps
type Schedule struct {
	People []roster.Person
	Turns  []Turn
}

// Load returns the cumulative on-call days per person index
func (s *Schedule) Load() []int {
	load := make([]int, len(s.People))
	for _, turn := range s.Turns {
		load[turn.Person] += turn.Days()
	}
	return load
}

// Request describes one scheduling run over an inclusive date range
type Request struct {
	Start  time.Time
	End    time.Time
	People []roster.Person

	// InitialLoad optionally seeds each person's cumulative day count, e.g.
	// from previously published schedules, so fairness carries across runs.
	// When set it must have one entry per person.
	InitialLoad []int
}

// Decision is an algorithm's choice for the next turn: who takes it and for
// how many days. The assembler clips the length so the turn never runs past
// the end of the requested range.
type Decision struct {
	Person int
	Length int
}

// Algorithm produces per-turn decisions for the assembler. Implementations
// read the load tracker but never mutate it; the assembler commits each
// decision after it is finalized.
type Algorithm interface {
	// Name identifies the algorithm in logs and persisted runs
	Name() string

	// NextTurn decides the turn starting at cursor. It returns
	// *NoAvailablePersonError if no viable assignment exists.
	NextTurn(req *Request, cursor time.Time, load *LoadTracker) (Decision, error)
}
