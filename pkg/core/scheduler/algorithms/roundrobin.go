package algorithms

import (
	"fmt"
	"time"

	"github.com/jakechorley/turns/pkg/core/scheduler"
)

// RoundRobin assigns fixed-length turns in strict roster order. It is the
// simplest and most predictable algorithm: the rotation advances
// unconditionally, so out-of-office entries and preferences are ignored.
type RoundRobin struct {
	turnLength int
	next       int
}

// NewRoundRobin creates a RoundRobin algorithm with the given turn length in days
func NewRoundRobin(turnLengthDays int) (*RoundRobin, error) {
	if turnLengthDays < 1 {
		return nil, fmt.Errorf("%w: turn length must be positive, got %d",
			scheduler.ErrInvalidConfig, turnLengthDays)
	}
	return &RoundRobin{turnLength: turnLengthDays}, nil
}

func (rr *RoundRobin) Name() string {
	return "roundRobin"
}

func (rr *RoundRobin) NextTurn(req *scheduler.Request, cursor time.Time, load *scheduler.LoadTracker) (scheduler.Decision, error) {
	person := rr.next
	rr.next = (rr.next + 1) % len(req.People)
	return scheduler.Decision{Person: person, Length: rr.turnLength}, nil
}
