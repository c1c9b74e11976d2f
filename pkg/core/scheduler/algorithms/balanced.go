package algorithms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/scheduler"
)

// lookaheadTurns is the number of future turns simulated when evaluating a
// candidate assignment far from the end of the range. Each simulated turn is
// chosen greedily, so the search cost stays a small constant factor per
// decision instead of growing with the remaining range.
const lookaheadTurns = 2

// exhaustiveHorizonDays is the tail length below which candidates are scored
// by walking every remaining turn exactly instead of stepping greedily. The
// greedy horizon can rate a short prefix as balanced because the simulation
// ends with loads momentarily level, hiding the uneven tail the prefix
// forces; the exact tail search closes that blind spot where it matters,
// near the end of the range.
const exhaustiveHorizonDays = 16

// Balanced chooses both a turn length and an assignee at each step, picking
// the pair whose simulated lookahead horizon ends with the smallest load
// spread across the roster. Turn lengths vary within [minTurnDays,
// maxTurnDays]; only the final turn may be shorter, to land exactly on the
// end date.
type Balanced struct {
	minTurn int
	maxTurn int
}

// NewBalanced creates a Balanced algorithm with the given turn length bounds in days
func NewBalanced(minTurnDays, maxTurnDays int) (*Balanced, error) {
	if minTurnDays < 1 {
		return nil, fmt.Errorf("%w: minimum turn length must be positive, got %d",
			scheduler.ErrInvalidConfig, minTurnDays)
	}
	if maxTurnDays < minTurnDays {
		return nil, fmt.Errorf("%w: maximum turn length %d below minimum %d",
			scheduler.ErrInvalidConfig, maxTurnDays, minTurnDays)
	}
	return &Balanced{minTurn: minTurnDays, maxTurn: maxTurnDays}, nil
}

func (b *Balanced) Name() string {
	return "balanced"
}

func (b *Balanced) NextTurn(req *scheduler.Request, cursor time.Time, load *scheduler.LoadTracker) (scheduler.Decision, error) {
	remaining := calendar.DaysInclusive(cursor, req.End)

	best := scheduler.Decision{Person: -1}
	var bestCost horizonCost

	var memo map[string]tailResult
	if remaining <= exhaustiveHorizonDays {
		memo = make(map[string]tailResult)
	}

	// Candidates are evaluated in ascending length then ascending roster
	// order; ties keep the first candidate, so runs are reproducible.
	for _, length := range b.candidateLengths(remaining) {
		turnEnd := calendar.AddDays(cursor, length-1)

		for i := range req.People {
			if !req.People[i].IsAvailableRange(cursor, turnEnd) {
				continue
			}

			sim := load.Clone()
			sim.Record(i, length)

			var cost horizonCost
			if memo != nil {
				tail := b.exactTail(req, calendar.NextDay(turnEnd), sim, memo)
				if !tail.feasible {
					continue
				}
				cost = tail.cost
			} else {
				cost = b.runHorizon(req, calendar.NextDay(turnEnd), sim)
			}

			if best.Person == -1 || cost.less(bestCost) {
				best = scheduler.Decision{Person: i, Length: length}
				bestCost = cost
			}
		}
	}

	if best.Person == -1 {
		windowEnd := calendar.AddDays(cursor, b.minTurn-1)
		if windowEnd.After(req.End) {
			windowEnd = calendar.Day(req.End)
		}
		return scheduler.Decision{}, &scheduler.NoAvailablePersonError{Start: cursor, End: windowEnd}
	}

	return best, nil
}

// candidateLengths enumerates viable turn lengths at a cursor with the given
// number of days remaining. When fewer than minTurn days remain the only
// candidate is the exact remainder, the one sanctioned exception to the
// min/max bound.
func (b *Balanced) candidateLengths(remaining int) []int {
	if remaining < b.minTurn {
		return []int{remaining}
	}

	longest := min(b.maxTurn, remaining)
	lengths := make([]int, 0, longest-b.minTurn+1)
	for l := b.minTurn; l <= longest; l++ {
		lengths = append(lengths, l)
	}
	return lengths
}

// runHorizon simulates up to lookaheadTurns further turns from cursor, each
// chosen as the locally best (length, person) pair, and returns the cost of
// the resulting hypothetical load. A horizon step with no eligible candidate
// ends the simulation early rather than failing; only the real decision point
// reports exhaustion.
func (b *Balanced) runHorizon(req *scheduler.Request, cursor time.Time, sim *scheduler.LoadTracker) horizonCost {
	for step := 0; step < lookaheadTurns && !cursor.After(req.End); step++ {
		remaining := calendar.DaysInclusive(cursor, req.End)

		bestPerson, bestLength := -1, 0
		var bestStep horizonCost

		for _, length := range b.candidateLengths(remaining) {
			turnEnd := calendar.AddDays(cursor, length-1)

			for i := range req.People {
				if !req.People[i].IsAvailableRange(cursor, turnEnd) {
					continue
				}

				cost := horizonCost{
					spread:  sim.Imbalance(map[int]int{i: length}),
					maxLoad: max(sim.Max(), sim.Total(i)+length),
				}
				if bestPerson == -1 || cost.less(bestStep) {
					bestPerson, bestLength = i, length
					bestStep = cost
				}
			}
		}

		if bestPerson == -1 {
			break
		}

		sim.Record(bestPerson, bestLength)
		cursor = calendar.AddDays(cursor, bestLength)
	}

	return horizonCost{spread: sim.Spread(), maxLoad: sim.Max()}
}

// tailResult caches the best achievable cost from a simulated state, or marks
// the state as a dead end with no way to cover the remaining days.
type tailResult struct {
	cost     horizonCost
	feasible bool
}

// exactTail walks every (length, person) continuation from cursor to the end
// of the range and returns the best achievable cost. States are memoized on
// (remaining days, load totals), so the walk stays cheap even when short turn
// lengths allow many orderings of the same assignments.
func (b *Balanced) exactTail(req *scheduler.Request, cursor time.Time, sim *scheduler.LoadTracker, memo map[string]tailResult) tailResult {
	if cursor.After(req.End) {
		return tailResult{cost: horizonCost{spread: sim.Spread(), maxLoad: sim.Max()}, feasible: true}
	}

	remaining := calendar.DaysInclusive(cursor, req.End)
	key := tailKey(remaining, sim)
	if cached, ok := memo[key]; ok {
		return cached
	}

	var best tailResult
	for _, length := range b.candidateLengths(remaining) {
		turnEnd := calendar.AddDays(cursor, length-1)

		for i := range req.People {
			if !req.People[i].IsAvailableRange(cursor, turnEnd) {
				continue
			}

			next := sim.Clone()
			next.Record(i, length)
			tail := b.exactTail(req, calendar.NextDay(turnEnd), next, memo)
			if !tail.feasible {
				continue
			}
			if !best.feasible || tail.cost.less(best.cost) {
				best = tail
			}
		}
	}

	memo[key] = best
	return best
}

func tailKey(remaining int, load *scheduler.LoadTracker) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(remaining))
	for _, total := range load.Totals() {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(total))
	}
	return sb.String()
}

// horizonCost ranks simulated outcomes: primarily by load spread, then by the
// single largest individual load so no one person absorbs disproportionate
// duty when spreads tie.
type horizonCost struct {
	spread  int
	maxLoad int
}

func (c horizonCost) less(o horizonCost) bool {
	if c.spread != o.spread {
		return c.spread < o.spread
	}
	return c.maxLoad < o.maxLoad
}
