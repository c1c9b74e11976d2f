package scheduler

// LoadTracker maintains cumulative assigned on-call days per person over one
// scheduling run. It is owned by the assembler; algorithms read totals and
// simulate against copies but never mutate the tracker directly.
type LoadTracker struct {
	days []int
}

// NewLoadTracker creates a tracker for n people with all totals at zero
func NewLoadTracker(n int) *LoadTracker {
	return &LoadTracker{days: make([]int, n)}
}

// Record adds days to the person's cumulative total
func (lt *LoadTracker) Record(person, days int) {
	lt.days[person] += days
}

// Total returns the person's cumulative assigned days
func (lt *LoadTracker) Total(person int) int {
	return lt.days[person]
}

// Max returns the largest individual cumulative total
func (lt *LoadTracker) Max() int {
	most := 0
	for _, d := range lt.days {
		if d > most {
			most = d
		}
	}
	return most
}

// Spread returns the difference between the largest and smallest cumulative
// totals, the measure of load imbalance
func (lt *LoadTracker) Spread() int {
	if len(lt.days) == 0 {
		return 0
	}
	least, most := lt.days[0], lt.days[0]
	for _, d := range lt.days[1:] {
		if d < least {
			least = d
		}
		if d > most {
			most = d
		}
	}
	return most - least
}

// Totals returns a copy of every person's cumulative total, indexed by person
func (lt *LoadTracker) Totals() []int {
	totals := make([]int, len(lt.days))
	copy(totals, lt.days)
	return totals
}

// Imbalance returns the spread that would result from hypothetically adding
// the given per-person day counts, without mutating the tracker
func (lt *LoadTracker) Imbalance(additions map[int]int) int {
	sim := lt.Clone()
	for person, days := range additions {
		sim.Record(person, days)
	}
	return sim.Spread()
}

// Clone returns an independent copy for simulation
func (lt *LoadTracker) Clone() *LoadTracker {
	days := make([]int, len(lt.days))
	copy(days, lt.days)
	return &LoadTracker{days: days}
}
