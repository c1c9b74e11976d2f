package roster

import (
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

// PreferenceScore returns the person's signed preference for the given day:
// +1 for each matching Want entry, -1 for each matching NotWant entry.
// A day listed under both sums to 0 rather than being rejected.
func (p *Person) PreferenceScore(d time.Time) int {
	day := calendar.Day(d)
	score := 0
	for _, w := range p.want {
		if w.Equal(day) {
			score++
		}
	}
	for _, nw := range p.notWant {
		if nw.Equal(day) {
			score--
		}
	}
	return score
}

// PreferenceScoreRange sums PreferenceScore over every day of the inclusive
// range [start, end]
func (p *Person) PreferenceScoreRange(start, end time.Time) int {
	score := 0
	for d := calendar.Day(start); !d.After(calendar.Day(end)); d = calendar.NextDay(d) {
		score += p.PreferenceScore(d)
	}
	return score
}
