package roster

import (
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

// IsAvailable reports whether the person is free on the given day
func (p *Person) IsAvailable(d time.Time) bool {
	return !p.unavailable[calendar.Day(d)]
}

// IsAvailableRange reports whether the person is free on every day of the
// inclusive range [start, end]
func (p *Person) IsAvailableRange(start, end time.Time) bool {
	for d := calendar.Day(start); !d.After(calendar.Day(end)); d = calendar.NextDay(d) {
		if p.unavailable[d] {
			return false
		}
	}
	return true
}
