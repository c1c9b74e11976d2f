package roster

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

// OutOfOffice is one unavailability entry for a person. Exactly one of the
// three forms is set:
//   - Day: a single unavailable day
//   - Period: an inclusive range of unavailable days
//   - RRule: a recurrence rule (e.g. "FREQ=WEEKLY;BYDAY=FR") expanded over
//     the scheduling window
type OutOfOffice struct {
	Day    *time.Time
	Period *calendar.Interval
	RRule  string
}

// PersonSpec is the validated input describing one person on the roster
type PersonSpec struct {
	// ID is the stable identifier from configuration (e.g. the YAML map key)
	ID string

	// Name is the display name
	Name string

	// OutOfOffice entries marking unavailable days
	OutOfOffice []OutOfOffice

	// Want and NotWant are dates the person prefers to be (or not be) on call.
	// Duplicate entries are tolerated and each contributes to the score.
	Want    []time.Time
	NotWant []time.Time
}

// Person is a roster member with unavailability expanded to individual days.
// Immutable for the duration of a scheduling run.
type Person struct {
	// Index is the stable key used by schedules and tie-breaking.
	// Persons are indexed in ascending ID order.
	Index int

	ID   string
	Name string

	unavailable map[time.Time]bool
	want        []time.Time
	notWant     []time.Time
}

// Build expands PersonSpecs into roster Persons, resolving Period and RRule
// out-of-office entries into per-day unavailability over the given window.
// Specs must already be in a deterministic order; their position becomes the
// person's stable index.
func Build(specs []PersonSpec, window calendar.Interval) ([]Person, error) {
	people := make([]Person, 0, len(specs))

	for i, spec := range specs {
		unavailable := make(map[time.Time]bool)

		for _, entry := range spec.OutOfOffice {
			switch {
			case entry.Day != nil:
				unavailable[calendar.Day(*entry.Day)] = true

			case entry.Period != nil:
				if entry.Period.End.Before(entry.Period.Start) {
					return nil, fmt.Errorf("person %s: out-of-office period ends %s before it starts %s",
						spec.ID,
						entry.Period.End.Format(calendar.DateLayout),
						entry.Period.Start.Format(calendar.DateLayout))
				}
				for _, d := range entry.Period.Days() {
					unavailable[d] = true
				}

			case entry.RRule != "":
				days, err := expandRRule(entry.RRule, window)
				if err != nil {
					return nil, fmt.Errorf("person %s: %w", spec.ID, err)
				}
				for _, d := range days {
					unavailable[d] = true
				}

			default:
				return nil, fmt.Errorf("person %s: empty out-of-office entry", spec.ID)
			}
		}

		people = append(people, Person{
			Index:       i,
			ID:          spec.ID,
			Name:        spec.Name,
			unavailable: unavailable,
			want:        normalizeDays(spec.Want),
			notWant:     normalizeDays(spec.NotWant),
		})
	}

	return people, nil
}

// expandRRule evaluates a recurrence rule over the scheduling window and
// returns the matching days. The rule is anchored at the window start so
// rules without an explicit DTSTART behave predictably.
func expandRRule(rule string, window calendar.Interval) ([]time.Time, error) {
	opts, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	if opts.Dtstart.IsZero() {
		opts.Dtstart = calendar.Day(window.Start)
	}

	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}

	var days []time.Time
	for _, occ := range r.Between(calendar.Day(window.Start), calendar.Day(window.End), true) {
		days = append(days, calendar.Day(occ))
	}
	return days, nil
}

func normalizeDays(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}
	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = calendar.Day(d)
	}
	return days
}
