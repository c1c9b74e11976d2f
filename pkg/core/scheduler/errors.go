package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/turns/pkg/core/calendar"
)

var (
	// ErrEmptyRoster is returned when a schedule is requested with no people
	ErrEmptyRoster = errors.New("no people on the roster")

	// ErrInvalidConfig is returned when algorithm parameters violate their
	// constraints. Configuration is validated upstream, so hitting this
	// indicates a programming error in the caller.
	ErrInvalidConfig = errors.New("invalid scheduling parameters")
)

// NoAvailablePersonError is returned when every person is unavailable for
// every viable turn at some point in the run. The run is abandoned; no
// partial schedule is produced.
type NoAvailablePersonError struct {
	Start time.Time
	End   time.Time
}

func (e *NoAvailablePersonError) Error() string {
	return fmt.Sprintf("no one is available between %s and %s",
		e.Start.Format(calendar.DateLayout),
		e.End.Format(calendar.DateLayout))
}
