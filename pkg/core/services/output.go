package services

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/scheduler"
)

// yamlTurn is the YAML rendering of one turn
type yamlTurn struct {
	Person string `yaml:"person"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
}

// yamlSchedule is the YAML rendering of a full schedule
type yamlSchedule struct {
	Schedule []yamlTurn `yaml:"schedule"`
}

// MarshalScheduleYAML renders the schedule as YAML keyed by person ID
func MarshalScheduleYAML(s *scheduler.Schedule) ([]byte, error) {
	out := yamlSchedule{Schedule: make([]yamlTurn, len(s.Turns))}
	for i, turn := range s.Turns {
		out.Schedule[i] = yamlTurn{
			Person: s.People[turn.Person].ID,
			Start:  turn.Start.Format(calendar.DateLayout),
			End:    turn.End.Format(calendar.DateLayout),
		}
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}
	return data, nil
}

// FormatSchedule renders the schedule as a human-readable table followed by a
// per-person load summary
func FormatSchedule(s *scheduler.Schedule) string {
	var b strings.Builder

	for _, turn := range s.Turns {
		fmt.Fprintf(&b, "%s\t%s - %s (%d days)\n",
			s.People[turn.Person].Name,
			turn.Start.Format(calendar.DateLayout),
			turn.End.Format(calendar.DateLayout),
			turn.Days())
	}

	b.WriteString("\nLoad summary:\n")
	load := s.Load()
	for i, person := range s.People {
		fmt.Fprintf(&b, "%s: %d days\n", person.Name, load[i])
	}

	return b.String()
}
