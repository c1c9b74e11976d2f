package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/turns/pkg/core/calendar"
	"github.com/jakechorley/turns/pkg/core/roster"
)

// OOOEntry is one out-of-office entry in configuration. Exactly one form must
// be set: a single day, a from/to period, or a recurrence rule.
type OOOEntry struct {
	Day   string `yaml:"day,omitempty" validate:"omitempty,datetime=2006-01-02"`
	From  string `yaml:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To    string `yaml:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RRule string `yaml:"rrule,omitempty"`
}

// PersonConfig describes one person on the roster
type PersonConfig struct {
	Name       string     `yaml:"name" validate:"required"`
	CalendarID string     `yaml:"calendarID,omitempty"`
	OOO        []OOOEntry `yaml:"ooo,omitempty" validate:"dive"`
	Want       []string   `yaml:"want,omitempty" validate:"dive,datetime=2006-01-02"`
	NotWant    []string   `yaml:"notWant,omitempty" validate:"dive,datetime=2006-01-02"`
}

// RoundRobinConfig parameterizes the round-robin algorithm
type RoundRobinConfig struct {
	TurnLengthDays int `yaml:"turnLengthDays" validate:"required,min=1"`
}

// GreedyConfig parameterizes the greedy algorithm
type GreedyConfig struct {
	TurnLengthDays   int     `yaml:"turnLengthDays" validate:"required,min=1"`
	PreferenceWeight float64 `yaml:"preferenceWeight" validate:"min=0"`
}

// BalancedConfig parameterizes the balanced algorithm
type BalancedConfig struct {
	MinTurnDays int `yaml:"minTurnDays" validate:"required,min=1"`
	MaxTurnDays int `yaml:"maxTurnDays" validate:"required,min=1"`
}

// AlgoConfig selects the scheduling algorithm. Exactly one variant must be set.
type AlgoConfig struct {
	RoundRobin *RoundRobinConfig `yaml:"roundRobin,omitempty"`
	Greedy     *GreedyConfig     `yaml:"greedy,omitempty"`
	Balanced   *BalancedConfig   `yaml:"balanced,omitempty"`
}

// ScheduleConfig describes the date range and algorithm for a run
type ScheduleConfig struct {
	From string     `yaml:"from" validate:"required,datetime=2006-01-02"`
	To   string     `yaml:"to" validate:"required,datetime=2006-01-02"`
	Algo AlgoConfig `yaml:"algo"`
}

// DatabaseConfig holds the optional schedule-history database settings
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	People   map[string]PersonConfig `yaml:"people" validate:"required,min=1,dive"`
	Schedule ScheduleConfig          `yaml:"schedule"`
	Database *DatabaseConfig         `yaml:"database,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from turns.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and its cross-field constraints
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	from, err := calendar.ParseDay(cfg.Schedule.From)
	if err != nil {
		return err
	}
	to, err := calendar.ParseDay(cfg.Schedule.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("schedule ends %s before it starts %s", cfg.Schedule.To, cfg.Schedule.From)
	}

	if err := validateAlgo(&cfg.Schedule.Algo); err != nil {
		return err
	}

	for id, person := range cfg.People {
		for i, entry := range person.OOO {
			if err := validateOOOEntry(&entry); err != nil {
				return fmt.Errorf("people.%s.ooo[%d]: %w", id, i, err)
			}
		}
	}

	return nil
}

// validateAlgo checks that exactly one algorithm variant is configured and
// that its parameters satisfy their cross-field constraints
func validateAlgo(algo *AlgoConfig) error {
	set := 0
	if algo.RoundRobin != nil {
		set++
	}
	if algo.Greedy != nil {
		set++
	}
	if algo.Balanced != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("schedule.algo must set exactly one of roundRobin, greedy, balanced (got %d)", set)
	}

	if algo.Balanced != nil && algo.Balanced.MaxTurnDays < algo.Balanced.MinTurnDays {
		return fmt.Errorf("schedule.algo.balanced: maxTurnDays %d below minTurnDays %d",
			algo.Balanced.MaxTurnDays, algo.Balanced.MinTurnDays)
	}

	return nil
}

// validateOOOEntry checks that exactly one out-of-office form is set and that
// periods and rrules are well formed
func validateOOOEntry(entry *OOOEntry) error {
	forms := 0
	if entry.Day != "" {
		forms++
	}
	if entry.From != "" || entry.To != "" {
		if entry.From == "" || entry.To == "" {
			return fmt.Errorf("period entries need both from and to")
		}
		forms++
	}
	if entry.RRule != "" {
		forms++
	}
	if forms != 1 {
		return fmt.Errorf("entry must set exactly one of day, from/to, rrule (got %d)", forms)
	}

	if entry.From != "" {
		from, err := calendar.ParseDay(entry.From)
		if err != nil {
			return err
		}
		to, err := calendar.ParseDay(entry.To)
		if err != nil {
			return err
		}
		if to.Before(from) {
			return fmt.Errorf("period ends %s before it starts %s", entry.To, entry.From)
		}
	}

	if entry.RRule != "" {
		if _, err := rrule.StrToROption(entry.RRule); err != nil {
			return fmt.Errorf("invalid rrule %q: %w", entry.RRule, err)
		}
	}

	return nil
}

// Window returns the schedule date range as a calendar interval
func (c *Config) Window() (calendar.Interval, error) {
	from, err := calendar.ParseDay(c.Schedule.From)
	if err != nil {
		return calendar.Interval{}, err
	}
	to, err := calendar.ParseDay(c.Schedule.To)
	if err != nil {
		return calendar.Interval{}, err
	}
	return calendar.Interval{Start: from, End: to}, nil
}

// PersonSpecs converts the configured people into roster specs in ascending
// ID order, so person indices are deterministic across runs
func (c *Config) PersonSpecs() ([]roster.PersonSpec, error) {
	ids := make([]string, 0, len(c.People))
	for id := range c.People {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	specs := make([]roster.PersonSpec, 0, len(ids))
	for _, id := range ids {
		person := c.People[id]

		spec := roster.PersonSpec{ID: id, Name: person.Name}

		for _, entry := range person.OOO {
			switch {
			case entry.Day != "":
				d, err := calendar.ParseDay(entry.Day)
				if err != nil {
					return nil, fmt.Errorf("people.%s: %w", id, err)
				}
				spec.OutOfOffice = append(spec.OutOfOffice, roster.OutOfOffice{Day: &d})

			case entry.From != "":
				from, err := calendar.ParseDay(entry.From)
				if err != nil {
					return nil, fmt.Errorf("people.%s: %w", id, err)
				}
				to, err := calendar.ParseDay(entry.To)
				if err != nil {
					return nil, fmt.Errorf("people.%s: %w", id, err)
				}
				spec.OutOfOffice = append(spec.OutOfOffice, roster.OutOfOffice{
					Period: &calendar.Interval{Start: from, End: to},
				})

			case entry.RRule != "":
				spec.OutOfOffice = append(spec.OutOfOffice, roster.OutOfOffice{RRule: entry.RRule})
			}
		}

		for _, s := range person.Want {
			d, err := calendar.ParseDay(s)
			if err != nil {
				return nil, fmt.Errorf("people.%s: %w", id, err)
			}
			spec.Want = append(spec.Want, d)
		}
		for _, s := range person.NotWant {
			d, err := calendar.ParseDay(s)
			if err != nil {
				return nil, fmt.Errorf("people.%s: %w", id, err)
			}
			spec.NotWant = append(spec.NotWant, d)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// findConfigFile searches for turns.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "turns.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
