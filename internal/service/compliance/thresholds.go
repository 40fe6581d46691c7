package compliance

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds holds the tolerances of every rule. All comparisons against them
// are strict.
type Thresholds struct {
	LateGrace           time.Duration `yaml:"late_grace"`
	MissedClockOutGrace time.Duration `yaml:"missed_clock_out_grace"`
	OvertimeTolerance   time.Duration `yaml:"overtime_tolerance"`
	ShortfallTolerance  time.Duration `yaml:"shortfall_tolerance"`
	WeeklyLimitHours    float64       `yaml:"weekly_limit_hours"`
	WeeksPerYear        int           `yaml:"weeks_per_year"`
	NightStartHour      int           `yaml:"night_start_hour"`
	NightEndHour        int           `yaml:"night_end_hour"`
}

// DefaultThresholds returns the statutory defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LateGrace:           15 * time.Minute,
		MissedClockOutGrace: 60 * time.Minute,
		OvertimeTolerance:   30 * time.Minute,
		ShortfallTolerance:  30 * time.Minute,
		WeeklyLimitHours:    45,
		WeeksPerYear:        52,
		NightStartHour:      DefaultNightWindow.StartHour,
		NightEndHour:        DefaultNightWindow.EndHour,
	}
}

// LoadThresholds reads a YAML rules file. Keys missing from the file keep
// their defaults; an empty path returns the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := t.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return t, nil
}

// Validate rejects negative tolerances and non-positive limits.
func (t Thresholds) Validate() error {
	var errs []error

	if t.LateGrace < 0 {
		errs = append(errs, errors.New("late_grace must not be negative"))
	}
	if t.MissedClockOutGrace < 0 {
		errs = append(errs, errors.New("missed_clock_out_grace must not be negative"))
	}
	if t.OvertimeTolerance < 0 {
		errs = append(errs, errors.New("overtime_tolerance must not be negative"))
	}
	if t.ShortfallTolerance < 0 {
		errs = append(errs, errors.New("shortfall_tolerance must not be negative"))
	}
	if t.WeeklyLimitHours <= 0 {
		errs = append(errs, errors.New("weekly_limit_hours must be positive"))
	}
	if t.WeeksPerYear <= 0 || t.WeeksPerYear > 53 {
		errs = append(errs, errors.New("weeks_per_year must be between 1 and 53"))
	}
	if t.NightStartHour < 0 || t.NightStartHour > 23 {
		errs = append(errs, errors.New("night_start_hour must be between 0 and 23"))
	}
	if t.NightEndHour < 0 || t.NightEndHour > 23 {
		errs = append(errs, errors.New("night_end_hour must be between 0 and 23"))
	}
	if t.NightEndHour >= t.NightStartHour {
		errs = append(errs, errors.New("night window must cross midnight"))
	}

	return errors.Join(errs...)
}

// Night returns the configured night window.
func (t Thresholds) Night() NightWindow {
	return NightWindow{StartHour: t.NightStartHour, EndHour: t.NightEndHour}
}
