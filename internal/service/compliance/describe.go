package compliance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// Locale selects the language of alarm descriptions.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

// ParseLocale falls back to English for unknown values.
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleES:
		return LocaleES
	default:
		return LocaleEN
	}
}

// facts carries everything a description may mention.
type facts struct {
	Date      calendar.Date
	Hours     float64
	Scheduled float64
	Worked    float64
	Limit     float64
	Start     calendar.Clock
	End       calendar.Clock
	Year      int
}

var catalog = map[Locale]map[alarm.Kind]func(f facts) string{
	LocaleEN: {
		alarm.KindLateClockIn: func(f facts) string {
			return fmt.Sprintf("Late clock-in on %s: %s h after the scheduled start at %s", f.Date, hours(f.Hours), f.Start)
		},
		alarm.KindMissedClockIn: func(f facts) string {
			return fmt.Sprintf("No clock-in recorded on %s (scheduled %s-%s)", f.Date, f.Start, f.End)
		},
		alarm.KindMissedClockOut: func(f facts) string {
			return fmt.Sprintf("No clock-out recorded on %s (scheduled end %s)", f.Date, f.End)
		},
		alarm.KindOvertime: func(f facts) string {
			return fmt.Sprintf("Overtime on %s: worked %s h against %s h scheduled (+%s h)", f.Date, hours(f.Worked), hours(f.Scheduled), hours(f.Hours))
		},
		alarm.KindWorkShortfall: func(f facts) string {
			return fmt.Sprintf("Work shortfall on %s: worked %s h against %s h scheduled (-%s h)", f.Date, hours(f.Worked), hours(f.Scheduled), hours(f.Hours))
		},
		alarm.KindWorkedVacation: func(f facts) string {
			return fmt.Sprintf("Worked %s h on %s during approved vacation", hours(f.Hours), f.Date)
		},
		alarm.KindWeeklyLimitExceeded: func(f facts) string {
			return fmt.Sprintf("Week of %s: worked %s h, %s h over the %s h weekly limit", f.Date, hours(f.Worked), hours(f.Hours), hours(f.Limit))
		},
		alarm.KindAnnualLimitExceeded: func(f facts) string {
			return fmt.Sprintf("Year %d: worked %s h, %s h over the annual limit of %s h", f.Year, hours(f.Worked), hours(f.Hours), hours(f.Limit))
		},
	},
	LocaleES: {
		alarm.KindLateClockIn: func(f facts) string {
			return fmt.Sprintf("Entrada tardía el %s: %s h después del inicio previsto a las %s", f.Date, hours(f.Hours), f.Start)
		},
		alarm.KindMissedClockIn: func(f facts) string {
			return fmt.Sprintf("Sin fichaje de entrada el %s (horario %s-%s)", f.Date, f.Start, f.End)
		},
		alarm.KindMissedClockOut: func(f facts) string {
			return fmt.Sprintf("Sin fichaje de salida el %s (fin previsto %s)", f.Date, f.End)
		},
		alarm.KindOvertime: func(f facts) string {
			return fmt.Sprintf("Horas extra el %s: %s h trabajadas frente a %s h previstas (+%s h)", f.Date, hours(f.Worked), hours(f.Scheduled), hours(f.Hours))
		},
		alarm.KindWorkShortfall: func(f facts) string {
			return fmt.Sprintf("Jornada incompleta el %s: %s h trabajadas frente a %s h previstas (-%s h)", f.Date, hours(f.Worked), hours(f.Scheduled), hours(f.Hours))
		},
		alarm.KindWorkedVacation: func(f facts) string {
			return fmt.Sprintf("%s h trabajadas el %s durante vacaciones aprobadas", hours(f.Hours), f.Date)
		},
		alarm.KindWeeklyLimitExceeded: func(f facts) string {
			return fmt.Sprintf("Semana del %s: %s h trabajadas, %s h por encima del límite semanal de %s h", f.Date, hours(f.Worked), hours(f.Hours), hours(f.Limit))
		},
		alarm.KindAnnualLimitExceeded: func(f facts) string {
			return fmt.Sprintf("Año %d: %s h trabajadas, %s h por encima del límite anual de %s h", f.Year, hours(f.Worked), hours(f.Hours), hours(f.Limit))
		},
	},
}

func (l Locale) describe(kind alarm.Kind, f facts) string {
	msgs, ok := catalog[l]
	if !ok {
		msgs = catalog[LocaleEN]
	}
	if fn, ok := msgs[kind]; ok {
		return fn(f)
	}
	return fmt.Sprintf("%s on %s", kind, f.Date)
}

// hours renders h with two decimals.
func hours(h float64) string {
	return decimal.NewFromFloat(h).StringFixed(2)
}
