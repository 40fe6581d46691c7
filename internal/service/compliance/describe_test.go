package compliance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
)

func TestCatalog_CoversEveryKind(t *testing.T) {
	for locale, msgs := range catalog {
		for _, kind := range alarm.AllKinds() {
			assert.Contains(t, msgs, kind, "locale %s lacks %s", locale, kind)
		}
	}
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleES, ParseLocale(" ES "))
	assert.Equal(t, LocaleEN, ParseLocale("en"))
	assert.Equal(t, LocaleEN, ParseLocale("fr"))
}

func TestDescribe_RoundsHours(t *testing.T) {
	got := LocaleEN.describe(alarm.KindWorkedVacation, facts{
		Date:  calendar.MustParseDate("2024-01-04"),
		Hours: 2.0 / 3.0,
	})

	assert.Equal(t, "Worked 0.67 h on 2024-01-04 during approved vacation", got)
}
