package compliance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadThresholds_EmptyPathGivesDefaults(t *testing.T) {
	th, err := LoadThresholds("")
	require.NoError(t, err)
	assert.Equal(t, DefaultThresholds(), th)
}

func TestLoadThresholds_PartialOverride(t *testing.T) {
	path := writeRules(t, `
late_grace: 10m
weekly_limit_hours: 40
night_start_hour: 21
`)

	th, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, th.LateGrace)
	assert.Equal(t, 40.0, th.WeeklyLimitHours)
	assert.Equal(t, NightWindow{StartHour: 21, EndHour: 6}, th.Night())
	assert.Equal(t, 60*time.Minute, th.MissedClockOutGrace)
	assert.Equal(t, 52, th.WeeksPerYear)
}

func TestLoadThresholds_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative grace":     "late_grace: -5m",
		"zero weekly limit":  "weekly_limit_hours: 0",
		"too many weeks":     "weeks_per_year: 60",
		"night not wrapping": "night_start_hour: 2\nnight_end_hour: 6",
		"not yaml":           "late_grace: [",
		"not a duration":     "late_grace: soon",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadThresholds(writeRules(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadThresholds_MissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestThresholds_DriveRules(t *testing.T) {
	r := testRules()
	r.th.LateGrace = 5 * time.Minute

	got := r.lateClockIns("emp-1", shift("2024-01-01", "09:06", "17:00"), officeWeek(), mon, mon)

	assert.Len(t, got, 1)
}
