package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"{0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b}",
		"urn:uuid:0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, "2024-02-29", d.String())

	for _, s := range []string{"2023-02-29", "2024/01/01", "01-01-2024", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsValidClock(t *testing.T) {
	assert.True(t, IsValidClock("09:00"))
	assert.True(t, IsValidClock("23:59:59"))
	assert.False(t, IsValidClock("24:00"))
	assert.False(t, IsValidClock("9am"))
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("UTC"))
	assert.True(t, IsValidTimezone("Asia/Jakarta"))
	assert.False(t, IsValidTimezone("Mars/Olympus"))
	assert.False(t, IsValidTimezone(" "))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "end_date", Message: "end_date must not be before start_date"},
	}

	assert.Equal(t, "start_date: start_date is required; end_date: end_date must not be before start_date", errs.Error())
	assert.Equal(t, map[string]string{
		"start_date": "start_date is required",
		"end_date":   "end_date must not be before start_date",
	}, errs.ToMap())
	assert.True(t, IsInSlice("overtime", []string{"late_clock_in", "overtime"}))
}
