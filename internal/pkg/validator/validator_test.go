package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period_month", Message: "must be between 1 and 12"},
		{Field: "period_year", Message: "must be a valid year"},
	}

	assert.Equal(t, "period_month: must be between 1 and 12; period_year: must be a valid year", errs.Error())
	assert.Equal(t, map[string]string{
		"period_month": "must be between 1 and 12",
		"period_year":  "must be a valid year",
	}, errs.ToMap())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-03-15")
	assert.True(t, ok)
	assert.Equal(t, 2026, date.Year())

	_, ok = IsValidDate("15/03/2026")
	assert.False(t, ok)
}
