package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlural(t *testing.T) {
	assert.Equal(t, "", Plural(1))
	assert.Equal(t, "s", Plural(0))
	assert.Equal(t, "s", Plural(2))
	assert.Equal(t, "", Plural(int64(1)))
	assert.Equal(t, "s", Plural(int64(100)))
}

func TestFormatBebits(t *testing.T) {
	assert.Equal(t, "1 Bebit", FormatBebits(1))
	assert.Equal(t, "0 Bebits", FormatBebits(0))
	assert.Equal(t, "150 Bebits", FormatBebits(150))
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "1 day", FormatDays(1))
	assert.Equal(t, "7 days", FormatDays(7))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "5 hours", FormatHours(5))
	assert.Equal(t, "1 hour", FormatHours(1))
	assert.Equal(t, "1 day", FormatHours(24))
	assert.Equal(t, "2 days", FormatHours(48))
}
