package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPence(t *testing.T) {
	assert.Equal(t, "£55.00", FormatPence(5500))
	assert.Equal(t, "£32.50", FormatPence(3250))
	assert.Equal(t, "£0.05", FormatPence(5))
	assert.Equal(t, "-£1.20", FormatPence(-120))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+50%", FormatPercent(0.5))
	assert.Equal(t, "+25%", FormatPercent(0.25))
	assert.Equal(t, "+12.5%", FormatPercent(0.125))
}
