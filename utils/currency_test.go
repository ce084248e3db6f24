package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentOfCents(t *testing.T) {
	assert.Equal(t, int64(500), PercentOfCents(10000, 5.0))
	assert.Equal(t, int64(0), PercentOfCents(0, 5.0))
	// 5% of 1050 centavos = 52.5, rounds half away from zero
	assert.Equal(t, int64(53), PercentOfCents(1050, 5.0))
}

func TestCentsToDisplay(t *testing.T) {
	assert.Equal(t, "123.45", CentsToDisplay(12345))
	assert.Equal(t, "0.05", CentsToDisplay(5))
}
