package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteConcurrency(t *testing.T) {
	n := WriteConcurrency()
	assert.GreaterOrEqual(t, n, 4)
	assert.LessOrEqual(t, n, 32)
	assert.Equal(t, 7, WriteConcurrencyWithOverride(7))
	assert.Equal(t, n, WriteConcurrencyWithOverride(0))
}
