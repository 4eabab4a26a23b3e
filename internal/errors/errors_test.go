package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *NotFoundError
		expected string
	}{
		{
			name:     "resource only",
			err:      NewNotFoundError("site hash", ""),
			expected: "no site hash found",
		},
		{
			name:     "resource with key",
			err:      NewNotFoundError("theater", "X0X5P"),
			expected: `no theater found for "X0X5P"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	err := NewNotFoundError("movie", "m1")
	assert.True(t, IsNotFoundError(err))
	assert.True(t, IsNotFoundError(fmt.Errorf("aggregation failed: %w", err)))
	assert.False(t, IsNotFoundError(fmt.Errorf("plain error")))
	assert.False(t, IsNotFoundError(nil))
}
