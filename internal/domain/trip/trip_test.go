package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanTransitionTo tests the status state machine
func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"accepted to completed", StatusAccepted, StatusCompleted, true},
		{"accepted to cancelled", StatusAccepted, StatusCancelled, true},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusCompleted, false},
		{"no self transition", StatusAccepted, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// TestStatusIsValid tests status validation
func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusAccepted.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, Status("requested").IsValid())
	assert.False(t, Status("").IsValid())
}
