package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from QueueStatus
		to   QueueStatus
		want bool
	}{
		{"pending to processing", QueueStatusPending, QueueStatusProcessing, true},
		{"failed to processing", QueueStatusFailed, QueueStatusProcessing, true},
		{"occ_timeout to processing", QueueStatusOCCTimeout, QueueStatusProcessing, true},
		{"processing to processed", QueueStatusProcessing, QueueStatusProcessed, true},
		{"processing to failed", QueueStatusProcessing, QueueStatusFailed, true},
		{"processing to occ_timeout", QueueStatusProcessing, QueueStatusOCCTimeout, true},
		{"processing to dead_letter", QueueStatusProcessing, QueueStatusDeadLetter, true},
		{"processing to pending", QueueStatusProcessing, QueueStatusPending, true},
		{"pending to processed", QueueStatusPending, QueueStatusProcessed, false},
		{"processed to processing", QueueStatusProcessed, QueueStatusProcessing, false},
		{"dead_letter to processing", QueueStatusDeadLetter, QueueStatusProcessing, false},
		{"pending to dead_letter", QueueStatusPending, QueueStatusDeadLetter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(QueueStatusProcessed))
	assert.True(t, IsTerminal(QueueStatusDeadLetter))
	assert.False(t, IsTerminal(QueueStatusPending))
	assert.False(t, IsTerminal(QueueStatusProcessing))
	assert.False(t, IsTerminal(QueueStatusFailed))
	assert.False(t, IsTerminal(QueueStatusOCCTimeout))
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	allStatuses := []QueueStatus{
		QueueStatusPending, QueueStatusProcessing, QueueStatusProcessed,
		QueueStatusFailed, QueueStatusOCCTimeout, QueueStatusDeadLetter,
	}

	for _, terminal := range []QueueStatus{QueueStatusProcessed, QueueStatusDeadLetter} {
		for _, to := range allStatuses {
			assert.False(t, CanTransitionTo(terminal, to), "%s should not transition to %s", terminal, to)
		}
	}
}
