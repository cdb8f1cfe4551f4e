package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to posted", StatusPending, StatusPosted, true},
		{"pending to archived", StatusPending, StatusArchived, true},
		{"pending to pending", StatusPending, StatusPending, true},
		{"posted to pending", StatusPosted, StatusPending, false},
		{"posted to archived", StatusPosted, StatusArchived, false},
		{"archived to pending", StatusArchived, StatusPending, false},
		{"archived to posted", StatusArchived, StatusPosted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusPosted))
	assert.True(t, IsTerminal(StatusArchived))
	assert.False(t, IsTerminal(StatusPending))
}
