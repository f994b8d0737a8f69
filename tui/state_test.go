package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from   View
		event  Event
		want   View
		wantOK bool
	}{
		{ViewSelect, EventSelectEmployee, ViewAction, true},
		{ViewAction, EventBack, ViewSelect, true},
		{ViewSelect, EventBack, ViewSelect, false},
		{ViewAction, EventSelectEmployee, ViewAction, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			got, ok := Transition(tt.from, tt.event)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
