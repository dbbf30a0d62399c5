package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		startA, endA, startB, endB time.Time
		want                       bool
	}{
		{"touching end to start", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"touching start to end", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"disjoint", at(9, 0), at(9, 30), at(10, 0), at(11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.startA, tt.endA, tt.startB, tt.endB))
			assert.Equal(t, tt.want, Overlaps(tt.startB, tt.endB, tt.startA, tt.endA), "symmetric")
		})
	}
}

func TestInterval(t *testing.T) {
	iv := NewInterval(at(10, 0), 90)

	assert.Equal(t, at(11, 30), iv.End)
	assert.Equal(t, 90, iv.Minutes())
	assert.True(t, iv.Valid())
	assert.False(t, Interval{Start: at(10, 0), End: at(10, 0)}.Valid())
	assert.Equal(t, NewInterval(at(10, 30), 90), iv.Shift(30*time.Minute))
	assert.Equal(t, "2025-06-02 10:00-11:30", iv.String())
}
