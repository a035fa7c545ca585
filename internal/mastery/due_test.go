package mastery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDue(t *testing.T) {
	tests := []struct {
		name string
		next time.Time
		want bool
	}{
		{name: "one day overdue", next: testNow.AddDate(0, 0, -1), want: true},
		{name: "due exactly now", next: testNow, want: true},
		{name: "due tomorrow", next: testNow.AddDate(0, 0, 1), want: false},
		{name: "one nanosecond in the future", next: testNow.Add(time.Nanosecond), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(Record{NextReviewAt: tt.next}, testNow))
		})
	}
}
