package study

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	due := []string{"q1", "q2", "q3", "q4", "q5"}

	tests := []struct {
		name    string
		limit   int
		wantLen int
	}{
		{name: "under limit keeps all", limit: 20, wantLen: 5},
		{name: "caps at limit", limit: 3, wantLen: 3},
		{name: "zero limit keeps all", limit: 0, wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			s := NewSession("alice", due, tt.limit, rng.Shuffle)

			assert.Equal(t, "alice", s.UserID)
			assert.Len(t, s.QuestionIDs, tt.wantLen)
			assert.Subset(t, due, s.QuestionIDs)
			assert.Equal(t, []string{"q1", "q2", "q3", "q4", "q5"}, due, "input is not modified")
		})
	}
}

func TestNewSession_ShufflesEveryOrder(t *testing.T) {
	due := []string{"a", "b", "c"}
	rng := rand.New(rand.NewPCG(7, 7))

	seen := map[string]bool{}
	for range 500 {
		s := NewSession("alice", due, 0, rng.Shuffle)
		seen[s.QuestionIDs[0]+s.QuestionIDs[1]+s.QuestionIDs[2]] = true
	}
	assert.Len(t, seen, 6, "all permutations appear")
}

func TestNewSession_DefaultShuffle(t *testing.T) {
	s := NewSession("alice", []string{"only"}, 10, nil)
	assert.Equal(t, []string{"only"}, s.QuestionIDs)
}

func TestSession_Advance(t *testing.T) {
	s := Session{UserID: "alice", QuestionIDs: []string{"q1", "q2"}}

	id, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "q1", id)
	assert.Equal(t, 2, s.Remaining())

	next := s.Advance()
	assert.Equal(t, 0, s.Position, "advance returns a new value")
	id, ok = next.Current()
	assert.True(t, ok)
	assert.Equal(t, "q2", id)

	done := next.Advance()
	assert.True(t, done.Done())
	_, ok = done.Current()
	assert.False(t, ok)
	assert.Equal(t, done, done.Advance())
	assert.Equal(t, 0, done.Remaining())

	empty := NewSession("alice", nil, 5, nil)
	assert.True(t, empty.Done())
}
