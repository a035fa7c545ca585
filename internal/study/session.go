// Package study draws due questions into review sessions and applies the
// learner's answers to their mastery records.
package study

import "math/rand/v2"

// Session is the ordered set of questions for one sitting and the position
// of the next one to present. It is a value; Advance returns the next state.
type Session struct {
	UserID      string   `json:"userId"`
	QuestionIDs []string `json:"questionIds"`
	Position    int      `json:"position"`
}

// NewSession shuffles due with shuffle and keeps at most limit questions.
// A limit of zero or less keeps all of them. due is not modified.
func NewSession(userID string, due []string, limit int, shuffle func(n int, swap func(i, j int))) Session {
	ids := make([]string, len(due))
	copy(ids, due)
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return Session{UserID: userID, QuestionIDs: ids}
}

// Current returns the question to present, or false when the session is done.
func (s Session) Current() (string, bool) {
	if s.Done() {
		return "", false
	}
	return s.QuestionIDs[s.Position], true
}

func (s Session) Advance() Session {
	if !s.Done() {
		s.Position++
	}
	return s
}

func (s Session) Done() bool {
	return s.Position >= len(s.QuestionIDs)
}

func (s Session) Remaining() int {
	return len(s.QuestionIDs) - s.Position
}
