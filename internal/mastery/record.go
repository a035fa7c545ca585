// Package mastery implements the SM-2 spaced-repetition scheduler and the
// per-learner mastery record it operates on.
package mastery

import "time"

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Record is one learner's spaced-repetition state for one question.
type Record struct {
	EaseFactor  float64 `json:"easeFactor"`
	Repetitions int     `json:"repetitions"`
	// Interval is the number of days between ReviewedAt and NextReviewAt.
	Interval int `json:"interval"`
	// ReviewedAt is zero until the first review.
	ReviewedAt   time.Time `json:"reviewedAt"`
	NextReviewAt time.Time `json:"nextReviewAt"`
}

// NewRecord returns the default state of a record created at createdAt,
// which is immediately due.
func NewRecord(createdAt time.Time) Record {
	return Record{
		EaseFactor:   DefaultEaseFactor,
		Repetitions:  0,
		Interval:     0,
		NextReviewAt: createdAt,
	}
}

// Reviewed reports whether the record has been reviewed at least once.
func (r Record) Reviewed() bool {
	return !r.ReviewedAt.IsZero()
}
