package mastery

import "time"

// IsDue reports whether r should be reviewed at t, i.e. NextReviewAt <= t.
func IsDue(r Record, t time.Time) bool {
	return !r.NextReviewAt.After(t)
}
