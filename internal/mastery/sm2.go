package mastery

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	MinQuality = 0
	MaxQuality = 5

	// passingQuality is the lowest quality that counts as a successful recall.
	passingQuality = 3
)

var ErrInvalidQuality = errors.New("invalid quality")

// ValidateQuality checks that quality is on the SM-2 0-5 scale.
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidQuality, quality, MinQuality, MaxQuality)
	}
	return nil
}

// UpdateEaseFactor returns the SM-2 ease factor after a review of the given quality.
func UpdateEaseFactor(ef float64, quality int) float64 {
	q := float64(quality)
	delta := 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(MinEaseFactor, ef+delta)
}

// NextInterval returns the interval in days for the given repetition count.
// repetitions is the count after the review has been applied.
func NextInterval(lastInterval int, ef float64, quality int, repetitions int) int {
	if quality < passingQuality {
		return 1
	}
	switch repetitions {
	case 1:
		return 1
	case 2:
		return 6
	default:
		return int(math.Round(float64(lastInterval) * ef))
	}
}

// ApplyReview computes the record that follows current after a review of the
// given quality at now. current is not modified.
func ApplyReview(current Record, quality int, now time.Time) (Record, error) {
	if err := ValidateQuality(quality); err != nil {
		return Record{}, err
	}

	ef := UpdateEaseFactor(current.EaseFactor, quality)

	repetitions := 0
	if quality >= passingQuality {
		repetitions = current.Repetitions + 1
	}
	interval := NextInterval(current.Interval, ef, quality, repetitions)

	return Record{
		EaseFactor:   ef,
		Repetitions:  repetitions,
		Interval:     interval,
		ReviewedAt:   now,
		NextReviewAt: now.AddDate(0, 0, interval),
	}, nil
}
