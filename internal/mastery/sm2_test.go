package mastery

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestUpdateEaseFactor(t *testing.T) {
	tests := []struct {
		name     string
		ef       float64
		quality  int
		expected float64
	}{
		{name: "quality 5 increases EF", ef: 2.5, quality: 5, expected: 2.6},
		{name: "quality 4 keeps EF", ef: 2.5, quality: 4, expected: 2.5},
		{name: "quality 3 decreases EF slightly", ef: 2.5, quality: 3, expected: 2.36},
		{name: "quality 2 lapse", ef: 2.5, quality: 2, expected: 2.18},
		{name: "quality 1 lapse", ef: 2.5, quality: 1, expected: 1.96},
		{name: "quality 0 lapse", ef: 2.5, quality: 0, expected: 1.7},
		{name: "floored at MinEaseFactor", ef: 1.4, quality: 0, expected: MinEaseFactor},
		{name: "floor holds at the minimum", ef: MinEaseFactor, quality: 3, expected: MinEaseFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, UpdateEaseFactor(tt.ef, tt.quality), 1e-9)
		})
	}
}

func TestNextInterval(t *testing.T) {
	tests := []struct {
		name         string
		lastInterval int
		ef           float64
		quality      int
		repetitions  int
		expected     int
	}{
		{name: "first success", lastInterval: 0, ef: 2.6, quality: 5, repetitions: 1, expected: 1},
		{name: "second success", lastInterval: 1, ef: 2.5, quality: 4, repetitions: 2, expected: 6},
		{name: "third success", lastInterval: 6, ef: 2.5, quality: 4, repetitions: 3, expected: 15},
		{name: "rounds half away from zero", lastInterval: 5, ef: 2.5, quality: 4, repetitions: 3, expected: 13},
		{name: "rounds down", lastInterval: 6, ef: 2.36, quality: 3, repetitions: 4, expected: 14},
		{name: "lapse resets to one day", lastInterval: 120, ef: 2.5, quality: 2, repetitions: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextInterval(tt.lastInterval, tt.ef, tt.quality, tt.repetitions))
		})
	}
}

func TestApplyReview_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		current         Record
		quality         int
		wantEase        float64
		wantRepetitions int
		wantInterval    int
		wantNext        time.Time
	}{
		{
			name:            "A: first perfect review",
			current:         Record{EaseFactor: 2.5, Repetitions: 0, Interval: 0},
			quality:         5,
			wantEase:        2.6,
			wantRepetitions: 1,
			wantInterval:    1,
			wantNext:        time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:            "B: lapse on a new record",
			current:         Record{EaseFactor: 2.5, Repetitions: 0, Interval: 0},
			quality:         2,
			wantEase:        2.18,
			wantRepetitions: 0,
			wantInterval:    1,
			wantNext:        time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:            "C: second consecutive success",
			current:         Record{EaseFactor: 2.5, Repetitions: 1, Interval: 1},
			quality:         4,
			wantEase:        2.5,
			wantRepetitions: 2,
			wantInterval:    6,
			wantNext:        time.Date(2024, 1, 7, 9, 30, 0, 0, time.UTC),
		},
		{
			name:            "D: third consecutive success multiplies the interval",
			current:         Record{EaseFactor: 2.0, Repetitions: 2, Interval: 6},
			quality:         4,
			wantEase:        2.0,
			wantRepetitions: 3,
			wantInterval:    12,
			wantNext:        time.Date(2024, 1, 13, 9, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyReview(tt.current, tt.quality, testNow)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantEase, got.EaseFactor, 1e-9)
			assert.Equal(t, tt.wantRepetitions, got.Repetitions)
			assert.Equal(t, tt.wantInterval, got.Interval)
			assert.True(t, testNow.Equal(got.ReviewedAt))
			assert.True(t, tt.wantNext.Equal(got.NextReviewAt), "next review %v, want %v", got.NextReviewAt, tt.wantNext)
		})
	}

	t.Run("D: interval equals round(prior interval x new ease)", func(t *testing.T) {
		current := Record{EaseFactor: 2.0, Repetitions: 2, Interval: 6}
		got, err := ApplyReview(current, 4, testNow)
		require.NoError(t, err)
		assert.Equal(t, int(math.Round(6*got.EaseFactor)), got.Interval)
	})
}

// recordGrid enumerates a spread of valid prior states.
func recordGrid() []Record {
	var records []Record
	for _, ef := range []float64{MinEaseFactor, 1.5, 2.0, 2.5, 3.1} {
		for _, reps := range []int{0, 1, 2, 3, 7} {
			for _, interval := range []int{0, 1, 6, 15, 200} {
				records = append(records, Record{
					EaseFactor:   ef,
					Repetitions:  reps,
					Interval:     interval,
					ReviewedAt:   testNow.AddDate(0, 0, -interval),
					NextReviewAt: testNow,
				})
			}
		}
	}
	return records
}

func TestApplyReview_Properties(t *testing.T) {
	for _, current := range recordGrid() {
		for quality := MinQuality; quality <= MaxQuality; quality++ {
			snapshot := current
			got, err := ApplyReview(current, quality, testNow)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, got.EaseFactor, MinEaseFactor)
			assert.GreaterOrEqual(t, got.Interval, 0)
			assert.GreaterOrEqual(t, got.Repetitions, 0)
			assert.True(t, got.ReviewedAt.AddDate(0, 0, got.Interval).Equal(got.NextReviewAt))
			assert.Equal(t, snapshot, current, "argument must not be mutated")

			switch {
			case quality < 3:
				assert.Equal(t, 0, got.Repetitions)
				assert.Equal(t, 1, got.Interval)
			case current.Repetitions == 0:
				assert.Equal(t, 1, got.Repetitions)
				assert.Equal(t, 1, got.Interval)
			case current.Repetitions == 1:
				assert.Equal(t, 2, got.Repetitions)
				assert.Equal(t, 6, got.Interval)
			default:
				assert.Equal(t, current.Repetitions+1, got.Repetitions)
				assert.Equal(t, int(math.Round(float64(current.Interval)*got.EaseFactor)), got.Interval)
			}
		}
	}
}

func TestApplyReview_InvalidQuality(t *testing.T) {
	for _, quality := range []int{-1, 6, 100} {
		got, err := ApplyReview(NewRecord(testNow), quality, testNow)
		assert.ErrorIs(t, err, ErrInvalidQuality)
		assert.Equal(t, Record{}, got)
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(testNow)

	assert.Equal(t, DefaultEaseFactor, r.EaseFactor)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, 0, r.Interval)
	assert.False(t, r.Reviewed())
	assert.True(t, IsDue(r, testNow))
}
