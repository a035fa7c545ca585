package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficulty_Quality(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       int
		wantErr    bool
	}{
		{difficulty: DifficultyHard, want: 0},
		{difficulty: DifficultyMedium, want: 3},
		{difficulty: DifficultyEasy, want: 5},
		{difficulty: Difficulty(3), wantErr: true},
		{difficulty: Difficulty(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty.String(), func(t *testing.T) {
			got, err := tt.difficulty.Quality()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty_EasyIncreasesEase(t *testing.T) {
	quality, err := DifficultyEasy.Quality()
	require.NoError(t, err)

	assert.Greater(t, UpdateEaseFactor(DefaultEaseFactor, quality), DefaultEaseFactor)
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{input: "hard", want: DifficultyHard},
		{input: " M ", want: DifficultyMedium},
		{input: "2", want: DifficultyEasy},
		{input: "e", want: DifficultyEasy},
		{input: "later", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
