package mastery

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Difficulty is the three-button rating offered by the study UI.
type Difficulty int

const (
	DifficultyHard   Difficulty = 0
	DifficultyMedium Difficulty = 1
	DifficultyEasy   Difficulty = 2
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// difficultyScale maps the 0-2 difficulty range onto the 0-5 quality range.
const difficultyScale = 2.5

// Quality converts the difficulty to an SM-2 quality: hard 0, medium 3, easy 5.
func (d Difficulty) Quality() (int, error) {
	if d < DifficultyHard || d > DifficultyEasy {
		return 0, fmt.Errorf("%w: %d is outside 0-2", ErrInvalidDifficulty, int(d))
	}
	return int(math.Round(float64(d) * difficultyScale)), nil
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyHard:
		return "hard"
	case DifficultyMedium:
		return "medium"
	case DifficultyEasy:
		return "easy"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts a name ("hard", "h", ...) or a digit 0-2.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "h", "hard":
		return DifficultyHard, nil
	case "1", "m", "medium":
		return DifficultyMedium, nil
	case "2", "e", "easy":
		return DifficultyEasy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}
