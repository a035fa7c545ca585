// Package question provides the question domain model, its answer-key
// variants and the repository that persists questions with their mastery
// records.
package question

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/validation"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrForbidden       = errors.New("not authorized for this question")
	ErrConflict        = errors.New("mastery record changed since it was read")
	ErrInvalidQuestion = errors.New("invalid question")
)

// Metadata classifies a question within the exam.
type Metadata struct {
	Part     string   `json:"part" validate:"oneof=1 2"`
	Category string   `json:"category" validate:"max=200"`
	Tags     []string `json:"tags" validate:"max=50,dive,required,max=100"`
	Number   string   `json:"number" validate:"max=20"`
	Year     string   `json:"year" validate:"omitempty,numeric,len=4"`
}

// Question is an exam item owned by one creator.
type Question struct {
	ID        string    `json:"id" validate:"required"`
	CreatorID string    `json:"creatorId" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	Options   Options   `json:"options"`
	Key       AnswerKey `json:"-"`
	Metadata

	IsPublic             bool   `json:"isPublic"`
	Explanation          string `json:"explanation"`
	GeneratedExplanation string `json:"generatedExplanation"`
	Instructions         string `json:"instructions" validate:"max=500"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Mastery holds the per-learner records keyed by user ID. Repositories
	// fill it only on single-question reads.
	Mastery map[string]mastery.Record `json:"-"`
}

// Kind returns the kind of the question's answer key.
func (q Question) Kind() Kind {
	if q.Key == nil {
		return KindStandard
	}
	return q.Key.Kind()
}

// CanRead reports whether userID may see the question.
func (q Question) CanRead(userID string) bool {
	return q.IsPublic || q.CreatorID == userID
}

// CanWrite reports whether userID may modify or delete the question.
func (q Question) CanWrite(userID string) bool {
	return q.CreatorID == userID
}

// Validate checks a complete question, including its answer key.
func (q Question) Validate() error {
	if err := q.ValidateDraft(); err != nil {
		return err
	}
	if err := q.Key.validate(q.Options); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	return nil
}

// ValidateDraft checks everything but allows an answer key with no correct
// letter yet.
func (q Question) ValidateDraft() error {
	if err := validation.Struct(q); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	for _, l := range []Letter{'A', 'B'} {
		if !q.Options.Has(l) {
			return fmt.Errorf("%w: option %s is required", ErrInvalidQuestion, l)
		}
	}
	if q.Key == nil {
		return fmt.Errorf("%w: missing answer key", ErrInvalidQuestion)
	}
	if err := q.Key.validate(q.Options); err != nil && !errors.Is(err, errUnanswered) {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	return nil
}

// DefaultInstructions returns the prompt shown above multiple-correct questions.
func DefaultInstructions(count int) string {
	return fmt.Sprintf("Select the %d correct answers.", count)
}

// Matches reports whether text occurs in the question text, one of its
// options or its explanation, ignoring case.
func (q Question) Matches(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	haystacks := append([]string{q.Text, q.Explanation}, q.Options[:]...)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
