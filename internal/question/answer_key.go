package question

import (
	"errors"
	"fmt"
)

// Kind tags the answer-key variant of a question.
type Kind string

const (
	KindStandard        Kind = "standard"
	KindFourOptions     Kind = "fourOptions"
	KindMultipleCorrect Kind = "multipleCorrect"
)

// ParseKind accepts the stored kind names; "" means standard.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindStandard:
		return KindStandard, nil
	case KindFourOptions:
		return KindFourOptions, nil
	case KindMultipleCorrect:
		return KindMultipleCorrect, nil
	}
	return "", fmt.Errorf("%w: unknown question kind %q", ErrInvalidQuestion, s)
}

const fourOptionsLast Letter = 'D'

var errUnanswered = errors.New("no correct answer set")

// AnswerKey is the set of correct options of a question. The concrete type
// fixes how many letters may be correct.
type AnswerKey interface {
	Kind() Kind
	CorrectLetters() LetterSet
	// Answered reports whether any correct letter has been set.
	Answered() bool
	validate(o Options) error
}

// Standard has exactly one correct option among up to A..O.
type Standard struct {
	Answer Letter
}

// FourOption has exactly one correct option among A..D.
type FourOption struct {
	Answer Letter
}

// MultipleCorrect has exactly Count correct options.
type MultipleCorrect struct {
	Answers LetterSet
	Count   int
}

func (Standard) Kind() Kind                  { return KindStandard }
func (k Standard) CorrectLetters() LetterSet { return NewLetterSet(k.Answer) }
func (k Standard) Answered() bool            { return k.Answer != 0 }

func (k Standard) validate(o Options) error {
	return validateSingle(k.Answer, o)
}

func (FourOption) Kind() Kind                  { return KindFourOptions }
func (k FourOption) CorrectLetters() LetterSet { return NewLetterSet(k.Answer) }
func (k FourOption) Answered() bool            { return k.Answer != 0 }

func (k FourOption) validate(o Options) error {
	if last := o.Last(); last > fourOptionsLast {
		return fmt.Errorf("four-option question has option %s", last)
	}
	return validateSingle(k.Answer, o)
}

func (MultipleCorrect) Kind() Kind                  { return KindMultipleCorrect }
func (k MultipleCorrect) CorrectLetters() LetterSet { return k.Answers }
func (k MultipleCorrect) Answered() bool            { return k.Answers != 0 }

func (k MultipleCorrect) validate(o Options) error {
	if k.Count < 1 {
		return fmt.Errorf("correct answer count must be positive, got %d", k.Count)
	}
	if k.Answers == 0 {
		return errUnanswered
	}
	if n := k.Answers.Len(); n != k.Count {
		return fmt.Errorf("%d correct answers marked, expected %d", n, k.Count)
	}
	for _, l := range k.Answers.Letters() {
		if !o.Has(l) {
			return fmt.Errorf("correct answer %s has no option text", l)
		}
	}
	return nil
}

func validateSingle(answer Letter, o Options) error {
	if answer == 0 {
		return errUnanswered
	}
	if !answer.Valid() {
		return fmt.Errorf("invalid correct answer %d", byte(answer))
	}
	if !o.Has(answer) {
		return fmt.Errorf("correct answer %s has no option text", answer)
	}
	return nil
}

// NewAnswerKey builds the key variant for kind. For single-answer kinds
// correct must have at most one member. count is only used by
// multipleCorrect; zero defaults it to the number of correct letters, or 3
// when none are known yet.
func NewAnswerKey(kind Kind, correct LetterSet, count int) (AnswerKey, error) {
	switch kind {
	case KindStandard, KindFourOptions:
		if correct.Len() > 1 {
			return nil, fmt.Errorf("%w: %s question has %d correct answers", ErrInvalidQuestion, kind, correct.Len())
		}
		var answer Letter
		if letters := correct.Letters(); len(letters) == 1 {
			answer = letters[0]
		}
		if kind == KindFourOptions {
			return FourOption{Answer: answer}, nil
		}
		return Standard{Answer: answer}, nil
	case KindMultipleCorrect:
		if count == 0 {
			count = correct.Len()
		}
		if count == 0 {
			count = defaultMultipleCorrectCount
		}
		return MultipleCorrect{Answers: correct, Count: count}, nil
	}
	return nil, fmt.Errorf("%w: unknown question kind %q", ErrInvalidQuestion, kind)
}

const defaultMultipleCorrectCount = 3

// CorrectCount is the number of letters the key expects to be correct.
func CorrectCount(k AnswerKey) int {
	if m, ok := k.(MultipleCorrect); ok {
		return m.Count
	}
	return 1
}
