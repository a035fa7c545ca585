// Package importer converts bulk question files and request bodies into
// questions, inferring the answer-key kind when it is not given.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prite-study/pritecards/internal/question"
)

// Item is one question as written in a bulk file or request.
type Item struct {
	Number            string            `json:"number,omitempty" yaml:"number,omitempty"`
	Part              string            `json:"part,omitempty" yaml:"part,omitempty"`
	Text              string            `json:"text" yaml:"text"`
	Options           map[string]string `json:"options" yaml:"options"`
	QuestionType      string            `json:"questionType,omitempty" yaml:"questionType,omitempty"`
	CorrectAnswer     string            `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	CorrectAnswers    []string          `json:"correctAnswers,omitempty" yaml:"correctAnswers,omitempty"`
	NumCorrectAnswers int               `json:"numCorrectAnswers,omitempty" yaml:"numCorrectAnswers,omitempty"`
	Instructions      string            `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Explanation       string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Category          string            `json:"category,omitempty" yaml:"category,omitempty"`
	Tags              []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Year              string            `json:"year,omitempty" yaml:"year,omitempty"`
	IsPublic          bool              `json:"isPublic,omitempty" yaml:"isPublic,omitempty"`
}

// InferKind picks the answer-key kind. An explicit kind other than standard
// wins. Otherwise more than one correct answer means multipleCorrect, and
// exactly four options A-D with no E means fourOptions.
func InferKind(explicit string, options question.Options, correct question.LetterSet) (question.Kind, error) {
	kind, err := question.ParseKind(explicit)
	if err != nil {
		return "", err
	}
	if kind != question.KindStandard {
		return kind, nil
	}
	if correct.Len() > 1 {
		return question.KindMultipleCorrect, nil
	}
	present := options.Present()
	if len(present) == 4 && !options.Has('E') && present[3] == 'D' {
		return question.KindFourOptions, nil
	}
	return question.KindStandard, nil
}

func (it Item) correctLetters() (question.LetterSet, error) {
	set, err := question.ParseLetterSet(it.CorrectAnswer)
	if err != nil {
		return 0, err
	}
	for _, a := range it.CorrectAnswers {
		more, err := question.ParseLetterSet(a)
		if err != nil {
			return 0, err
		}
		set |= more
	}
	return set, nil
}

// ToQuestion builds a draft question. Part defaults to "1" and year to the
// year of now.
func (it Item) ToQuestion(now time.Time) (question.Question, error) {
	options, err := question.OptionsFromMap(it.Options)
	if err != nil {
		return question.Question{}, fmt.Errorf("%w: %w", question.ErrInvalidQuestion, err)
	}
	correct, err := it.correctLetters()
	if err != nil {
		return question.Question{}, fmt.Errorf("%w: %w", question.ErrInvalidQuestion, err)
	}
	kind, err := InferKind(it.QuestionType, options, correct)
	if err != nil {
		return question.Question{}, err
	}
	key, err := question.NewAnswerKey(kind, correct, it.NumCorrectAnswers)
	if err != nil {
		return question.Question{}, err
	}

	part := it.Part
	if part == "" {
		part = "1"
	}
	year := it.Year
	if year == "" {
		year = strconv.Itoa(now.Year())
	}
	instructions := it.Instructions
	if instructions == "" && kind == question.KindMultipleCorrect {
		instructions = question.DefaultInstructions(question.CorrectCount(key))
	}

	return question.Question{
		Text:    strings.TrimSpace(it.Text),
		Options: options,
		Key:     key,
		Metadata: question.Metadata{
			Part:     part,
			Category: it.Category,
			Tags:     it.Tags,
			Number:   it.Number,
			Year:     year,
		},
		IsPublic:     it.IsPublic,
		Explanation:  it.Explanation,
		Instructions: instructions,
	}, nil
}

// FromQuestion is the inverse of ToQuestion, used when exporting.
func FromQuestion(q question.Question) Item {
	it := Item{
		Number:       q.Number,
		Part:         q.Part,
		Text:         q.Text,
		Options:      q.Options.Map(),
		QuestionType: string(q.Kind()),
		Instructions: q.Instructions,
		Explanation:  q.Explanation,
		Category:     q.Category,
		Tags:         q.Tags,
		Year:         q.Year,
		IsPublic:     q.IsPublic,
	}
	if q.Key == nil {
		return it
	}
	letters := q.Key.CorrectLetters().Letters()
	if q.Kind() == question.KindMultipleCorrect {
		for _, l := range letters {
			it.CorrectAnswers = append(it.CorrectAnswers, l.String())
		}
		it.NumCorrectAnswers = question.CorrectCount(q.Key)
	} else if len(letters) == 1 {
		it.CorrectAnswer = letters[0].String()
	}
	return it
}
