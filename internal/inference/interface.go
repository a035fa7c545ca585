// Package inference defines the language-model operations the study tools
// depend on.
package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client drafts content with a language model.
type Client interface {
	ExplainQuestion(ctx context.Context, params ExplainQuestionRequest) (ExplainQuestionResponse, error)
}

// Option is one labelled answer choice.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// ExplainQuestionRequest describes a multiple-choice question and its key.
type ExplainQuestionRequest struct {
	Question       string   `json:"question"`
	Instructions   string   `json:"instructions,omitempty"`
	Options        []Option `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
}

type ExplainQuestionResponse struct {
	Explanation string
	Model       string
}

const (
	DefaultMaxRetryAttempts = 3
)
