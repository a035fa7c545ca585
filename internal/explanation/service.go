// Package explanation drafts explanations for questions with a language
// model and stores them on the question.
package explanation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prite-study/pritecards/internal/inference"
	"github.com/prite-study/pritecards/internal/question"
)

var ErrRateLimited = errors.New("explanation rate limit exceeded")

// Summary counts the outcome of a bulk generation.
type Summary struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type Service struct {
	questions   question.Repository
	client      inference.Client
	limiter     *UserLimiter
	concurrency int
	now         func() time.Time
}

func NewService(questions question.Repository, client inference.Client, limiter *UserLimiter, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		questions:   questions,
		client:      client,
		limiter:     limiter,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Generate drafts an explanation for a question owned by userID and stores
// it as the question's generated explanation.
func (s *Service) Generate(ctx context.Context, userID, questionID string) (string, error) {
	q, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return "", fmt.Errorf("questions.FindByID() > %w", err)
	}
	if q == nil {
		return "", question.ErrNotFound
	}
	if !q.CanWrite(userID) {
		return "", question.ErrForbidden
	}
	if q.Key == nil || !q.Key.Answered() {
		return "", fmt.Errorf("%w: no correct answer to explain", question.ErrInvalidQuestion)
	}
	if !s.limiter.AllowAt(userID, s.now()) {
		return "", ErrRateLimited
	}
	return s.generate(ctx, *q)
}

func (s *Service) generate(ctx context.Context, q question.Question) (string, error) {
	response, err := s.client.ExplainQuestion(ctx, NewRequest(q))
	if err != nil {
		return "", fmt.Errorf("client.ExplainQuestion(%s) > %w", q.ID, err)
	}
	if err := s.questions.UpdateGeneratedExplanation(ctx, q.ID, response.Explanation); err != nil {
		return "", fmt.Errorf("questions.UpdateGeneratedExplanation() > %w", err)
	}
	slog.Info("explanation generated", "question", q.ID, "model", response.Model)
	return response.Explanation, nil
}

// GenerateMissing drafts explanations for every answered question owned by
// userID that has none yet. Questions over the rate limit are skipped;
// failures are logged and counted.
func (s *Service) GenerateMissing(ctx context.Context, userID string) (Summary, error) {
	questions, err := s.questions.Search(ctx, question.SearchFilter{
		UserID:             userID,
		Visibility:         question.VisibilityMine,
		MissingExplanation: true,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("questions.Search() > %w", err)
	}

	var generated, skipped, failed atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, q := range questions {
		if q.Key == nil || !q.Key.Answered() {
			skipped.Add(1)
			continue
		}
		if !s.limiter.AllowAt(userID, s.now()) {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			if _, err := s.generate(ctx, q); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("explanation generation failed", "question", q.ID, "error", err)
				failed.Add(1)
				return nil
			}
			generated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("generate explanations: %w", err)
	}

	return Summary{
		Generated: int(generated.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

// NewRequest builds the model request for q.
func NewRequest(q question.Question) inference.ExplainQuestionRequest {
	req := inference.ExplainQuestionRequest{
		Question:     q.Text,
		Instructions: q.Instructions,
	}
	for _, l := range q.Options.Present() {
		req.Options = append(req.Options, inference.Option{Letter: l.String(), Text: q.Options.Get(l)})
	}
	if q.Key != nil {
		for _, l := range q.Key.CorrectLetters().Letters() {
			req.CorrectAnswers = append(req.CorrectAnswers, l.String())
		}
	}
	return req
}
