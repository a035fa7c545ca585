package study

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/user"
)

// SettingsProvider returns a learner's study settings.
type SettingsProvider interface {
	Settings(ctx context.Context, userID string) (user.Settings, error)
}

// ReviewResult is the outcome of one answered question.
type ReviewResult struct {
	QuestionID string         `json:"questionId"`
	Quality    int            `json:"quality"`
	Previous   mastery.Record `json:"previous"`
	Record     mastery.Record `json:"record"`
}

type Service struct {
	questions question.Repository
	settings  SettingsProvider
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

func NewService(questions question.Repository, settings SettingsProvider) *Service {
	return &Service{
		questions: questions,
		settings:  settings,
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// DueIDs returns the IDs of the questions userID should review now.
func (s *Service) DueIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.questions.FindDue(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("questions.FindDue() > %w", err)
	}
	return ids, nil
}

// DueQuestions loads the questions returned by DueIDs.
func (s *Service) DueQuestions(ctx context.Context, userID string) ([]question.Question, error) {
	ids, err := s.DueIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	questions := make([]question.Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.questions.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("questions.FindByID(%s) > %w", id, err)
		}
		// Deleted between the two reads
		if q == nil {
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

// StartSession shuffles the due set and caps it at the learner's
// questions-per-session setting.
func (s *Service) StartSession(ctx context.Context, userID string) (Session, error) {
	ids, err := s.DueIDs(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	settings, err := s.settings.Settings(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("settings.Settings() > %w", err)
	}

	session := NewSession(userID, ids, settings.QuestionsPerSession, s.shuffle)
	slog.Debug("study session started", "user", userID, "due", len(ids), "size", len(session.QuestionIDs))
	return session, nil
}

// Review applies quality to userID's record on questionID. A learner's first
// review of a readable question starts from a fresh record. A concurrent
// review of the same record makes this one fail with question.ErrConflict;
// it is not retried.
func (s *Service) Review(ctx context.Context, userID, questionID string, quality int) (ReviewResult, error) {
	if err := mastery.ValidateQuality(quality); err != nil {
		return ReviewResult{}, err
	}
	now := s.now()

	entry, err := s.questions.GetMasteryRecord(ctx, questionID, userID)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("questions.GetMasteryRecord() > %w", err)
	}
	if entry == nil {
		q, err := s.questions.FindByID(ctx, questionID)
		if err != nil {
			return ReviewResult{}, fmt.Errorf("questions.FindByID() > %w", err)
		}
		if q == nil {
			return ReviewResult{}, question.ErrNotFound
		}
		if !q.CanRead(userID) {
			return ReviewResult{}, question.ErrForbidden
		}
		entry = &question.MasteryEntry{UserID: userID, Record: mastery.NewRecord(now)}
	}

	next, err := mastery.ApplyReview(entry.Record, quality, now)
	if err != nil {
		return ReviewResult{}, err
	}
	if err := s.questions.PutMasteryRecord(ctx, questionID, userID, question.MasteryEntry{
		UserID:  userID,
		Record:  next,
		Version: entry.Version,
	}); err != nil {
		return ReviewResult{}, fmt.Errorf("questions.PutMasteryRecord() > %w", err)
	}

	slog.Info("question reviewed",
		"user", userID,
		"question", questionID,
		"quality", quality,
		"interval", next.Interval,
		"ease", next.EaseFactor,
	)
	return ReviewResult{
		QuestionID: questionID,
		Quality:    quality,
		Previous:   entry.Record,
		Record:     next,
	}, nil
}

// ReviewDifficulty maps a hard/medium/easy rating onto quality and reviews.
func (s *Service) ReviewDifficulty(ctx context.Context, userID, questionID string, d mastery.Difficulty) (ReviewResult, error) {
	quality, err := d.Quality()
	if err != nil {
		return ReviewResult{}, err
	}
	return s.Review(ctx, userID, questionID, quality)
}

// ResetProgress returns every record of userID to the defaults, due now.
func (s *Service) ResetProgress(ctx context.Context, userID string) (int64, error) {
	n, err := s.questions.ResetMastery(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("questions.ResetMastery() > %w", err)
	}
	slog.Info("study progress reset", "user", userID, "records", n)
	return n, nil
}

// StudyData returns userID's mastery records for export.
func (s *Service) StudyData(ctx context.Context, userID string) ([]question.StudyRecord, error) {
	records, err := s.questions.StudyData(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("questions.StudyData() > %w", err)
	}
	return records, nil
}
