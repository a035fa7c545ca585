package question

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prite-study/pritecards/internal/mastery"
)

// Service applies the read and write rules on top of a Repository. Reads
// need the creator or a public question, writes need the creator.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create stores a complete question owned by userID.
func (s *Service) Create(ctx context.Context, userID string, q Question) (*Question, error) {
	s.prepareNew(userID, &q)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &q); err != nil {
		return nil, fmt.Errorf("repo.Create() > %w", err)
	}
	slog.Info("question created", "id", q.ID, "creator", userID, "kind", q.Kind())
	return &q, nil
}

// BatchCreate stores questions owned by userID in one transaction. Answer
// keys may still be empty.
func (s *Service) BatchCreate(ctx context.Context, userID string, drafts []Question) ([]Question, error) {
	created := make([]*Question, len(drafts))
	for i := range drafts {
		q := drafts[i]
		s.prepareNew(userID, &q)
		if err := q.ValidateDraft(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		created[i] = &q
	}
	if err := s.repo.BatchCreate(ctx, created); err != nil {
		return nil, fmt.Errorf("repo.BatchCreate() > %w", err)
	}
	slog.Info("questions created", "count", len(created), "creator", userID)

	result := make([]Question, len(created))
	for i, q := range created {
		result[i] = *q
	}
	return result, nil
}

func (s *Service) prepareNew(userID string, q *Question) {
	now := s.now().UTC()
	q.ID = s.newID()
	q.CreatorID = userID
	q.CreatedAt = now
	q.UpdatedAt = now
	q.Mastery = map[string]mastery.Record{userID: mastery.NewRecord(now)}
	if q.Instructions == "" && q.Kind() == KindMultipleCorrect {
		q.Instructions = DefaultInstructions(CorrectCount(q.Key))
	}
}

// Get returns the question with only userID's mastery record attached.
func (s *Service) Get(ctx context.Context, userID, id string) (*Question, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByID() > %w", err)
	}
	if q == nil {
		return nil, ErrNotFound
	}
	if !q.CanRead(userID) {
		return nil, ErrForbidden
	}

	own := make(map[string]mastery.Record, 1)
	if rec, ok := q.Mastery[userID]; ok {
		own[userID] = rec
	}
	q.Mastery = own
	return q, nil
}

// Update replaces the content of a question owned by userID. Identity,
// creation time and mastery records are kept; a generated explanation is
// kept unless the update provides one.
func (s *Service) Update(ctx context.Context, userID, id string, q Question) (*Question, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByID() > %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !existing.CanWrite(userID) {
		return nil, ErrForbidden
	}

	q.ID = existing.ID
	q.CreatorID = existing.CreatorID
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = s.now().UTC()
	q.Mastery = nil
	if q.GeneratedExplanation == "" {
		q.GeneratedExplanation = existing.GeneratedExplanation
	}
	if q.Instructions == "" && q.Kind() == KindMultipleCorrect {
		q.Instructions = DefaultInstructions(CorrectCount(q.Key))
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &q); err != nil {
		return nil, fmt.Errorf("repo.Update() > %w", err)
	}
	return &q, nil
}

// Delete removes a question owned by userID and every mastery record on it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.FindByID() > %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if !existing.CanWrite(userID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo.Delete() > %w", err)
	}
	slog.Info("question deleted", "id", id, "creator", userID)
	return nil
}

// Search lists the questions userID can read that match filter.
func (s *Service) Search(ctx context.Context, userID string, filter SearchFilter) ([]Question, error) {
	visibility, err := ParseVisibility(string(filter.Visibility))
	if err != nil {
		return nil, err
	}
	filter.Visibility = visibility
	filter.UserID = userID

	questions, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("repo.Search() > %w", err)
	}
	return questions, nil
}

// Stats summarizes userID's mastery records at now.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	stats, err := s.repo.Stats(ctx, userID, s.now())
	if err != nil {
		return Stats{}, fmt.Errorf("repo.Stats() > %w", err)
	}
	return stats, nil
}
