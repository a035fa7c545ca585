// Package user stores learners and their study settings. Users carry no
// credentials; the acting user is identified by the caller.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prite-study/pritecards/internal/validation"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidUser = errors.New("invalid user")
	ErrDuplicate   = errors.New("username already taken")
)

const DefaultQuestionsPerSession = 20

type Settings struct {
	QuestionsPerSession int  `json:"questionsPerSession" validate:"min=1,max=500"`
	ShowExplanations    bool `json:"showExplanations"`
}

func DefaultSettings() Settings {
	return Settings{QuestionsPerSession: DefaultQuestionsPerSession, ShowExplanations: true}
}

type User struct {
	ID          string    `json:"id" validate:"required,max=64"`
	Username    string    `json:"username" validate:"required,max=100"`
	DisplayName string    `json:"displayName" validate:"max=200"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u User) Validate() error {
	if err := validation.Struct(u); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	return nil
}

// Service resolves users and their settings.
type Service struct {
	repo     Repository
	defaults Settings
	now      func() time.Time
}

// NewService uses defaults for users that have not been registered.
func NewService(repo Repository, defaults Settings) *Service {
	return &Service{repo: repo, defaults: defaults, now: time.Now}
}

func (s *Service) Register(ctx context.Context, id, username, displayName string) (*User, error) {
	if displayName == "" {
		displayName = username
	}
	u := User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Settings:    s.defaults,
		CreatedAt:   s.now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByUsername() > %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicate
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		return nil, fmt.Errorf("repo.Create() > %w", err)
	}
	slog.Info("user registered", "id", id, "username", username)
	return &u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByID() > %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Settings returns the stored settings of id, or the defaults when id has
// not been registered.
func (s *Service) Settings(ctx context.Context, id string) (Settings, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Settings{}, fmt.Errorf("repo.FindByID() > %w", err)
	}
	if u == nil {
		return s.defaults, nil
	}
	return u.Settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, id string, settings Settings) error {
	if err := validation.Struct(settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	if err := s.repo.UpdateSettings(ctx, id, settings); err != nil {
		return fmt.Errorf("repo.UpdateSettings() > %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll() > %w", err)
	}
	return users, nil
}

// Delete removes id's profile and study progress. The questions id created
// stay available to other users.
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	records, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("repo.Delete() > %w", err)
	}
	slog.Info("user deleted", "id", id, "mastery_records", records)
	return records, nil
}
