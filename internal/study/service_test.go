package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/prite-study/pritecards/internal/mastery"
	mock_question "github.com/prite-study/pritecards/internal/mocks/question"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/user"
)

var reviewNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixedSettings user.Settings

func (f fixedSettings) Settings(context.Context, string) (user.Settings, error) {
	return user.Settings(f), nil
}

func newTestService(repo question.Repository, perSession int) *Service {
	s := NewService(repo, fixedSettings{QuestionsPerSession: perSession})
	s.now = func() time.Time { return reviewNow }
	// Identity order keeps assertions stable
	s.shuffle = func(int, func(i, j int)) {}
	return s
}

func TestService_StartSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_question.NewMockRepository(ctrl)
	repo.EXPECT().FindDue(gomock.Any(), "alice", reviewNow).Return([]string{"q1", "q2", "q3"}, nil)

	s, err := newTestService(repo, 2).StartSession(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: "alice", QuestionIDs: []string{"q1", "q2"}}, s)
}

func TestService_StartSession_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_question.NewMockRepository(ctrl)
	repo.EXPECT().FindDue(gomock.Any(), "alice", reviewNow).Return(nil, errors.New("db down"))

	_, err := newTestService(repo, 2).StartSession(context.Background(), "alice")
	assert.ErrorContains(t, err, "db down")
}

func TestService_Review(t *testing.T) {
	existing := mastery.Record{
		EaseFactor:   2.5,
		Repetitions:  2,
		Interval:     6,
		ReviewedAt:   reviewNow.AddDate(0, 0, -6),
		NextReviewAt: reviewNow,
	}
	publicQuestion := &question.Question{ID: "q1", CreatorID: "bob", IsPublic: true}
	privateQuestion := &question.Question{ID: "q1", CreatorID: "bob"}

	tests := []struct {
		name      string
		quality   int
		setupMock func(m *mock_question.MockRepository)
		want      mastery.Record
		wantErr   error
	}{
		{
			name:    "updates an existing record under its version",
			quality: 5,
			setupMock: func(m *mock_question.MockRepository) {
				m.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").
					Return(&question.MasteryEntry{UserID: "alice", Record: existing, Version: 4}, nil)
				m.EXPECT().PutMasteryRecord(gomock.Any(), "q1", "alice", question.MasteryEntry{
					UserID: "alice",
					Record: mastery.Record{
						EaseFactor:   2.6,
						Repetitions:  3,
						Interval:     16,
						ReviewedAt:   reviewNow,
						NextReviewAt: reviewNow.AddDate(0, 0, 16),
					},
					Version: 4,
				}).Return(nil)
			},
			want: mastery.Record{
				EaseFactor:   2.6,
				Repetitions:  3,
				Interval:     16,
				ReviewedAt:   reviewNow,
				NextReviewAt: reviewNow.AddDate(0, 0, 16),
			},
		},
		{
			name:    "first review of a public question starts a record",
			quality: 4,
			setupMock: func(m *mock_question.MockRepository) {
				m.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").Return(nil, nil)
				m.EXPECT().FindByID(gomock.Any(), "q1").Return(publicQuestion, nil)
				m.EXPECT().PutMasteryRecord(gomock.Any(), "q1", "alice", gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ string, entry question.MasteryEntry) error {
						assert.Equal(t, int64(0), entry.Version)
						return nil
					})
			},
			want: mastery.Record{
				EaseFactor:   2.5,
				Repetitions:  1,
				Interval:     1,
				ReviewedAt:   reviewNow,
				NextReviewAt: reviewNow.AddDate(0, 0, 1),
			},
		},
		{
			name:    "private question of another user",
			quality: 4,
			setupMock: func(m *mock_question.MockRepository) {
				m.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").Return(nil, nil)
				m.EXPECT().FindByID(gomock.Any(), "q1").Return(privateQuestion, nil)
			},
			wantErr: question.ErrForbidden,
		},
		{
			name:    "missing question",
			quality: 4,
			setupMock: func(m *mock_question.MockRepository) {
				m.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").Return(nil, nil)
				m.EXPECT().FindByID(gomock.Any(), "q1").Return(nil, nil)
			},
			wantErr: question.ErrNotFound,
		},
		{
			name:    "concurrent review is reported, not retried",
			quality: 3,
			setupMock: func(m *mock_question.MockRepository) {
				m.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").
					Return(&question.MasteryEntry{UserID: "alice", Record: existing, Version: 4}, nil)
				m.EXPECT().PutMasteryRecord(gomock.Any(), "q1", "alice", gomock.Any()).Return(question.ErrConflict).Times(1)
			},
			wantErr: question.ErrConflict,
		},
		{
			name:      "quality out of range",
			quality:   6,
			setupMock: func(m *mock_question.MockRepository) {},
			wantErr:   mastery.ErrInvalidQuality,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_question.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := newTestService(repo, 20).Review(context.Background(), "alice", "q1", tt.quality)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "q1", got.QuestionID)
			assert.Equal(t, tt.quality, got.Quality)
			assert.Equal(t, tt.want.Repetitions, got.Record.Repetitions)
			assert.Equal(t, tt.want.Interval, got.Record.Interval)
			assert.InDelta(t, tt.want.EaseFactor, got.Record.EaseFactor, 1e-9)
			assert.True(t, tt.want.NextReviewAt.Equal(got.Record.NextReviewAt))
		})
	}
}

func TestService_ReviewDifficulty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_question.NewMockRepository(ctrl)
	repo.EXPECT().GetMasteryRecord(gomock.Any(), "q1", "alice").
		Return(&question.MasteryEntry{UserID: "alice", Record: mastery.NewRecord(reviewNow), Version: 1}, nil)
	repo.EXPECT().PutMasteryRecord(gomock.Any(), "q1", "alice", gomock.Any()).Return(nil)

	svc := newTestService(repo, 20)
	got, err := svc.ReviewDifficulty(context.Background(), "alice", "q1", mastery.DifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quality)
	assert.Equal(t, 1, got.Record.Interval)

	_, err = svc.ReviewDifficulty(context.Background(), "alice", "q1", mastery.Difficulty(3))
	assert.ErrorIs(t, err, mastery.ErrInvalidDifficulty)
}

func TestService_DueQuestions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_question.NewMockRepository(ctrl)
	repo.EXPECT().FindDue(gomock.Any(), "alice", reviewNow).Return([]string{"q1", "gone"}, nil)
	repo.EXPECT().FindByID(gomock.Any(), "q1").Return(&question.Question{ID: "q1"}, nil)
	repo.EXPECT().FindByID(gomock.Any(), "gone").Return(nil, nil)

	got, err := newTestService(repo, 20).DueQuestions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "q1", got[0].ID)
}

func TestService_ResetProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_question.NewMockRepository(ctrl)
	repo.EXPECT().ResetMastery(gomock.Any(), "alice", reviewNow).Return(int64(3), nil)
	repo.EXPECT().ResetMastery(gomock.Any(), "bob", reviewNow).Return(int64(0), errors.New("db down"))

	svc := newTestService(repo, 10)
	n, err := svc.ResetProgress(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = svc.ResetProgress(context.Background(), "bob")
	assert.ErrorContains(t, err, "db down")
}
