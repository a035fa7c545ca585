package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/testutil"
)

func TestDBRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDBRepository(testutil.NewTestDB(t))
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	alice := &User{ID: "u-alice", Username: "alice", DisplayName: "Alice", Settings: DefaultSettings(), CreatedAt: createdAt}
	bob := &User{ID: "u-bob", Username: "bob", DisplayName: "Bob", Settings: Settings{QuestionsPerSession: 5}, CreatedAt: createdAt}
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.FindByID(ctx, "u-alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, DefaultSettings(), got.Settings)
	assert.True(t, got.CreatedAt.Equal(createdAt))

	got, err = repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-bob", got.ID)
	assert.False(t, got.Settings.ShowExplanations)

	missing, err := repo.FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.Create(ctx, &User{ID: "u-other", Username: "alice", CreatedAt: createdAt}), "username is unique")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Username)

	require.NoError(t, repo.UpdateSettings(ctx, "u-bob", Settings{QuestionsPerSession: 50, ShowExplanations: true}))
	got, err = repo.FindByID(ctx, "u-bob")
	require.NoError(t, err)
	assert.Equal(t, Settings{QuestionsPerSession: 50, ShowExplanations: true}, got.Settings)

	assert.ErrorIs(t, repo.UpdateSettings(ctx, "nobody", DefaultSettings()), ErrNotFound)
}

func TestDBRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewDBRepository(db)
	questions := question.NewDBRepository(db)
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var options question.Options
	options.Set('A', "Lithium")
	options.Set('B', "Valproate")
	newQuestion := func(id, creator string) *question.Question {
		return &question.Question{
			ID:        id,
			CreatorID: creator,
			Text:      "Question " + id,
			Options:   options,
			Key:       question.Standard{Answer: 'A'},
			Metadata:  question.Metadata{Part: "1", Year: "2024"},
			IsPublic:  true,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
	}
	require.NoError(t, questions.BatchCreate(ctx, []*question.Question{newQuestion("q-alice", "u-alice"), newQuestion("q-bob", "u-bob")}))
	require.NoError(t, questions.PutMasteryRecord(ctx, "q-alice", "u-bob", question.MasteryEntry{Record: mastery.NewRecord(createdAt)}))
	require.NoError(t, repo.Create(ctx, &User{ID: "u-bob", Username: "bob", Settings: DefaultSettings(), CreatedAt: createdAt}))

	removed, err := repo.Delete(ctx, "u-bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	got, err := repo.FindByID(ctx, "u-bob")
	require.NoError(t, err)
	assert.Nil(t, got)
	for _, id := range []string{"q-alice", "q-bob"} {
		entry, err := questions.GetMasteryRecord(ctx, id, "u-bob")
		require.NoError(t, err)
		assert.Nil(t, entry, id)
	}

	// Other users' records and the deleted user's questions are kept
	entry, err := questions.GetMasteryRecord(ctx, "q-alice", "u-alice")
	require.NoError(t, err)
	assert.NotNil(t, entry)
	kept, err := questions.FindByID(ctx, "q-bob")
	require.NoError(t, err)
	assert.NotNil(t, kept)

	// Records alone are enough for an unregistered user
	removed, err = repo.Delete(ctx, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.Delete(ctx, "u-alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBRepository_FindAll_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, username, display_name, questions_per_session, show_explanations, created_at FROM users ORDER BY username").
		WillReturnError(errors.New("connection refused"))

	_, err = NewDBRepository(sqlx.NewDb(db, "mysql")).FindAll(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
