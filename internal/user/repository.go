package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prite-study/pritecards/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/user/mock_repository.go -package=mock_user Repository

// Repository defines the persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	// FindByID and FindByUsername return nil, nil when no user matches.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateSettings(ctx context.Context, id string, settings Settings) error
	// Delete removes the user and their mastery records on every question
	// and returns the number of records removed. Questions they created are
	// kept.
	Delete(ctx context.Context, id string) (int64, error)
}

// DBRepository implements Repository using sqlx.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const userColumns = "id, username, display_name, questions_per_session, show_explanations, created_at"

type userRow struct {
	ID                  string    `db:"id"`
	Username            string    `db:"username"`
	DisplayName         string    `db:"display_name"`
	QuestionsPerSession int       `db:"questions_per_session"`
	ShowExplanations    bool      `db:"show_explanations"`
	CreatedAt           time.Time `db:"created_at"`
}

func (row userRow) toUser() User {
	return User{
		ID:          row.ID,
		Username:    row.Username,
		DisplayName: row.DisplayName,
		Settings: Settings{
			QuestionsPerSession: row.QuestionsPerSession,
			ShowExplanations:    row.ShowExplanations,
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func (r *DBRepository) Create(ctx context.Context, u *User) error {
	row := userRow{
		ID:                  u.ID,
		Username:            u.Username,
		DisplayName:         u.DisplayName,
		QuestionsPerSession: u.Settings.QuestionsPerSession,
		ShowExplanations:    u.Settings.ShowExplanations,
		CreatedAt:           u.CreatedAt.UTC(),
	}
	query := "INSERT INTO users (" + userColumns + ") VALUES " +
		"(:id, :username, :display_name, :questions_per_session, :show_explanations, :created_at)"
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}

func (r *DBRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *DBRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *DBRepository) findOne(ctx context.Context, column, value string) (*User, error) {
	var row userRow
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE " + column + " = ?")
	if err := r.db.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext(user by %s) > %w", column, err)
	}
	u := row.toUser()
	return &u, nil
}

func (r *DBRepository) FindAll(ctx context.Context) ([]User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users ORDER BY username"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(users) > %w", err)
	}
	users := make([]User, len(rows))
	for i, row := range rows {
		users[i] = row.toUser()
	}
	return users, nil
}

func (r *DBRepository) UpdateSettings(ctx context.Context, id string, settings Settings) error {
	query := r.db.Rebind("UPDATE users SET questions_per_session = ?, show_explanations = ? WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, settings.QuestionsPerSession, settings.ShowExplanations, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update settings) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DBRepository) Delete(ctx context.Context, id string) (int64, error) {
	var records int64
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM mastery_records WHERE user_id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete mastery records of %s: %w", id, err)
		}
		if records, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}

		result, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM users WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
		users, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		// Unregistered users can still have records
		if users == 0 && records == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return records, nil
}
