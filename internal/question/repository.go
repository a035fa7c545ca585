package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prite-study/pritecards/internal/database"
	"github.com/prite-study/pritecards/internal/mastery"
)

// Visibility selects which questions a search covers, relative to the
// acting user.
type Visibility string

const (
	VisibilityAll    Visibility = "all"
	VisibilityMine   Visibility = "mine"
	VisibilityPublic Visibility = "public"
)

// ParseVisibility accepts "", all, mine and public; "" means all.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case "", VisibilityAll:
		return VisibilityAll, nil
	case VisibilityMine, VisibilityPublic:
		return Visibility(s), nil
	}
	return "", fmt.Errorf("%w: unknown visibility %q", ErrInvalidQuestion, s)
}

// SearchFilter narrows a question search. Empty fields do not filter.
type SearchFilter struct {
	UserID     string
	Visibility Visibility
	Text       string
	Part       string
	Category   string
	Kind       Kind
	// MissingExplanation keeps only questions with no generated explanation.
	MissingExplanation bool
	Limit              int
}

// MasteryEntry is a stored mastery record with the version it was read at.
// Version 0 means the record does not exist yet.
type MasteryEntry struct {
	UserID  string
	Record  mastery.Record
	Version int64
}

// Stats summarizes one user's mastery records.
type Stats struct {
	Total       int     `db:"total" json:"total"`
	Due         int     `db:"due" json:"due"`
	Learned     int     `db:"learned" json:"learned"`
	AverageEase float64 `db:"average_ease" json:"averageEase"`
}

// StudyRecord is one of a user's mastery records with the question it
// belongs to.
type StudyRecord struct {
	QuestionID   string         `json:"questionId"`
	QuestionText string         `json:"questionText"`
	Part         string         `json:"part"`
	Category     string         `json:"category"`
	Record       mastery.Record `json:"studyData"`
}

//go:generate mockgen -source=repository.go -destination=../mocks/question/mock_repository.go -package=mock_question Repository

// Repository persists questions and their per-user mastery records.
type Repository interface {
	Create(ctx context.Context, q *Question) error
	BatchCreate(ctx context.Context, questions []*Question) error
	// FindByID returns nil, nil when the question does not exist.
	FindByID(ctx context.Context, id string) (*Question, error)
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter SearchFilter) ([]Question, error)
	UpdateGeneratedExplanation(ctx context.Context, id string, text string) error

	// GetMasteryRecord returns nil, nil when the user has no record yet.
	GetMasteryRecord(ctx context.Context, questionID, userID string) (*MasteryEntry, error)
	// PutMasteryRecord stores entry.Record if the stored version still
	// equals entry.Version. It returns ErrNotFound, ErrForbidden or
	// ErrConflict.
	PutMasteryRecord(ctx context.Context, questionID, userID string, entry MasteryEntry) error
	// FindDue returns the IDs of questions userID can read whose record for
	// userID is due at now.
	FindDue(ctx context.Context, userID string, now time.Time) ([]string, error)
	Stats(ctx context.Context, userID string, now time.Time) (Stats, error)
	// ResetMastery puts every record of userID back to the defaults, due at
	// now, and returns the number of records reset.
	ResetMastery(ctx context.Context, userID string, now time.Time) (int64, error)
	// StudyData lists the records of userID on questions they can read.
	StudyData(ctx context.Context, userID string) ([]StudyRecord, error)
}

// DBRepository implements Repository on sqlx. Queries are written with ?
// placeholders and rebound for the driver.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const questionColumns = "id, creator_id, question_text, option_texts, kind, correct_answers, correct_count, " +
	"explanation, generated_explanation, instructions, part, category, tags, exam_number, exam_year, " +
	"is_public, created_at, updated_at"

// optionSearchColumn holds the searchable form of the option texts: the lowercased
// values one per line, without JSON keys or escaping.
const optionSearchColumn = "option_search"

const masteryColumns = "question_id, user_id, ease_factor, repetitions, interval_days, reviewed_at, next_review_at, version"

type questionRow struct {
	ID                   string    `db:"id"`
	CreatorID            string    `db:"creator_id"`
	Text                 string    `db:"question_text"`
	OptionTexts          string    `db:"option_texts"`
	OptionSearch         string    `db:"option_search"`
	Kind                 string    `db:"kind"`
	CorrectAnswers       string    `db:"correct_answers"`
	CorrectCount         int       `db:"correct_count"`
	Explanation          string    `db:"explanation"`
	GeneratedExplanation string    `db:"generated_explanation"`
	Instructions         string    `db:"instructions"`
	Part                 string    `db:"part"`
	Category             string    `db:"category"`
	Tags                 string    `db:"tags"`
	Number               string    `db:"exam_number"`
	Year                 string    `db:"exam_year"`
	IsPublic             bool      `db:"is_public"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type masteryRow struct {
	QuestionID   string       `db:"question_id"`
	UserID       string       `db:"user_id"`
	EaseFactor   float64      `db:"ease_factor"`
	Repetitions  int          `db:"repetitions"`
	IntervalDays int          `db:"interval_days"`
	ReviewedAt   sql.NullTime `db:"reviewed_at"`
	NextReviewAt time.Time    `db:"next_review_at"`
	Version      int64        `db:"version"`
}

func newQuestionRow(q *Question) (questionRow, error) {
	optionTexts, err := json.Marshal(q.Options)
	if err != nil {
		return questionRow{}, fmt.Errorf("json.Marshal(options) > %w", err)
	}
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return questionRow{}, fmt.Errorf("json.Marshal(tags) > %w", err)
	}

	var correct LetterSet
	if q.Key != nil {
		correct = q.Key.CorrectLetters()
	}
	return questionRow{
		ID:                   q.ID,
		CreatorID:            q.CreatorID,
		Text:                 q.Text,
		OptionTexts:          string(optionTexts),
		OptionSearch:         optionSearchText(q.Options),
		Kind:                 string(q.Kind()),
		CorrectAnswers:       correct.String(),
		CorrectCount:         CorrectCount(q.Key),
		Explanation:          q.Explanation,
		GeneratedExplanation: q.GeneratedExplanation,
		Instructions:         q.Instructions,
		Part:                 q.Part,
		Category:             q.Category,
		Tags:                 string(tagsJSON),
		Number:               q.Number,
		Year:                 q.Year,
		IsPublic:             q.IsPublic,
		CreatedAt:            q.CreatedAt.UTC(),
		UpdatedAt:            q.UpdatedAt.UTC(),
	}, nil
}

func optionSearchText(o Options) string {
	present := o.Present()
	values := make([]string, len(present))
	for i, l := range present {
		values[i] = strings.ToLower(o.Get(l))
	}
	return strings.Join(values, "\n")
}

// likeEscape is the escape character of containsPattern. It is not a
// backslash because MySQL treats backslashes in string literals specially.
const likeEscape = "!"

// containsPattern matches text anywhere, with LIKE wildcards in text taken
// literally.
func containsPattern(text string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(text) + "%"
}

func (row questionRow) toQuestion() (Question, error) {
	var options Options
	if err := json.Unmarshal([]byte(row.OptionTexts), &options); err != nil {
		return Question{}, fmt.Errorf("decode options of question %s: %w", row.ID, err)
	}
	var tags []string
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return Question{}, fmt.Errorf("decode tags of question %s: %w", row.ID, err)
		}
	}
	kind, err := ParseKind(row.Kind)
	if err != nil {
		return Question{}, err
	}
	correct, err := ParseLetterSet(row.CorrectAnswers)
	if err != nil {
		return Question{}, fmt.Errorf("decode answers of question %s: %w", row.ID, err)
	}
	key, err := NewAnswerKey(kind, correct, row.CorrectCount)
	if err != nil {
		return Question{}, err
	}

	return Question{
		ID:        row.ID,
		CreatorID: row.CreatorID,
		Text:      row.Text,
		Options:   options,
		Key:       key,
		Metadata: Metadata{
			Part:     row.Part,
			Category: row.Category,
			Tags:     tags,
			Number:   row.Number,
			Year:     row.Year,
		},
		IsPublic:             row.IsPublic,
		Explanation:          row.Explanation,
		GeneratedExplanation: row.GeneratedExplanation,
		Instructions:         row.Instructions,
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}, nil
}

func newMasteryRow(questionID, userID string, rec mastery.Record, version int64) masteryRow {
	row := masteryRow{
		QuestionID:   questionID,
		UserID:       userID,
		EaseFactor:   rec.EaseFactor,
		Repetitions:  rec.Repetitions,
		IntervalDays: rec.Interval,
		NextReviewAt: rec.NextReviewAt.UTC(),
		Version:      version,
	}
	if rec.Reviewed() {
		row.ReviewedAt = sql.NullTime{Time: rec.ReviewedAt.UTC(), Valid: true}
	}
	return row
}

func (row masteryRow) toEntry() MasteryEntry {
	rec := mastery.Record{
		EaseFactor:   row.EaseFactor,
		Repetitions:  row.Repetitions,
		Interval:     row.IntervalDays,
		NextReviewAt: row.NextReviewAt.UTC(),
	}
	if row.ReviewedAt.Valid {
		rec.ReviewedAt = row.ReviewedAt.Time.UTC()
	}
	return MasteryEntry{UserID: row.UserID, Record: rec, Version: row.Version}
}

const insertQuestionQuery = "INSERT INTO questions (" + questionColumns + ", " + optionSearchColumn + ") VALUES (" +
	":id, :creator_id, :question_text, :option_texts, :kind, :correct_answers, :correct_count, " +
	":explanation, :generated_explanation, :instructions, :part, :category, :tags, :exam_number, :exam_year, " +
	":is_public, :created_at, :updated_at, :option_search)"

const insertMasteryQuery = "INSERT INTO mastery_records (" + masteryColumns + ") VALUES (" +
	":question_id, :user_id, :ease_factor, :repetitions, :interval_days, :reviewed_at, :next_review_at, :version)"

// Create inserts q and a due-now mastery record for its creator.
func (r *DBRepository) Create(ctx context.Context, q *Question) error {
	return r.BatchCreate(ctx, []*Question{q})
}

// BatchCreate inserts all questions and their creators' mastery records in
// one transaction.
func (r *DBRepository) BatchCreate(ctx context.Context, questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, q := range questions {
			row, err := newQuestionRow(q)
			if err != nil {
				return err
			}
			if _, err := tx.NamedExecContext(ctx, insertQuestionQuery, row); err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
			creatorRecord := newMasteryRow(q.ID, q.CreatorID, mastery.NewRecord(q.CreatedAt), 1)
			if _, err := tx.NamedExecContext(ctx, insertMasteryQuery, creatorRecord); err != nil {
				return fmt.Errorf("insert mastery record of question %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

func (r *DBRepository) FindByID(ctx context.Context, id string) (*Question, error) {
	var row questionRow
	query := r.db.Rebind("SELECT " + questionColumns + " FROM questions WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext(question %s) > %w", id, err)
	}
	q, err := row.toQuestion()
	if err != nil {
		return nil, err
	}

	var masteryRows []masteryRow
	query = r.db.Rebind("SELECT " + masteryColumns + " FROM mastery_records WHERE question_id = ? ORDER BY user_id")
	if err := r.db.SelectContext(ctx, &masteryRows, query, id); err != nil {
		return nil, fmt.Errorf("db.SelectContext(mastery records of %s) > %w", id, err)
	}
	q.Mastery = make(map[string]mastery.Record, len(masteryRows))
	for _, m := range masteryRows {
		q.Mastery[m.UserID] = m.toEntry().Record
	}
	return &q, nil
}

// Update overwrites the stored question content. Mastery records are kept.
func (r *DBRepository) Update(ctx context.Context, q *Question) error {
	row, err := newQuestionRow(q)
	if err != nil {
		return err
	}
	query := `UPDATE questions SET
    question_text = :question_text, option_texts = :option_texts, option_search = :option_search, kind = :kind,
    correct_answers = :correct_answers, correct_count = :correct_count,
    explanation = :explanation, generated_explanation = :generated_explanation,
    instructions = :instructions, part = :part, category = :category, tags = :tags,
    exam_number = :exam_number, exam_year = :exam_year, is_public = :is_public,
    updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(update question %s) > %w", q.ID, err)
	}
	return expectAffected(result, ErrNotFound)
}

// Delete removes the question together with every user's mastery record.
func (r *DBRepository) Delete(ctx context.Context, id string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM mastery_records WHERE question_id = ?"), id); err != nil {
			return fmt.Errorf("delete mastery records of %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM questions WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete question %s: %w", id, err)
		}
		return expectAffected(result, ErrNotFound)
	})
}

func (r *DBRepository) Search(ctx context.Context, filter SearchFilter) ([]Question, error) {
	var (
		conditions []string
		args       []interface{}
	)
	switch filter.Visibility {
	case VisibilityMine:
		conditions = append(conditions, "creator_id = ?")
		args = append(args, filter.UserID)
	case VisibilityPublic:
		conditions = append(conditions, "is_public = ?")
		args = append(args, true)
	default:
		conditions = append(conditions, "(creator_id = ? OR is_public = ?)")
		args = append(args, filter.UserID, true)
	}
	if text := strings.ToLower(strings.TrimSpace(filter.Text)); text != "" {
		pattern := containsPattern(text)
		conditions = append(conditions, "(LOWER(question_text) LIKE ? ESCAPE '"+likeEscape+"'"+
			" OR option_search LIKE ? ESCAPE '"+likeEscape+"'"+
			" OR LOWER(explanation) LIKE ? ESCAPE '"+likeEscape+"')")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Part != "" {
		conditions = append(conditions, "part = ?")
		args = append(args, filter.Part)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.MissingExplanation {
		conditions = append(conditions, "generated_explanation = ?")
		args = append(args, "")
	}

	query := "SELECT " + questionColumns + " FROM questions WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(search questions) > %w", err)
	}
	questions := make([]Question, 0, len(rows))
	for _, row := range rows {
		q, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *DBRepository) UpdateGeneratedExplanation(ctx context.Context, id string, text string) error {
	query := r.db.Rebind("UPDATE questions SET generated_explanation = ? WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, text, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update explanation of %s) > %w", id, err)
	}
	return expectAffected(result, ErrNotFound)
}

func (r *DBRepository) GetMasteryRecord(ctx context.Context, questionID, userID string) (*MasteryEntry, error) {
	var row masteryRow
	query := r.db.Rebind("SELECT " + masteryColumns + " FROM mastery_records WHERE question_id = ? AND user_id = ?")
	if err := r.db.GetContext(ctx, &row, query, questionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext(mastery record) > %w", err)
	}
	entry := row.toEntry()
	return &entry, nil
}

func (r *DBRepository) PutMasteryRecord(ctx context.Context, questionID, userID string, entry MasteryEntry) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var access struct {
			CreatorID string `db:"creator_id"`
			IsPublic  bool   `db:"is_public"`
		}
		query := tx.Rebind("SELECT creator_id, is_public FROM questions WHERE id = ?")
		if err := tx.GetContext(ctx, &access, query, questionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load question %s: %w", questionID, err)
		}
		if !access.IsPublic && access.CreatorID != userID {
			return ErrForbidden
		}

		if entry.Version == 0 {
			var existing int
			query := tx.Rebind("SELECT COUNT(*) FROM mastery_records WHERE question_id = ? AND user_id = ?")
			if err := tx.GetContext(ctx, &existing, query, questionID, userID); err != nil {
				return fmt.Errorf("count mastery records: %w", err)
			}
			if existing > 0 {
				return ErrConflict
			}
			row := newMasteryRow(questionID, userID, entry.Record, 1)
			if _, err := tx.NamedExecContext(ctx, insertMasteryQuery, row); err != nil {
				// A concurrent first review inserted between the count and here
				if database.IsUniqueViolation(err) {
					return ErrConflict
				}
				return fmt.Errorf("insert mastery record: %w", err)
			}
			return nil
		}

		row := newMasteryRow(questionID, userID, entry.Record, entry.Version)
		result, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE mastery_records SET
    ease_factor = ?, repetitions = ?, interval_days = ?, reviewed_at = ?, next_review_at = ?,
    version = version + 1
WHERE question_id = ? AND user_id = ? AND version = ?`),
			row.EaseFactor, row.Repetitions, row.IntervalDays, row.ReviewedAt, row.NextReviewAt,
			questionID, userID, entry.Version)
		if err != nil {
			return fmt.Errorf("update mastery record: %w", err)
		}
		return expectAffected(result, ErrConflict)
	})
}

func (r *DBRepository) FindDue(ctx context.Context, userID string, now time.Time) ([]string, error) {
	query := r.db.Rebind(`SELECT m.question_id FROM mastery_records m
JOIN questions q ON q.id = m.question_id
WHERE m.user_id = ? AND m.next_review_at <= ? AND (q.creator_id = ? OR q.is_public = ?)
ORDER BY m.next_review_at, m.question_id`)

	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, userID, now.UTC(), userID, true); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due questions) > %w", err)
	}
	return ids, nil
}

func (r *DBRepository) Stats(ctx context.Context, userID string, now time.Time) (Stats, error) {
	query := r.db.Rebind(`SELECT
    COUNT(*) AS total,
    COALESCE(SUM(CASE WHEN next_review_at <= ? THEN 1 ELSE 0 END), 0) AS due,
    COALESCE(SUM(CASE WHEN repetitions > 0 THEN 1 ELSE 0 END), 0) AS learned,
    COALESCE(AVG(ease_factor), 0) AS average_ease
FROM mastery_records WHERE user_id = ?`)

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, now.UTC(), userID); err != nil {
		return Stats{}, fmt.Errorf("db.GetContext(stats) > %w", err)
	}
	return stats, nil
}

func (r *DBRepository) ResetMastery(ctx context.Context, userID string, now time.Time) (int64, error) {
	fresh := newMasteryRow("", userID, mastery.NewRecord(now), 0)
	query := r.db.Rebind(`UPDATE mastery_records SET
    ease_factor = ?, repetitions = ?, interval_days = ?, reviewed_at = NULL, next_review_at = ?,
    version = version + 1
WHERE user_id = ?`)
	result, err := r.db.ExecContext(ctx, query,
		fresh.EaseFactor, fresh.Repetitions, fresh.IntervalDays, fresh.NextReviewAt, userID)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(reset mastery of %s) > %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return n, nil
}

func (r *DBRepository) StudyData(ctx context.Context, userID string) ([]StudyRecord, error) {
	var rows []struct {
		masteryRow
		QuestionText string `db:"question_text"`
		Part         string `db:"part"`
		Category     string `db:"category"`
	}
	query := r.db.Rebind(`SELECT m.question_id, m.user_id, m.ease_factor, m.repetitions, m.interval_days,
    m.reviewed_at, m.next_review_at, m.version, q.question_text, q.part, q.category
FROM mastery_records m
JOIN questions q ON q.id = m.question_id
WHERE m.user_id = ? AND (q.creator_id = ? OR q.is_public = ?)
ORDER BY q.created_at, m.question_id`)
	if err := r.db.SelectContext(ctx, &rows, query, userID, userID, true); err != nil {
		return nil, fmt.Errorf("db.SelectContext(study data of %s) > %w", userID, err)
	}

	records := make([]StudyRecord, len(rows))
	for i, row := range rows {
		records[i] = StudyRecord{
			QuestionID:   row.QuestionID,
			QuestionText: row.QuestionText,
			Part:         row.Part,
			Category:     row.Category,
			Record:       row.toEntry().Record,
		}
	}
	return records, nil
}

func expectAffected(result sql.Result, errNone error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}
