package database

import "strings"

type dialect struct {
	timestamp string
	boolean   string
	// inlineIndex is used by MySQL, which has no CREATE INDEX IF NOT EXISTS.
	inlineIndex bool
}

func dialectFor(driver string) dialect {
	switch driver {
	case DriverMySQL:
		return dialect{timestamp: "DATETIME(6)", boolean: "BOOLEAN", inlineIndex: true}
	case DriverPostgres:
		return dialect{timestamp: "TIMESTAMPTZ", boolean: "BOOLEAN"}
	default:
		return dialect{timestamp: "TIMESTAMP", boolean: "BOOLEAN"}
	}
}

const usersTable = `CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    username VARCHAR(100) NOT NULL UNIQUE,
    display_name VARCHAR(200) NOT NULL,
    questions_per_session INTEGER NOT NULL,
    show_explanations {{bool}} NOT NULL,
    created_at {{ts}} NOT NULL
)`

const questionsTable = `CREATE TABLE IF NOT EXISTS questions (
    id VARCHAR(36) PRIMARY KEY,
    creator_id VARCHAR(64) NOT NULL,
    question_text TEXT NOT NULL,
    option_texts TEXT NOT NULL,
    option_search TEXT NOT NULL,
    kind VARCHAR(20) NOT NULL,
    correct_answers VARCHAR(64) NOT NULL,
    correct_count INTEGER NOT NULL,
    explanation TEXT NOT NULL,
    generated_explanation TEXT NOT NULL,
    instructions TEXT NOT NULL,
    part VARCHAR(2) NOT NULL,
    category VARCHAR(200) NOT NULL,
    tags TEXT NOT NULL,
    exam_number VARCHAR(20) NOT NULL,
    exam_year VARCHAR(4) NOT NULL,
    is_public {{bool}} NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL{{questions_index}}
)`

const masteryTable = `CREATE TABLE IF NOT EXISTS mastery_records (
    question_id VARCHAR(36) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    ease_factor DOUBLE PRECISION NOT NULL,
    repetitions INTEGER NOT NULL,
    interval_days INTEGER NOT NULL,
    reviewed_at {{ts}} NULL,
    next_review_at {{ts}} NOT NULL,
    version INTEGER NOT NULL,
    PRIMARY KEY (question_id, user_id),
    FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE{{mastery_index}}
)`

// schema returns the DDL statements for driver, one statement each.
func schema(driver string) []string {
	d := dialectFor(driver)
	questionsIndex, masteryIndex := "", ""
	if d.inlineIndex {
		questionsIndex = ",\n    INDEX idx_questions_creator (creator_id)"
		masteryIndex = ",\n    INDEX idx_mastery_due (user_id, next_review_at)"
	}

	r := strings.NewReplacer(
		"{{ts}}", d.timestamp,
		"{{bool}}", d.boolean,
		"{{questions_index}}", questionsIndex,
		"{{mastery_index}}", masteryIndex,
	)
	stmts := []string{
		r.Replace(usersTable),
		r.Replace(questionsTable),
		r.Replace(masteryTable),
	}
	if !d.inlineIndex {
		stmts = append(stmts,
			"CREATE INDEX IF NOT EXISTS idx_questions_creator ON questions (creator_id)",
			"CREATE INDEX IF NOT EXISTS idx_mastery_due ON mastery_records (user_id, next_review_at)",
		)
	}
	return stmts
}
