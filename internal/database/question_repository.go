package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/mcqer/internal/domain"
)

var schemas = map[string][]string{
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			content_hash CHAR(64) NOT NULL UNIQUE,
			question_text TEXT NOT NULL,
			option1 TEXT NOT NULL,
			option2 TEXT NOT NULL,
			option3 TEXT NOT NULL DEFAULT '',
			option4 TEXT NOT NULL DEFAULT '',
			option5 TEXT NOT NULL DEFAULT '',
			correct_option_number SMALLINT NOT NULL,
			has_images BOOLEAN NOT NULL DEFAULT FALSE,
			category TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content_hash TEXT NOT NULL UNIQUE,
			question_text TEXT NOT NULL,
			option1 TEXT NOT NULL,
			option2 TEXT NOT NULL,
			option3 TEXT NOT NULL DEFAULT '',
			option4 TEXT NOT NULL DEFAULT '',
			option5 TEXT NOT NULL DEFAULT '',
			correct_option_number INTEGER NOT NULL,
			has_images INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category)`,
	},
}

const questionColumns = `question_text, option1, option2, option3, option4, option5,
	correct_option_number, has_images, category, source`

// CategoryCount is the number of stored questions in a category.
type CategoryCount struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}

// QuestionRepository persists questions. Uniqueness is enforced by the
// database on the content hash of the question text and options.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Migrate creates the questions table and its indexes if missing.
func (r *QuestionRepository) Migrate(ctx context.Context) error {
	stmts, ok := schemas[r.db.DriverName()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, r.db.DriverName())
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate questions schema: %w", err)
		}
	}

	return nil
}

// InsertIfNew stores q unless a question with the same text and options is
// already present. It reports whether a row was inserted. The check and the
// insert are one statement, so concurrent callers cannot both insert.
func (r *QuestionRepository) InsertIfNew(ctx context.Context, q domain.Question) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO questions (content_hash, ` + questionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING
	`)

	result, err := r.db.ExecContext(
		ctx, query,
		q.Key(), q.QuestionText,
		q.Option1, q.Option2, q.Option3, q.Option4, q.Option5,
		q.CorrectOption, q.HasImages, q.Category, q.Source,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// DistinctCategories returns every category with at least one question.
func (r *QuestionRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM questions ORDER BY category`,
	); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListByCategory returns the questions of a category in insertion order.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	query := r.db.Rebind(`SELECT ` + questionColumns + ` FROM questions WHERE category = ? ORDER BY id`)

	var questions []domain.Question
	if err := r.db.SelectContext(ctx, &questions, query, category); err != nil {
		return nil, fmt.Errorf("failed to list questions for category %s: %w", category, err)
	}
	return questions, nil
}

// CategoryCounts returns the number of stored questions per category.
func (r *QuestionRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	if err := r.db.SelectContext(ctx, &counts,
		`SELECT category, COUNT(*) AS count FROM questions GROUP BY category ORDER BY category`,
	); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	return counts, nil
}
