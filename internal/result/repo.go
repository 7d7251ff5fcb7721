package result

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Result is one scored quiz attempt. Rows are student-keyed and append-only:
// a single INSERT is atomic, so concurrent submissions for the same student
// can never lose each other's writes.
type Result struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	QuizID    string    `json:"quiz_id"`
	Subject   string    `json:"subject"`
	Standard  string    `json:"standard"`
	Level     string    `json:"level"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the persistence contract the service depends on.
type Repository interface {
	Insert(ctx context.Context, res Result) (Result, error)
	ListByStudent(ctx context.Context, studentID string) ([]Result, error)
}

// PostgresRepository persists results in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert appends one result row.
func (r *PostgresRepository) Insert(ctx context.Context, res Result) (Result, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (id, student_id, quiz_id, subject, standard, level, score, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, res.ID, res.StudentID, res.QuizID, res.Subject, res.Standard, res.Level, res.Score, res.Total, res.CreatedAt)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// ListByStudent returns a student's full result history, oldest first.
func (r *PostgresRepository) ListByStudent(ctx context.Context, studentID string) ([]Result, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, quiz_id, subject, standard, level, score, total, created_at
		FROM results
		WHERE student_id = $1
		ORDER BY created_at ASC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.StudentID, &res.QuizID, &res.Subject, &res.Standard, &res.Level, &res.Score, &res.Total, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
