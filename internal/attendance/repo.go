package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"schoolportal/internal/student"
)

// Entry is one attendance record. Student fields are joined in on reads so
// admin listings do not need a second lookup.
type Entry struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`

	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
	Standard     string `json:"standard,omitempty"`
}

// Repository is the persistence contract the service depends on.
type Repository interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	ListByStudent(ctx context.Context, studentID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

// PostgresRepository persists attendance in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a new entry. A missing student maps to student.ErrNotFound
// via the foreign key.
func (r *PostgresRepository) Insert(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, date, status)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.StudentID, e.Date, e.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Entry{}, student.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

// List returns all entries, newest first, with student details joined in.
func (r *PostgresRepository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.student_id, a.date, a.status, s.name, s.email, s.standard
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		ORDER BY a.date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Date, &e.Status, &e.StudentName, &e.StudentEmail, &e.Standard); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListByStudent returns one student's entries, newest first.
func (r *PostgresRepository) ListByStudent(ctx context.Context, studentID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, status
		FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Date, &e.Status); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry by id. Deleting a missing id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return err
}
