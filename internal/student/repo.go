package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Student is a registered portal account. Admins are students with the
// admin role; they are seeded from configuration, not self-registered.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Standard     string    `json:"standard"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository is the persistence contract the service depends on.
type Repository interface {
	Create(ctx context.Context, st Student) (Student, error)
	GetByID(ctx context.Context, id string) (Student, error)
	GetByEmail(ctx context.Context, email string) (Student, error)
}

// PostgresRepository persists students in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const studentColumns = `id, name, email, password_hash, standard, role, created_at`

// Create inserts a new student. A duplicate email maps to ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, email, password_hash, standard, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, st.ID, st.Name, st.Email, st.PasswordHash, st.Standard, st.Role, st.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Student{}, ErrEmailTaken
		}
		return Student{}, err
	}
	return st, nil
}

// GetByID returns a student or ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

// GetByEmail returns a student or ErrNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE email = $1`, email)
	return scanStudent(row)
}

func scanStudent(row *sql.Row) (Student, error) {
	var st Student
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.PasswordHash, &st.Standard, &st.Role, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}
