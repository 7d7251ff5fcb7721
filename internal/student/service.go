package student

import (
	"context"
	"errors"
	"strings"

	"schoolportal/internal/auth"
)

var (
	// ErrNotFound is returned when no student matches the given id or email.
	ErrNotFound = errors.New("student not found")
	// ErrEmailTaken is returned on registration with an already-used email.
	ErrEmailTaken = errors.New("a student with this email already exists")
	// ErrInvalidCredentials is deliberately generic: callers learn nothing
	// about which of email or password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidInput is returned when required registration fields are missing.
	ErrInvalidInput = errors.New("name, email and password are required")
)

// NewStudent carries registration input.
type NewStudent struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Standard string `json:"standard"`
}

// Service coordinates account registration and login.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a student account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, nu NewStudent) (Student, error) {
	nu.Name = strings.TrimSpace(nu.Name)
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	if nu.Name == "" || nu.Email == "" || nu.Password == "" {
		return Student{}, ErrInvalidInput
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return Student{}, err
	}
	return s.repo.Create(ctx, Student{
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: hash,
		Standard:     nu.Standard,
		Role:         auth.RoleStudent,
	})
}

// Login verifies credentials and returns the matching account.
func (s *Service) Login(ctx context.Context, email, password string) (Student, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	st, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, ErrInvalidCredentials
		}
		return Student{}, err
	}
	if !auth.CheckPassword(st.PasswordHash, password) {
		return Student{}, ErrInvalidCredentials
	}
	return st, nil
}

// Get fetches a student by id.
func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureAdmin seeds the configured admin account if it does not exist yet.
// A no-op when email or password is empty.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.repo.Create(ctx, Student{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}
