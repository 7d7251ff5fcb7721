package attendance

import (
	"context"
	"errors"
	"time"
)

// Valid status values.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// ErrInvalidStatus is returned for statuses outside {present, absent}.
var ErrInvalidStatus = errors.New("status must be 'present' or 'absent'")

// NewEntry carries admin input for one attendance record.
type NewEntry struct {
	StudentID string    `json:"student_id" binding:"required"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status" binding:"required"`
}

// Service validates and persists attendance records. Role enforcement lives
// in the HTTP middleware; every caller that reaches this service is an admin.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records attendance for a student. The date defaults to now.
func (s *Service) Create(ctx context.Context, ne NewEntry) (Entry, error) {
	if ne.Status != StatusPresent && ne.Status != StatusAbsent {
		return Entry{}, ErrInvalidStatus
	}
	return s.repo.Insert(ctx, Entry{
		StudentID: ne.StudentID,
		Date:      ne.Date,
		Status:    ne.Status,
	})
}

// List returns all attendance entries with student details.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// ListByStudent returns the entries for one student.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Entry, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// Delete removes an entry; repeated deletes of the same id succeed.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
