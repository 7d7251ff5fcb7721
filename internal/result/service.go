package result

import (
	"context"
	"errors"
	"math"

	"schoolportal/internal/student"
)

// PassThreshold is the percentage a result must reach to count as passed.
const PassThreshold = 70

// ErrInvalidScore is returned when a submission violates 0 <= score <= total.
var ErrInvalidScore = errors.New("score must satisfy 0 <= score <= total")

// Submission carries one completed quiz attempt.
type Submission struct {
	QuizID   string `json:"quiz_id" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Standard string `json:"standard"`
	Level    string `json:"level"`
	Score    int    `json:"score"`
	Total    int    `json:"total" binding:"required"`
}

// Summary aggregates a student's result history. Average and Highest are
// rounded percentages; Passed counts results at or above PassThreshold.
type Summary struct {
	Count   int `json:"count"`
	Passed  int `json:"passed"`
	Average int `json:"average"`
	Highest int `json:"highest"`
}

// StudentDirectory resolves student ids; satisfied by student.Repository.
type StudentDirectory interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// Service records and reads quiz results.
type Service struct {
	repo     Repository
	students StudentDirectory
}

// NewService creates a service backed by a result repository and a student lookup.
func NewService(repo Repository, students StudentDirectory) *Service {
	return &Service{repo: repo, students: students}
}

// Record validates and appends one result, returning the student's updated
// history. A missing student yields student.ErrNotFound before any write.
func (s *Service) Record(ctx context.Context, studentID string, sub Submission) ([]Result, error) {
	if sub.Total <= 0 || sub.Score < 0 || sub.Score > sub.Total {
		return nil, ErrInvalidScore
	}
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	_, err := s.repo.Insert(ctx, Result{
		StudentID: studentID,
		QuizID:    sub.QuizID,
		Subject:   sub.Subject,
		Standard:  sub.Standard,
		Level:     sub.Level,
		Score:     sub.Score,
		Total:     sub.Total,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// History returns a student's results, oldest first.
func (s *Service) History(ctx context.Context, studentID string) ([]Result, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// Percentage normalizes a score to 0..100.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// Summarize computes aggregate statistics over a result history. Pure and
// total: empty input yields the zero summary.
func Summarize(results []Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	var sum, highest float64
	passed := 0
	for _, res := range results {
		pct := Percentage(res.Score, res.Total)
		sum += pct
		if pct > highest {
			highest = pct
		}
		if pct >= PassThreshold {
			passed++
		}
	}

	return Summary{
		Count:   len(results),
		Passed:  passed,
		Average: int(math.Round(sum / float64(len(results)))),
		Highest: int(math.Round(highest)),
	}
}
