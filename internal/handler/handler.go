package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/attendance"
	"schoolportal/internal/auth"
	"schoolportal/internal/metrics"
	"schoolportal/internal/queue"
	"schoolportal/internal/quiz"
	"schoolportal/internal/result"
	"schoolportal/internal/student"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	students   *student.Service
	results    *result.Service
	attendance *attendance.Service
	generator  *quiz.Generator
	summaries  *result.SummaryCache
	queue      queue.Queue

	jwtIssuer  string
	jwtKey     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a Handler with the given dependencies.
func New(
	students *student.Service,
	results *result.Service,
	att *attendance.Service,
	generator *quiz.Generator,
	summaries *result.SummaryCache,
	q queue.Queue,
	jwtIssuer, jwtKey string,
	accessTTL, refreshTTL time.Duration,
) *Handler {
	return &Handler{
		students:   students,
		results:    results,
		attendance: att,
		generator:  generator,
		summaries:  summaries,
		queue:      q,
		jwtIssuer:  jwtIssuer,
		jwtKey:     jwtKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register mounts all portal routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.POST("/students/register", h.RegisterStudent)
	v1.POST("/students/login", h.Login)

	authed := v1.Group("", auth.RequireAuth(h.jwtKey, h.jwtIssuer))
	authed.POST("/quizzes/generate", h.GenerateQuiz)
	authed.POST("/students/:id/results", h.RecordResult)
	authed.GET("/students/:id/dashboard", h.Dashboard)

	admin := authed.Group("", auth.RequireAdmin())
	admin.GET("/attendance", h.ListAttendance)
	admin.POST("/attendance", h.CreateAttendance)
	admin.DELETE("/attendance/:id", h.DeleteAttendance)
}

// ---------- Students ----------

// RegisterStudent creates an account and signs the new student in.
func (h *Handler) RegisterStudent(c *gin.Context) {
	var req student.NewStudent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.students.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	tokens, err := auth.Issue(st.ID, st.Role, h.jwtIssuer, h.jwtKey, h.accessTTL, h.refreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"student":       st,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// Login verifies credentials and returns a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.students.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	tokens, err := auth.Issue(st.ID, st.Role, h.jwtIssuer, h.jwtKey, h.accessTTL, h.refreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"student":       st,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// ---------- Quizzes ----------

// GenerateQuiz builds a fresh quiz for the requested parameters. Quizzes are
// ephemeral: nothing is persisted until the student submits a result.
func (h *Handler) GenerateQuiz(c *gin.Context) {
	var req struct {
		Standard string `json:"standard"`
		Subject  string `json:"subject" binding:"required"`
		Level    string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qz := h.generator.Generate(req.Standard, req.Subject, req.Level)
	metrics.QuizzesGenerated.WithLabelValues(qz.Subject, qz.Level).Inc()
	c.JSON(http.StatusOK, qz)
}

// ---------- Results ----------

// RecordResult appends a quiz result for a student and returns the updated
// history. Only the student themselves or an admin may submit.
func (h *Handler) RecordResult(c *gin.Context) {
	studentID := c.Param("id")
	claims, _ := auth.FromContext(c)
	if !auth.CanAccessStudent(claims, studentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	var sub result.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.results.Record(c.Request.Context(), studentID, sub)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.ResultsRecorded.Inc()

	if err := h.queue.Publish(c.Request.Context(), queue.Message{
		Type: queue.TypeResultRecorded,
		Body: studentID,
	}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"results": history})
}

// Dashboard returns the student's profile, attendance, result history, and
// aggregate summary.
func (h *Handler) Dashboard(c *gin.Context) {
	studentID := c.Param("id")
	claims, _ := auth.FromContext(c)
	if !auth.CanAccessStudent(claims, studentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	ctx := c.Request.Context()
	st, err := h.students.Get(ctx, studentID)
	if err != nil {
		h.fail(c, err)
		return
	}

	history, err := h.results.History(ctx, studentID)
	if err != nil {
		h.fail(c, err)
		return
	}

	entries, err := h.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if entries == nil {
		entries = []attendance.Entry{}
	}
	if history == nil {
		history = []result.Result{}
	}

	summary, err := h.summaries.Get(ctx, studentID, func(context.Context) (result.Summary, error) {
		return result.Summarize(history), nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       st.Name,
		"email":      st.Email,
		"standard":   st.Standard,
		"attendance": entries,
		"results":    history,
		"summary":    summary,
	})
}

// ---------- Attendance (admin) ----------

// ListAttendance returns all attendance entries with student details joined in.
func (h *Handler) ListAttendance(c *gin.Context) {
	entries, err := h.attendance.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if entries == nil {
		entries = []attendance.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// CreateAttendance records attendance for a student.
func (h *Handler) CreateAttendance(c *gin.Context) {
	var req attendance.NewEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.attendance.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteAttendance removes an entry. The operation is idempotent: deleting an
// id that no longer exists still reports success.
func (h *Handler) DeleteAttendance(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance record deleted"})
}

// fail translates domain errors into HTTP responses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, student.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrInvalidInput),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, attendance.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, result.ErrInvalidScore):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
