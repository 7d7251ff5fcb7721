package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schoolportal/internal/attendance"
	"schoolportal/internal/handler"
	"schoolportal/internal/queue"
	"schoolportal/internal/quiz"
	"schoolportal/internal/result"
	"schoolportal/internal/student"
)

const (
	testIssuer = "school-portal-test"
	testKey    = "test-signing-key"
)

func TestRegisterLoginAndDashboardRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	// Register.
	resp := doJSON(t, r, "POST", "/v1/students/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@school.test",
		"password": "correct-horse",
		"standard": "5",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var reg struct {
		Student     student.Student `json:"student"`
		AccessToken string          `json:"access_token"`
	}
	mustDecode(t, resp, &reg)

	// Record a result.
	resp = doJSON(t, r, "POST", "/v1/students/"+reg.Student.ID+"/results", reg.AccessToken, map[string]any{
		"quiz_id": "quiz-1",
		"subject": "Math",
		"level":   "Beginner",
		"score":   9,
		"total":   10,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Dashboard shows the result unmutated plus the summary.
	resp = doJSON(t, r, "GET", "/v1/students/"+reg.Student.ID+"/dashboard", reg.AccessToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var dash struct {
		Name    string          `json:"name"`
		Results []result.Result `json:"results"`
		Summary result.Summary  `json:"summary"`
	}
	mustDecode(t, resp, &dash)
	if dash.Name != "Alice" {
		t.Errorf("expected name Alice, got %q", dash.Name)
	}
	if len(dash.Results) != 1 || dash.Results[0].Score != 9 || dash.Results[0].QuizID != "quiz-1" {
		t.Errorf("result did not round-trip: %+v", dash.Results)
	}
	if dash.Summary.Count != 1 || dash.Summary.Passed != 1 || dash.Summary.Average != 90 {
		t.Errorf("unexpected summary: %+v", dash.Summary)
	}
}

func TestRecordResultValidation(t *testing.T) {
	r := newTestRouter(t)
	id, token := registerStudent(t, r, "bob@school.test")

	resp := doJSON(t, r, "POST", "/v1/students/"+id+"/results", token, map[string]any{
		"quiz_id": "quiz-1",
		"subject": "Math",
		"score":   11,
		"total":   10,
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for score > total, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStudentCannotTouchOtherStudents(t *testing.T) {
	r := newTestRouter(t)
	_, tokenA := registerStudent(t, r, "a@school.test")
	idB, _ := registerStudent(t, r, "b@school.test")

	resp := doJSON(t, r, "GET", "/v1/students/"+idB+"/dashboard", tokenA, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAttendanceRequiresAdmin(t *testing.T) {
	r := newTestRouter(t)
	_, token := registerStudent(t, r, "carol@school.test")

	resp := doJSON(t, r, "GET", "/v1/attendance", token, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("student on admin route: expected 403, got %d", resp.Code)
	}

	resp = doJSON(t, r, "GET", "/v1/attendance", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.Code)
	}
}

func TestAdminAttendanceFlow(t *testing.T) {
	deps := newTestDeps()
	r := newRouter(deps)

	if err := deps.students.EnsureAdmin(context.Background(), "Admin", "admin@school.test", "super-secret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	resp := doJSON(t, r, "POST", "/v1/students/login", "", map[string]any{
		"email":    "admin@school.test",
		"password": "super-secret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	mustDecode(t, resp, &login)

	studentID, _ := registerStudent(t, r, "dave@school.test")

	resp = doJSON(t, r, "POST", "/v1/attendance", login.AccessToken, map[string]any{
		"student_id": studentID,
		"status":     "present",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create attendance: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var entry attendance.Entry
	mustDecode(t, resp, &entry)

	resp = doJSON(t, r, "GET", "/v1/attendance", login.AccessToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list attendance: expected 200, got %d", resp.Code)
	}
	var entries []attendance.Entry
	mustDecode(t, resp, &entries)
	if len(entries) != 1 || entries[0].StudentEmail != "dave@school.test" {
		t.Fatalf("expected joined student fields, got %+v", entries)
	}

	// Delete twice; both succeed.
	for i := 0; i < 2; i++ {
		resp = doJSON(t, r, "DELETE", "/v1/attendance/"+entry.ID, login.AccessToken, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("delete #%d: expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestGenerateQuizEndpoint(t *testing.T) {
	r := newTestRouter(t)
	_, token := registerStudent(t, r, "erin@school.test")

	resp := doJSON(t, r, "POST", "/v1/quizzes/generate", token, map[string]any{
		"standard": "5",
		"subject":  "Geography",
		"level":    "Advanced",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var qz quiz.Quiz
	mustDecode(t, resp, &qz)
	if qz.TimeLimit != 20 {
		t.Errorf("Advanced level: expected time limit 20, got %d", qz.TimeLimit)
	}
	if len(qz.Questions) == 0 {
		t.Error("unknown subject should fall back to the default bank, got no questions")
	}
}

// ---------- test wiring ----------

type testDeps struct {
	students *student.Service
	results  *result.Service
	att      *attendance.Service
}

func newTestDeps() testDeps {
	studentRepo := newFakeStudentRepo()
	resultRepo := &fakeResultRepo{}
	attRepo := newFakeAttendanceRepo(studentRepo)
	return testDeps{
		students: student.NewService(studentRepo),
		results:  result.NewService(resultRepo, studentRepo),
		att:      attendance.NewService(attRepo),
	}
}

func newRouter(deps testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.New(
		deps.students, deps.results, deps.att,
		quiz.NewGeneratorWithSeed(1),
		result.NewSummaryCache(nil, time.Minute),
		queue.NewInMemory(16),
		testIssuer, testKey, time.Minute, time.Hour,
	)
	h.Register(r)
	return r
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouter(newTestDeps())
}

func registerStudent(t *testing.T, r *gin.Engine, email string) (id, token string) {
	t.Helper()
	resp := doJSON(t, r, "POST", "/v1/students/register", "", map[string]any{
		"name":     "Student",
		"email":    email,
		"password": "correct-horse",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var reg struct {
		Student     student.Student `json:"student"`
		AccessToken string          `json:"access_token"`
	}
	mustDecode(t, resp, &reg)
	return reg.Student.ID, reg.AccessToken
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func mustDecode(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
}

// ---------- fakes ----------

type fakeStudentRepo struct {
	byID    map[string]student.Student
	byEmail map[string]student.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		byID:    make(map[string]student.Student),
		byEmail: make(map[string]student.Student),
	}
}

func (f *fakeStudentRepo) Create(_ context.Context, st student.Student) (student.Student, error) {
	if _, ok := f.byEmail[st.Email]; ok {
		return student.Student{}, student.ErrEmailTaken
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	f.byID[st.ID] = st
	f.byEmail[st.Email] = st
	return st, nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id string) (student.Student, error) {
	st, ok := f.byID[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (student.Student, error) {
	st, ok := f.byEmail[email]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

type fakeResultRepo struct {
	rows []result.Result
}

func (f *fakeResultRepo) Insert(_ context.Context, res result.Result) (result.Result, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	f.rows = append(f.rows, res)
	return res, nil
}

func (f *fakeResultRepo) ListByStudent(_ context.Context, studentID string) ([]result.Result, error) {
	var out []result.Result
	for _, res := range f.rows {
		if res.StudentID == studentID {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	students *fakeStudentRepo
	entries  map[string]attendance.Entry
}

func newFakeAttendanceRepo(students *fakeStudentRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{students: students, entries: make(map[string]attendance.Entry)}
}

func (f *fakeAttendanceRepo) Insert(_ context.Context, e attendance.Entry) (attendance.Entry, error) {
	if _, ok := f.students.byID[e.StudentID]; !ok {
		return attendance.Entry{}, student.ErrNotFound
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context) ([]attendance.Entry, error) {
	var out []attendance.Entry
	for _, e := range f.entries {
		if st, ok := f.students.byID[e.StudentID]; ok {
			e.StudentName = st.Name
			e.StudentEmail = st.Email
			e.Standard = st.Standard
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]attendance.Entry, error) {
	var out []attendance.Entry
	for _, e := range f.entries {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(f.entries, id)
	return nil
}
