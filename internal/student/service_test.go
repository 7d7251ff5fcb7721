package student_test

import (
	"context"
	"errors"
	"testing"

	"schoolportal/internal/auth"
	"schoolportal/internal/student"
)

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := student.NewService(repo)

	st, err := svc.Register(context.Background(), student.NewStudent{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
		Standard: "5",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if st.Email != "alice@example.com" {
		t.Errorf("email should be normalized, got %q", st.Email)
	}
	if st.Role != auth.RoleStudent {
		t.Errorf("expected student role, got %q", st.Role)
	}
	if st.PasswordHash == "correct-horse" || st.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if !auth.CheckPassword(st.PasswordHash, "correct-horse") {
		t.Error("stored hash does not verify against original password")
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	svc := student.NewService(newFakeRepo())

	_, err := svc.Register(context.Background(), student.NewStudent{Email: "a@b.com", Password: "longenough"})
	if !errors.Is(err, student.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := student.NewService(repo)
	ctx := context.Background()

	nu := student.NewStudent{Name: "Alice", Email: "a@b.com", Password: "correct-horse"}
	if _, err := svc.Register(ctx, nu); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, nu); !errors.Is(err, student.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginGenericFailures(t *testing.T) {
	repo := newFakeRepo()
	svc := student.NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, student.NewStudent{Name: "Alice", Email: "a@b.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, errWrongPass := svc.Login(ctx, "a@b.com", "wrong")
	_, errNoUser := svc.Login(ctx, "nobody@b.com", "correct-horse")
	if !errors.Is(errWrongPass, student.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, student.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errNoUser)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := student.NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, student.NewStudent{Name: "Alice", Email: "a@b.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	st, err := svc.Login(ctx, " A@B.com ", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if st.Name != "Alice" {
		t.Fatalf("unexpected account: %+v", st)
	}
}

func TestEnsureAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := student.NewService(repo)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Admin", "admin@school.test", "super-secret"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	admin, err := svc.Login(ctx, "admin@school.test", "super-secret")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}

	// Second seed is a no-op, not an error.
	if err := svc.EnsureAdmin(ctx, "Admin", "admin@school.test", "super-secret"); err != nil {
		t.Fatalf("repeat seed failed: %v", err)
	}

	// Empty config disables seeding.
	if err := svc.EnsureAdmin(ctx, "Admin", "", ""); err != nil {
		t.Fatalf("empty seed should be a no-op: %v", err)
	}
}

// fakeRepo is an in-memory student store keyed by id and email.
type fakeRepo struct {
	byID    map[string]student.Student
	byEmail map[string]student.Student
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]student.Student),
		byEmail: make(map[string]student.Student),
	}
}

func (f *fakeRepo) Create(_ context.Context, st student.Student) (student.Student, error) {
	if _, ok := f.byEmail[st.Email]; ok {
		return student.Student{}, student.ErrEmailTaken
	}
	if st.ID == "" {
		f.nextID++
		st.ID = string(rune('a' + f.nextID))
	}
	f.byID[st.ID] = st
	f.byEmail[st.Email] = st
	return st, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (student.Student, error) {
	st, ok := f.byID[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (student.Student, error) {
	st, ok := f.byEmail[email]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}
