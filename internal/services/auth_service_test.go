package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/testutil"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

func TestSignUpCreatesUserAndProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.signUp(t, "alice", "alice@example.com", "student", "parent")

	if !user.HasRole(models.RoleStudent) || !user.HasRole(models.RoleParent) {
		t.Errorf("roles = %v, want student and parent", user.RoleNames)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !user.Enabled {
		t.Error("new user should be enabled")
	}

	if exists, _ := env.repo.StudentProfile().ExistsByUserID(ctx, user.ID); !exists {
		t.Error("student profile not created")
	}
	if exists, _ := env.repo.ParentProfile().ExistsByUserID(ctx, user.ID); !exists {
		t.Error("parent profile not created")
	}
	if exists, _ := env.repo.TeacherProfile().ExistsByUserID(ctx, user.ID); exists {
		t.Error("teacher profile created for a user without the teacher role")
	}

	if !hasEventType(env.publisher, events.TypeUserCreated) {
		t.Errorf("events = %v, want %s", eventTypes(env.publisher), events.TypeUserCreated)
	}
}

func TestSignUpDefaultsToStudentRole(t *testing.T) {
	env := newTestEnv(t)

	user := env.signUp(t, "bob", "bob@example.com")

	if len(user.RoleNames) != 1 || user.RoleNames[0] != string(models.RoleStudent) {
		t.Errorf("roles = %v, want [student]", user.RoleNames)
	}
	if exists, _ := env.repo.StudentProfile().ExistsByUserID(context.Background(), user.ID); !exists {
		t.Error("student profile not created for defaulted role")
	}
}

func TestSignUpUsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice", "alice@example.com")

	err := env.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignUpEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice", "alice@example.com")

	err := env.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

// The unique index stays authoritative even when the existence pre-checks
// miss a concurrent insert.
func TestSignUpUniqueIndexWinsRace(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice", "alice@example.com")

	env.repo.Store().ReportExistsFalse = true

	err := env.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !IsConflictError(err) {
		t.Errorf("expected a conflict error, got %v", err)
	}
}

func TestSignUpValidationCollectsAllErrors(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "123",
	})

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) < 3 {
		t.Errorf("got %d field errors, want all 3 fields reported: %v", len(verrs), verrs)
	}
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Roles:    []string{"admin"},
	})

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors for unknown role, got %v", err)
	}
}

func TestSignUpFailsWhenCatalogNotSeeded(t *testing.T) {
	// Fresh repository without SeedRoles having run.
	repo := testutil.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(repo, nil, validator.New(), events.NopEventPublisher{}, logger)

	err := svc.SignUp(context.Background(), &validator.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrRoleCatalogNotSeeded) {
		t.Errorf("expected ErrRoleCatalogNotSeeded, got %v", err)
	}
}

func TestEnsureProfileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "alice", "alice@example.com", "student")

	before, err := env.repo.StudentProfile().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile missing after signup: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := ensureProfileForRole(ctx, env.repo, user.ID, models.RoleStudent); err != nil {
			t.Fatalf("ensure run %d failed: %v", i, err)
		}
	}

	after, err := env.repo.StudentProfile().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile missing after ensure: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("ensure replaced the profile: id %s -> %s", before.ID, after.ID)
	}
}

// Even when the existence check misses, the profile unique index turns a
// duplicate insert into success rather than a second record.
func TestEnsureProfileSurvivesRacingCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "alice", "alice@example.com", "student")

	env.repo.Store().ReportExistsFalse = true
	if err := ensureProfileForRole(ctx, env.repo, user.ID, models.RoleStudent); err != nil {
		t.Errorf("ensure with racing create failed: %v", err)
	}
}

func TestSignInIssuesToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "alice", "alice@example.com", "teacher")

	resp, err := env.auth.SignIn(context.Background(), &validator.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if resp.Token == "" || resp.Type != "Bearer" {
		t.Errorf("got token=%q type=%q", resp.Token, resp.Type)
	}
	if resp.ID != user.ID || resp.Username != "alice" {
		t.Errorf("response identity mismatch: %+v", resp)
	}

	principal, err := env.auth.ValidateToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if principal.ID != user.ID || !principal.HasRole(models.RoleTeacher) {
		t.Errorf("principal mismatch: %+v", principal)
	}
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "alice", "alice@example.com")

	// Disable a second account.
	disabled := env.signUp(t, "carol", "carol@example.com")
	disabled.Enabled = false
	if err := env.repo.User().Update(context.Background(), disabled); err != nil {
		t.Fatalf("failed to disable user: %v", err)
	}
	_ = user

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "secret123"},
		{"wrong password", "alice", "wrong-password"},
		{"disabled account", "carol", "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.SignIn(context.Background(), &validator.LoginRequest{
				Username: tc.username,
				Password: tc.password,
			})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.ValidateToken(context.Background(), "not.a.token")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}
