package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/testutil"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// testEnv wires every service over a shared mock repository with the role
// catalog already seeded.
type testEnv struct {
	repo      *testutil.MockRepository
	publisher *testutil.MockEventPublisher

	auth     AuthService
	users    UserService
	students StudentService
	teachers TeacherService
	parents  ParentService
	export   ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := testutil.NewMockRepository()
	publisher := testutil.NewMockEventPublisher()
	v := validator.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	if err := SeedRoles(context.Background(), repo, logger); err != nil {
		t.Fatalf("SeedRoles failed: %v", err)
	}

	return &testEnv{
		repo:      repo,
		publisher: publisher,
		auth:      NewAuthService(repo, tokens, v, publisher, logger),
		users:     NewUserService(repo, v, publisher, logger),
		students:  NewStudentService(repo, v, publisher, logger),
		teachers:  NewTeacherService(repo, v, logger),
		parents:   NewParentService(repo, v, publisher, logger),
		export:    NewExportService(repo, logger),
	}
}

// signUp registers a user and returns the stored record.
func (e *testEnv) signUp(t *testing.T, username, email string, roles ...string) *models.User {
	t.Helper()

	err := e.auth.SignUp(context.Background(), &validator.SignupRequest{
		Username: username,
		Email:    email,
		Password: "secret123",
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("SignUp(%s) failed: %v", username, err)
	}

	user, err := e.repo.User().GetByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("GetByUsername(%s) after signup failed: %v", username, err)
	}
	return user
}

func principalFor(user *models.User) *models.Principal {
	return &models.Principal{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.RoleNames,
	}
}

// eventTypes extracts the published event types in order.
func eventTypes(publisher *testutil.MockEventPublisher) []string {
	published := publisher.GetPublishedEvents()
	types := make([]string, len(published))
	for i, event := range published {
		types[i] = event.Type
	}
	return types
}

func hasEventType(publisher *testutil.MockEventPublisher, eventType string) bool {
	for _, typ := range eventTypes(publisher) {
		if typ == eventType {
			return true
		}
	}
	return false
}
