package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

func strPtr(s string) *string { return &s }

func TestGetByIDSelf(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "alice", "alice@example.com")

	resp, err := env.users.GetByID(context.Background(), principalFor(user), user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.Username != "alice" || resp.Email != "alice@example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetByIDDeniedForOtherStudent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice", "alice@example.com")
	bob := env.signUp(t, "bob", "bob@example.com")

	_, err := env.users.GetByID(context.Background(), principalFor(alice), bob.ID)

	var perr *PermissionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestGetByIDAllowedForElevated(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	bob := env.signUp(t, "bob", "bob@example.com")

	if _, err := env.users.GetByID(context.Background(), principalFor(teacher), bob.ID); err != nil {
		t.Errorf("elevated read failed: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")

	_, err := env.users.GetByID(context.Background(), principalFor(teacher), "missing-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// A caller without access to a username gets the same answer whether the
// record exists or not; only the ID-based read reports Forbidden, because
// there the caller already supplied the identifier.
func TestGetByUsernameHidesExistenceFromUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice", "alice@example.com")
	env.signUp(t, "bob", "bob@example.com")

	_, existingErr := env.users.GetByUsername(ctx, principalFor(alice), "bob")
	_, absentErr := env.users.GetByUsername(ctx, principalFor(alice), "nobody")

	if !errors.Is(existingErr, ErrUserNotFound) {
		t.Errorf("existing username: got %v, want ErrUserNotFound", existingErr)
	}
	if !errors.Is(absentErr, ErrUserNotFound) {
		t.Errorf("absent username: got %v, want ErrUserNotFound", absentErr)
	}
}

func TestGetByUsernameSelfAndElevated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice", "alice@example.com")
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")

	if resp, err := env.users.GetByUsername(ctx, principalFor(alice), "alice"); err != nil || resp.Username != "alice" {
		t.Errorf("self read: resp %+v, err %v", resp, err)
	}
	if resp, err := env.users.GetByUsername(ctx, principalFor(teacher), "alice"); err != nil || resp.Username != "alice" {
		t.Errorf("elevated read: resp %+v, err %v", resp, err)
	}
}

func TestListRequiresElevatedRole(t *testing.T) {
	env := newTestEnv(t)
	student := env.signUp(t, "alice", "alice@example.com")
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")

	var perr *PermissionError
	if _, _, err := env.users.List(context.Background(), principalFor(student), repositories.UserFilters{}); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for student, got %v", err)
	}

	users, total, err := env.users.List(context.Background(), principalFor(teacher), repositories.UserFilters{})
	if err != nil {
		t.Fatalf("List as teacher failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("got %d users (total %d), want 2", len(users), total)
	}
}

func TestResponseJoinsAllHeldProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "multi", "multi@example.com", "student", "teacher", "parent")

	// Give each profile a distinguishing value.
	sp, _ := env.repo.StudentProfile().GetByUserID(ctx, user.ID)
	sp.GradeLevel = "10"
	env.repo.StudentProfile().Update(ctx, sp)

	tp, _ := env.repo.TeacherProfile().GetByUserID(ctx, user.ID)
	tp.Subject = "Math"
	env.repo.TeacherProfile().Update(ctx, tp)

	pp, _ := env.repo.ParentProfile().GetByUserID(ctx, user.ID)
	pp.Relationship = "father"
	env.repo.ParentProfile().Update(ctx, pp)

	resp, err := env.users.GetByID(ctx, principalFor(user), user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.GradeLevel != "10" || resp.Subject != "Math" || resp.Relationship != "father" {
		t.Errorf("profile fields not joined: %+v", resp)
	}
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "alice", "alice@example.com")

	resp, err := env.users.Update(ctx, principalFor(user), user.ID, &validator.UserUpdateRequest{
		FirstName:  strPtr("Alice"),
		GradeLevel: strPtr("9"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if resp.FirstName != "Alice" {
		t.Errorf("first name = %q, want Alice", resp.FirstName)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("email changed without being in the patch: %q", resp.Email)
	}
	if resp.GradeLevel != "9" {
		t.Errorf("grade level = %q, want 9", resp.GradeLevel)
	}
}

// Role-specific fields for roles the user does not hold are ignored, not
// errors.
func TestUpdateIgnoresIrrelevantRoleFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "alice", "alice@example.com") // student only

	resp, err := env.users.Update(ctx, principalFor(user), user.ID, &validator.UserUpdateRequest{
		Subject:      strPtr("Math"),
		Relationship: strPtr("mother"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.Subject != "" || resp.Relationship != "" {
		t.Errorf("irrelevant fields applied: %+v", resp)
	}
	if exists, _ := env.repo.TeacherProfile().ExistsByUserID(ctx, user.ID); exists {
		t.Error("teacher profile created for a user without the teacher role")
	}
}

// A profile missing for a held role is created on the first write that
// targets it.
func TestUpdateLazilyRecreatesMissingProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signUp(t, "alice", "alice@example.com")

	if err := env.repo.StudentProfile().DeleteByUserID(ctx, user.ID); err != nil {
		t.Fatalf("setup delete failed: %v", err)
	}

	resp, err := env.users.Update(ctx, principalFor(user), user.ID, &validator.UserUpdateRequest{
		GradeLevel: strPtr("11"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.GradeLevel != "11" {
		t.Errorf("grade level = %q, want 11", resp.GradeLevel)
	}
	if exists, _ := env.repo.StudentProfile().ExistsByUserID(ctx, user.ID); !exists {
		t.Error("student profile not recreated")
	}
}

func TestUpdateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice", "alice@example.com")
	bob := env.signUp(t, "bob", "bob@example.com")

	_, err := env.users.Update(context.Background(), principalFor(bob), bob.ID, &validator.UserUpdateRequest{
		Email: strPtr("alice@example.com"),
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteCascadesProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	victim := env.signUp(t, "gone", "gone@example.com", "student", "parent")

	if err := env.users.Delete(ctx, principalFor(teacher), victim.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.repo.User().GetByID(ctx, victim.ID); err == nil {
		t.Error("user record survived delete")
	}
	if exists, _ := env.repo.StudentProfile().ExistsByUserID(ctx, victim.ID); exists {
		t.Error("student profile survived delete")
	}
	if exists, _ := env.repo.ParentProfile().ExistsByUserID(ctx, victim.ID); exists {
		t.Error("parent profile survived delete")
	}

	if !hasEventType(env.publisher, events.TypeUserDeleted) {
		t.Errorf("events = %v, want %s", eventTypes(env.publisher), events.TypeUserDeleted)
	}
}

// The cascade covers every profile kind, not just the roles the user record
// lists. A profile orphaned by a drifted role set must go with the user.
func TestDeleteRemovesProfilesOfUnlistedRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	victim := env.signUp(t, "gone", "gone@example.com") // student only

	if err := env.repo.TeacherProfile().Create(ctx, &models.TeacherProfile{
		ID:     "orphan-teacher-profile",
		UserID: victim.ID,
	}); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	if err := env.users.Delete(ctx, principalFor(teacher), victim.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if exists, _ := env.repo.TeacherProfile().ExistsByUserID(ctx, victim.ID); exists {
		t.Error("teacher profile for an unlisted role survived delete")
	}
	if exists, _ := env.repo.StudentProfile().ExistsByUserID(ctx, victim.ID); exists {
		t.Error("student profile survived delete")
	}
}

func TestDeleteRequiresElevatedRole(t *testing.T) {
	env := newTestEnv(t)
	student := env.signUp(t, "alice", "alice@example.com")

	err := env.users.Delete(context.Background(), principalFor(student), student.ID)

	var perr *PermissionError
	if !errors.As(err, &perr) {
		t.Errorf("expected PermissionError, got %v", err)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")

	err := env.users.Delete(context.Background(), principalFor(teacher), "missing-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetByRole(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "teach", "teach@example.com", "teacher")
	env.signUp(t, "alice", "alice@example.com")
	env.signUp(t, "bob", "bob@example.com")

	students, err := env.users.GetByRole(context.Background(), principalFor(teacher), models.RoleStudent)
	if err != nil {
		t.Fatalf("GetByRole failed: %v", err)
	}
	if len(students) != 2 {
		t.Errorf("got %d students, want 2", len(students))
	}
}
