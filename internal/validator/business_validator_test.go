package validator

import (
	"testing"
)

func TestSignupRequestValidation(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name       string
		req        SignupRequest
		wantFields []string
	}{
		{
			name: "valid request",
			req: SignupRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "secret123",
			},
		},
		{
			name: "valid with roles",
			req: SignupRequest{
				Username: "teach",
				Email:    "teach@example.com",
				Password: "secret123",
				Roles:    []string{"teacher", "parent"},
			},
		},
		{
			name: "username too short",
			req: SignupRequest{
				Username: "ab",
				Email:    "a@example.com",
				Password: "secret123",
			},
			wantFields: []string{"username"},
		},
		{
			name: "password too short",
			req: SignupRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "12345",
			},
			wantFields: []string{"password"},
		},
		{
			name: "invalid email",
			req: SignupRequest{
				Username: "alice",
				Email:    "not-an-email",
				Password: "secret123",
			},
			wantFields: []string{"email"},
		},
		{
			name: "unknown role",
			req: SignupRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "secret123",
				Roles:    []string{"admin"},
			},
			wantFields: []string{"roles[0]"},
		},
		{
			name:       "everything wrong collects every field",
			req:        SignupRequest{Username: "x", Email: "bad", Password: "1"},
			wantFields: []string{"username", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.Validate(&tt.req)
			if len(tt.wantFields) == 0 {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}

			fields := errs.Fields()
			for _, field := range tt.wantFields {
				if _, ok := fields[field]; !ok {
					t.Errorf("expected error on field %q, got %v", field, fields)
				}
			}
		})
	}
}

func TestProgressUpdateValidation(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.Validate(&ProgressUpdateRequest{OverallProgress: 50, TotalPoints: 100}); len(errs) != 0 {
		t.Errorf("valid progress rejected: %v", errs)
	}
	if errs := bv.Validate(&ProgressUpdateRequest{OverallProgress: 101}); len(errs) == 0 {
		t.Error("progress above 100 accepted")
	}
	if errs := bv.Validate(&ProgressUpdateRequest{OverallProgress: 50, TotalPoints: -1}); len(errs) == 0 {
		t.Error("negative points accepted")
	}
}

func TestUserUpdateRequestValidation(t *testing.T) {
	bv := NewBusinessValidator()

	bad := "not-an-email"
	if errs := bv.Validate(&UserUpdateRequest{Email: &bad}); len(errs) == 0 {
		t.Error("invalid email accepted")
	}

	// Absent fields must not fail validation.
	if errs := bv.Validate(&UserUpdateRequest{}); len(errs) != 0 {
		t.Errorf("empty patch rejected: %v", errs)
	}
}
