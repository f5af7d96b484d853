package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenManager,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// SignUp registers a new user and materializes one profile per requested
// role. The steps run as a sequence of idempotent writes rather than a
// transaction: a crash mid-way leaves a user whose profiles converge on the
// next signup retry or profile access, never a duplicate.
func (s *authService) SignUp(ctx context.Context, req *validator.SignupRequest) error {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return errs
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	taken, err := s.repo.User().ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return NewUsernameConflict()
	}

	taken, err = s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return NewEmailConflict()
	}

	roleNames, err := s.resolveRoles(ctx, req.Roles)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Enabled:   true,
		RoleNames: roleNames,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		// The unique index is authoritative: a duplicate here means another
		// signup won the race after our pre-checks passed.
		if repositories.IsDuplicateError(err) {
			taken, checkErr := s.repo.User().ExistsByUsername(ctx, username)
			if checkErr == nil && taken {
				return NewUsernameConflict()
			}
			return NewEmailConflict()
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := ensureProfilesForUser(ctx, s.repo, user); err != nil {
		// The user record stays; profile creation is retried on the next
		// attempt because every ensure step is idempotent.
		s.logger.Error("profile creation incomplete after signup",
			"user_id", user.ID, "error", err)
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeUserCreated, user.ID, map[string]interface{}{
		"username": user.Username,
		"roles":    []string(user.RoleNames),
	}))

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username, "roles", user.RoleNames)
	return nil
}

// SignIn verifies credentials and issues a bearer token. Unknown username,
// disabled account, and wrong password all yield the same error.
func (s *authService) SignIn(ctx context.Context, req *validator.LoginRequest) (*models.SignInResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Enabled {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.RoleNames)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user signed in", "user_id", user.ID, "username", user.Username)

	return &models.SignInResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames,
	}, nil
}

// ValidateToken parses a bearer token into the acting principal.
func (s *authService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &models.Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}

// resolveRoles normalizes the requested role names against the seeded
// catalog. An empty request defaults to the student role. A valid role name
// missing from the catalog is a deployment fault and aborts the signup.
func (s *authService) resolveRoles(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) == 0 {
		requested = []string{string(models.RoleStudent)}
	}

	names := make([]string, 0, len(requested))
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if containsString(names, name) {
			continue
		}

		if _, err := s.repo.Role().GetByName(ctx, models.UserRole(name)); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("%w: role %s missing", ErrRoleCatalogNotSeeded, name)
			}
			return nil, fmt.Errorf("failed to resolve role %s: %w", name, err)
		}
		names = append(names, name)
	}

	return names, nil
}

func (s *authService) publishEvent(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
