package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

// SeedRoles populates the role catalog at startup. When the collection is
// empty it inserts one record per role in the closed set; a non-empty
// catalog is left untouched. Safe to run on every boot and across
// concurrently starting replicas: a duplicate insert means another replica
// seeded first.
func SeedRoles(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	count, err := repo.Role().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		logger.Debug("role catalog already seeded", "count", count)
		return nil
	}

	for _, role := range models.AllRoles {
		err := repo.Role().Create(ctx, &models.Role{
			ID:   uuid.New().String(),
			Name: role,
		})
		if err != nil && !repositories.IsDuplicateError(err) {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}

	logger.Info("role catalog seeded", "roles", models.AllRoles)
	return nil
}
