package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/testutil"
)

func TestSeedRolesPopulatesEmptyCatalog(t *testing.T) {
	repo := testutil.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if err := SeedRoles(ctx, repo, logger); err != nil {
		t.Fatalf("SeedRoles failed: %v", err)
	}

	count, err := repo.Role().Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != int64(len(models.AllRoles)) {
		t.Errorf("count = %d, want %d", count, len(models.AllRoles))
	}
	for _, role := range models.AllRoles {
		if _, err := repo.Role().GetByName(ctx, role); err != nil {
			t.Errorf("role %s not seeded: %v", role, err)
		}
	}
}

func TestSeedRolesLeavesExistingCatalogAlone(t *testing.T) {
	repo := testutil.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if err := SeedRoles(ctx, repo, logger); err != nil {
		t.Fatalf("first SeedRoles failed: %v", err)
	}
	first, _ := repo.Role().GetByName(ctx, models.RoleStudent)

	if err := SeedRoles(ctx, repo, logger); err != nil {
		t.Fatalf("second SeedRoles failed: %v", err)
	}

	count, _ := repo.Role().Count(ctx)
	if count != int64(len(models.AllRoles)) {
		t.Errorf("count after reseed = %d, want %d", count, len(models.AllRoles))
	}
	second, _ := repo.Role().GetByName(ctx, models.RoleStudent)
	if first.ID != second.ID {
		t.Errorf("reseed replaced role record: %s -> %s", first.ID, second.ID)
	}
}
