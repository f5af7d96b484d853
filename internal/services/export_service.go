package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var rosterHeaders = []string{"Username", "Email", "First Name", "Last Name", "Phone", "Roles", "Enabled", "Created At"}

// ExportUserRoster renders the user roster as an xlsx workbook. An empty
// role exports every user; otherwise only users holding that role. Returns
// the file bytes and a suggested filename.
func (s *exportService) ExportUserRoster(ctx context.Context, actor *models.Principal, role string) ([]byte, string, error) {
	if err := requireElevated(actor, "user", "export"); err != nil {
		return nil, "", err
	}

	var users []*models.User
	var err error
	name := "users"

	if role != "" {
		role = strings.ToLower(strings.TrimSpace(role))
		if !models.IsValidRole(role) {
			return nil, "", validationError("role", "must be one of: student, teacher, parent", role)
		}
		users, err = s.repo.User().GetByRole(ctx, models.UserRole(role))
		name = role + "s"
	} else {
		users, _, err = s.repo.User().List(ctx, repositories.UserFilters{})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load users for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, user := range users {
		values := []interface{}{
			user.Username,
			user.Email,
			user.FirstName,
			user.LastName,
			user.Phone,
			strings.Join(user.RoleNames, ", "),
			user.Enabled,
			user.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render roster workbook: %w", err)
	}

	filename := fmt.Sprintf("%s_roster_%s.xlsx", name, time.Now().Format("2006-01-02"))
	s.logger.Info("roster exported", "rows", len(users), "role", role, "by", actor.ID)

	return buf.Bytes(), filename, nil
}
