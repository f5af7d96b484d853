package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService   services.UserService
	exportService services.ExportService
}

func NewUserHandler(userService services.UserService, exportService services.ExportService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger),
		userService:   userService,
		exportService: exportService,
	}
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Description Get a paginated list of users, optionally filtered by role
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param q query string false "Search query (username or email)"
// @Param role query string false "Filter by role (student, teacher, parent)"
// @Success 200 {object} map[string]interface{} "User list response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	users, total, err := h.userService.List(c.Request.Context(), principal, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1

	c.JSON(http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"size":  filters.Limit,
	})
}

// GetMe returns the authenticated user's own record
// @Summary Get own user record
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), principal, principal.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Description Get a user joined with the profiles of every role it holds
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userService.GetByID(c.Request.Context(), principal, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserByUsername retrieves a user by username
// @Summary Get user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/username/{username} [get]
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Username is required",
		})
		return
	}

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), principal, username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUsersByRole lists users holding a role
// @Summary List users by role
// @Tags users
// @Produce json
// @Param role path string true "Role name (student, teacher, parent)"
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users/role/{role} [get]
func (h *UserHandler) GetUsersByRole(c *gin.Context) {
	role := c.Param("role")
	if !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Role must be one of: student, teacher, parent",
		})
		return
	}

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	users, err := h.userService.GetByRole(c.Request.Context(), principal, models.UserRole(role))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUser applies a partial update to a user
// @Summary Update user
// @Description Applies non-null fields to the user and its role profiles
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param update body validator.UserUpdateRequest true "Partial patch"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Email taken"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	var req validator.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating user", "user_id", userID)

	user, err := h.userService.Update(c.Request.Context(), principal, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and its profiles
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting user", "user_id", userID)

	if err := h.userService.Delete(c.Request.Context(), principal, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "User deleted successfully",
	})
}

// ExportUsers downloads the user roster as a spreadsheet
// @Summary Export user roster
// @Description Streams an xlsx roster, optionally filtered by role
// @Tags users
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param role query string false "Filter by role (student, teacher, parent)"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting user roster", "role", c.Query("role"))

	data, filename, err := h.exportService.ExportUserRoster(c.Request.Context(), principal, c.Query("role"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.DataFromReader(http.StatusOK, int64(len(data)),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		bytes.NewReader(data), nil)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
		Role:   c.Query("role"),
	}
}
