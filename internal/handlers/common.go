package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// ErrorResponse is the error body shape for all endpoints.
type ErrorResponse struct {
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// BaseHandler provides shared logging helpers for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// getPrincipal returns the authenticated principal set by the auth
// middleware, writing a 401 when absent.
func (h *BaseHandler) getPrincipal(c *gin.Context) (*models.Principal, bool) {
	value, exists := c.Get("principal")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil, false
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil, false
	}
	return principal, true
}

// handleServiceError maps service errors onto HTTP statuses. Everything
// unmatched is a 500 with the detail withheld from the client.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var perr *services.PermissionError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Fields:  verrs.Fields(),
		})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid username or password",
		})

	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})

	case errors.As(err, &perr):
		h.LogRequest(c, "access denied",
			"actor", perr.UserID, "resource", perr.Resource, "action", perr.Action, "reason", perr.Reason)
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})

	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStudentProfileNotFound),
		errors.Is(err, services.ErrTeacherProfileNotFound),
		errors.Is(err, services.ErrParentProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrRoleCatalogNotSeeded):
		h.LogError(c, err, "role catalog missing required entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Service misconfigured",
		})

	default:
		h.LogError(c, err, "unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
