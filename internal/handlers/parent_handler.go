package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type ParentHandler struct {
	BaseHandler
	parentService services.ParentService
}

func NewParentHandler(parentService services.ParentService, logger utils.Logger) *ParentHandler {
	return &ParentHandler{
		BaseHandler:   NewBaseHandler(logger),
		parentService: parentService,
	}
}

// GetMyProfile returns the actor's own parent profile
// @Summary Get own parent profile
// @Tags parents
// @Produce json
// @Success 200 {object} models.ParentProfile
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /parents/me [get]
func (h *ParentHandler) GetMyProfile(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.parentService.GetProfile(c.Request.Context(), principal, principal.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// AddChild links a child user to the actor's parent profile
// @Summary Add child
// @Description Links an existing user as a child; already linked is a no-op
// @Tags parents
// @Accept json
// @Produce json
// @Param child body validator.ChildRequest true "Child"
// @Success 200 {object} models.ParentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Child user not found"
// @Router /parents/me/children [post]
func (h *ParentHandler) AddChild(c *gin.Context) {
	var req validator.ChildRequest
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

	h.LogRequest(c, "Linking child", "child_id", req.ChildStudentID)

	profile, err := h.parentService.AddChild(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RemoveChild unlinks a child from the actor's parent profile
// @Summary Remove child
// @Tags parents
// @Produce json
// @Param child_id path string true "Child user ID"
// @Success 200 {object} models.ParentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /parents/me/children/{child_id} [delete]
func (h *ParentHandler) RemoveChild(c *gin.Context) {
	childID := c.Param("child_id")

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Unlinking child", "child_id", childID)

	profile, err := h.parentService.RemoveChild(c.Request.Context(), principal, childID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetChildren lists the actor's children
// @Summary List children
// @Description Resolves child links into user records, skipping dangling links
// @Tags parents
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /parents/me/children [get]
func (h *ParentHandler) GetChildren(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	children, err := h.parentService.GetChildren(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, children)
}
