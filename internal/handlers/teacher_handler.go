package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type TeacherHandler struct {
	BaseHandler
	teacherService services.TeacherService
}

func NewTeacherHandler(teacherService services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler:    NewBaseHandler(logger),
		teacherService: teacherService,
	}
}

// GetMyProfile returns the actor's own teacher profile
// @Summary Get own teacher profile
// @Tags teachers
// @Produce json
// @Success 200 {object} models.TeacherProfile
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /teachers/me [get]
func (h *TeacherHandler) GetMyProfile(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.teacherService.GetProfile(c.Request.Context(), principal, principal.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns a teacher profile by user ID
// @Summary Get teacher profile
// @Tags teachers
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.TeacherProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /teachers/{id} [get]
func (h *TeacherHandler) GetProfile(c *gin.Context) {
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

	profile, err := h.teacherService.GetProfile(c.Request.Context(), principal, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// AssignCourse adds a course to the actor's taught set
// @Summary Assign course
// @Tags teachers
// @Accept json
// @Produce json
// @Param course body validator.CourseRequest true "Course"
// @Success 200 {object} models.TeacherProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teachers/me/courses [post]
func (h *TeacherHandler) AssignCourse(c *gin.Context) {
	var req validator.CourseRequest
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

	h.LogRequest(c, "Assigning course", "course_id", req.CourseID)

	profile, err := h.teacherService.AssignCourse(c.Request.Context(), principal, req.CourseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RemoveCourse removes a course from the actor's taught set
// @Summary Remove course
// @Tags teachers
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} models.TeacherProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teachers/me/courses/{course_id} [delete]
func (h *TeacherHandler) RemoveCourse(c *gin.Context) {
	courseID := c.Param("course_id")

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Removing course", "course_id", courseID)

	profile, err := h.teacherService.RemoveCourse(c.Request.Context(), principal, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetStudentsByCourse lists students enrolled in a course
// @Summary List students by course
// @Tags teachers
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teachers/courses/{course_id}/students [get]
func (h *TeacherHandler) GetStudentsByCourse(c *gin.Context) {
	courseID := c.Param("course_id")

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing students by course", "course_id", courseID)

	students, err := h.teacherService.GetStudentsByCourse(c.Request.Context(), principal, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
