package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// GetMyProfile returns the actor's own student profile
// @Summary Get own student profile
// @Tags students
// @Produce json
// @Success 200 {object} models.StudentProfile
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /students/me [get]
func (h *StudentHandler) GetMyProfile(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.studentService.GetProfile(c.Request.Context(), principal, principal.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns a student profile by user ID
// @Summary Get student profile
// @Tags students
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.StudentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /students/{id} [get]
func (h *StudentHandler) GetProfile(c *gin.Context) {
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

	profile, err := h.studentService.GetProfile(c.Request.Context(), principal, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles lists every student profile
// @Summary List student profiles
// @Tags students
// @Produce json
// @Success 200 {array} models.StudentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /students [get]
func (h *StudentHandler) ListProfiles(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	profiles, err := h.studentService.ListProfiles(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// EnrollCourse enrolls the actor in a course
// @Summary Enroll in course
// @Description Adds the course to the actor's enrollments; already enrolled is a no-op
// @Tags students
// @Accept json
// @Produce json
// @Param course body validator.CourseRequest true "Course"
// @Success 200 {object} models.StudentProfile
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /students/me/courses [post]
func (h *StudentHandler) EnrollCourse(c *gin.Context) {
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

	h.LogRequest(c, "Enrolling in course", "course_id", req.CourseID)

	profile, err := h.studentService.EnrollInCourse(c.Request.Context(), principal, req.CourseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UnenrollCourse removes the actor from a course
// @Summary Unenroll from course
// @Tags students
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} models.StudentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /students/me/courses/{course_id} [delete]
func (h *StudentHandler) UnenrollCourse(c *gin.Context) {
	courseID := c.Param("course_id")

	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Unenrolling from course", "course_id", courseID)

	profile, err := h.studentService.UnenrollFromCourse(c.Request.Context(), principal, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProgress replaces a student's progress and points
// @Summary Update student progress
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param progress body validator.ProgressUpdateRequest true "Progress"
// @Success 200 {object} models.StudentProfile
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /students/{id}/progress [put]
func (h *StudentHandler) UpdateProgress(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	var req validator.ProgressUpdateRequest
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

	h.LogRequest(c, "Updating student progress", "user_id", userID)

	profile, err := h.studentService.UpdateProgress(c.Request.Context(), principal, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
