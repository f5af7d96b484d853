package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	studentHandler *StudentHandler
	teacherHandler *TeacherHandler
	parentHandler  *ParentHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Export(), logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		teacherHandler: NewTeacherHandler(serviceManager.Teacher(), logger),
		parentHandler:  NewParentHandler(serviceManager.Parent(), logger),
		authMiddleware: NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", hm.authHandler.SignUp)
		auth.POST("/signin", hm.authHandler.SignIn)
	}

	// Everything below requires a valid bearer token. The route gates keep
	// obviously wrong roles out; ownership checks live in the services.
	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		users := authed.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.GET("/:id", hm.userHandler.GetUser)
			users.GET("/username/:username", hm.userHandler.GetUserByUsername)
			users.PUT("/:id", hm.userHandler.UpdateUser)

			// List, role queries, delete and export need an elevated role
			users.GET("", hm.authMiddleware.RequireRoleMiddleware(models.ElevatedRoles...), hm.userHandler.ListUsers)
			users.GET("/role/:role", hm.authMiddleware.RequireRoleMiddleware(models.ElevatedRoles...), hm.userHandler.GetUsersByRole)
			users.GET("/export", hm.authMiddleware.RequireRoleMiddleware(models.ElevatedRoles...), hm.userHandler.ExportUsers)
			users.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.ElevatedRoles...), hm.userHandler.DeleteUser)
		}

		students := authed.Group("/students")
		{
			students.GET("", hm.authMiddleware.RequireRoleMiddleware(models.ElevatedRoles...), hm.studentHandler.ListProfiles)
			students.GET("/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.studentHandler.GetMyProfile)
			students.POST("/me/courses", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.studentHandler.EnrollCourse)
			students.DELETE("/me/courses/:course_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.studentHandler.UnenrollCourse)
			students.GET("/:id", hm.studentHandler.GetProfile)
			students.PUT("/:id/progress", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.studentHandler.UpdateProgress)
		}

		teachers := authed.Group("/teachers")
		{
			teachers.GET("/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.teacherHandler.GetMyProfile)
			teachers.POST("/me/courses", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.teacherHandler.AssignCourse)
			teachers.DELETE("/me/courses/:course_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.teacherHandler.RemoveCourse)
			teachers.GET("/courses/:course_id/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.teacherHandler.GetStudentsByCourse)
			teachers.GET("/:id", hm.teacherHandler.GetProfile)
		}

		parents := authed.Group("/parents")
		parents.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleParent))
		{
			parents.GET("/me", hm.parentHandler.GetMyProfile)
			parents.GET("/me/children", hm.parentHandler.GetChildren)
			parents.POST("/me/children", hm.parentHandler.AddChild)
			parents.DELETE("/me/children/:child_id", hm.parentHandler.RemoveChild)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "identity-service",
		})
	})
}
