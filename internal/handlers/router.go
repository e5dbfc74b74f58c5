package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/services"
	"github.com/SAP-F-2025/training-portal/internal/session"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

// AuthConfig configures the session cookie
type AuthConfig struct {
	CookieName   string
	SecureCookie bool
}

type HandlerManager struct {
	loginHandler   *LoginHandler
	studentHandler *StudentHandler
	teacherHandler *TeacherHandler
	authMiddleware *SessionAuthMiddleware
	healthCheck    func(context.Context) error
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	store session.Store,
	logger utils.Logger,
	authConfig AuthConfig,
) *HandlerManager {
	authMiddleware := NewSessionAuthMiddleware(store, authConfig.CookieName, authConfig.SecureCookie, logger)

	return &HandlerManager{
		loginHandler:   NewLoginHandler(serviceManager.Login(), authMiddleware, logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		teacherHandler: NewTeacherHandler(serviceManager.Teacher(), logger),
		authMiddleware: authMiddleware,
	}
}

// WithHealthCheck adds a dependency check to GET /health
func (hm *HandlerManager) WithHealthCheck(check func(context.Context) error) *HandlerManager {
	hm.healthCheck = check
	return hm
}

// SetupRoutes sets up all browser routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.StaticFS("/static", StaticFiles())

	pages := router.Group("/")
	pages.Use(hm.authMiddleware.AuthMiddleware())
	{
		pages.GET("/", hm.loginHandler.Index)
		pages.GET("/login", hm.loginHandler.ShowLogin)
		pages.POST("/login", hm.loginHandler.Login)
		pages.POST("/logout", hm.loginHandler.Logout)

		// Student routes - Students only
		student := pages.Group("/student")
		student.Use(hm.authMiddleware.RequireRoleMiddleware(models.ViewStudent))
		{
			student.GET("", hm.studentHandler.ShowCourses)
			student.POST("/courses/:id/start", hm.studentHandler.StartCourse)
			student.GET("/experiments", hm.studentHandler.ShowMyExperiments)
			student.POST("/experiments/:id/submit", hm.studentHandler.SubmitAttempt)
		}

		// Teacher routes - Teachers only
		teacher := pages.Group("/teacher")
		teacher.Use(hm.authMiddleware.RequireRoleMiddleware(models.ViewTeacher))
		{
			teacher.GET("", hm.teacherHandler.ShowDashboard)
			teacher.POST("/courses", hm.teacherHandler.CreateCourse)
			teacher.POST("/courses/:id/publish", hm.teacherHandler.TogglePublish)
			teacher.GET("/courses/:id/delete", hm.teacherHandler.ConfirmDelete)
			teacher.POST("/courses/:id/delete", hm.teacherHandler.DeleteCourse)
			teacher.POST("/courses/:id/submissions/:sid/grade", hm.teacherHandler.GradeSubmission)
			teacher.GET("/progress/export", hm.teacherHandler.ExportProgress)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if hm.healthCheck != nil {
			if err := hm.healthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "training-portal",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "training-portal",
		})
	})
}
