package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

// BaseHandler carries what every page handler needs
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Logger returns the request-scoped logger
func (h *BaseHandler) Logger(c *gin.Context) utils.Logger {
	return utils.LoggerFromContext(c, h.logger)
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	if sess := currentSession(c); sess != nil {
		args = append(args, "user", sess.Username, "role", sess.Role)
	}
	h.Logger(c).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	h.Logger(c).ErrorContext(c.Request.Context(), msg, args...)
}

// mustSession returns the session stored by the auth middleware.
// Routes using it sit behind RequireRoleMiddleware.
func mustSession(c *gin.Context) models.Session {
	sess := currentSession(c)
	if sess == nil {
		panic("handler reached without a session")
	}
	return *sess
}
