package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/session"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

const (
	contextSessionKey   = "session"
	contextSessionIDKey = "session_id"
)

// SessionAuthMiddleware resolves the session cookie into the logged-in user
type SessionAuthMiddleware struct {
	store      session.Store
	cookieName string
	secure     bool
	logger     utils.Logger
}

func NewSessionAuthMiddleware(store session.Store, cookieName string, secure bool, logger utils.Logger) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		store:      store,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
	}
}

// AuthMiddleware loads the session if the request carries a valid cookie.
// It never rejects a request; RequireRoleMiddleware does.
func (am *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(am.cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := am.store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				utils.LoggerFromContext(c, am.logger).Error("Failed to load session", "error", err)
			}
			am.clearCookie(c)
			c.Next()
			return
		}

		c.Set(contextSessionKey, sess)
		c.Set(contextSessionIDKey, id)
		c.Set("user_id", sess.Username)
		c.Set("user_role", sess.Role)
		c.Next()
	}
}

// RequireRoleMiddleware only lets through users whose view matches kind.
// Everyone else is sent to the page their own session selects.
func (am *SessionAuthMiddleware) RequireRoleMiddleware(kind models.ViewKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := models.SelectView(currentSession(c))
		if view.Kind != kind {
			c.Redirect(redirectStatus(c), view.Path())
			c.Abort()
			return
		}
		c.Next()
	}
}

// StartSession stores sess and hands the browser a session cookie without Max-Age
func (am *SessionAuthMiddleware) StartSession(c *gin.Context, sess models.Session) error {
	id, err := am.store.Create(c.Request.Context(), sess)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(am.cookieName, id, 0, "/", "", am.secure, true)
	return nil
}

// EndSession forgets the current session, if any
func (am *SessionAuthMiddleware) EndSession(c *gin.Context) {
	if id := c.GetString(contextSessionIDKey); id != "" {
		if err := am.store.Delete(c.Request.Context(), id); err != nil {
			utils.LoggerFromContext(c, am.logger).Warn("Failed to delete session", "error", err)
		}
	}
	am.clearCookie(c)
}

func (am *SessionAuthMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(am.cookieName, "", -1, "/", "", am.secure, true)
}

func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(contextSessionKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	return nil
}

// redirectStatus keeps GET as GET and turns form posts into a GET of the target
func redirectStatus(c *gin.Context) int {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
