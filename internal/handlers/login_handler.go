package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/services"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

// Login alert texts
const (
	AlertUsernameRequired = "Please enter a username"
	AlertWrongPassword    = "Wrong password"
	AlertLoginFailed      = "Login failed, please try again"
)

type LoginHandler struct {
	BaseHandler
	service services.LoginService
	auth    *SessionAuthMiddleware
}

func NewLoginHandler(service services.LoginService, auth *SessionAuthMiddleware, logger utils.Logger) *LoginHandler {
	return &LoginHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		auth:        auth,
	}
}

// Index sends the browser to the view selected by its session
func (h *LoginHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, models.SelectView(currentSession(c)).Path())
}

// ShowLogin renders the login form, or skips it for logged-in users
func (h *LoginHandler) ShowLogin(c *gin.Context) {
	if view := models.SelectView(currentSession(c)); view.Kind != models.ViewLoggedOut {
		c.Redirect(http.StatusFound, view.Path())
		return
	}
	render(c, http.StatusOK, "login.html", LoginPage{Page: Page{Title: "Training Platform"}})
}

func (h *LoginHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	h.LogRequest(c, "Login attempt", "username", username)

	sess, err := h.service.Login(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		h.handleLoginError(c, username, err)
		return
	}

	if err := h.auth.StartSession(c, *sess); err != nil {
		h.LogError(c, err, "Failed to store session", "username", sess.Username)
		h.renderLogin(c, http.StatusInternalServerError, username, AlertLoginFailed)
		return
	}

	c.Redirect(http.StatusSeeOther, models.SelectView(sess).Path())
}

func (h *LoginHandler) Logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		h.service.Logout(c.Request.Context(), *sess)
	}
	h.auth.EndSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *LoginHandler) handleLoginError(c *gin.Context, username string, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		h.renderLogin(c, http.StatusBadRequest, username, AlertUsernameRequired)
	case errors.Is(err, services.ErrWrongPassword):
		h.renderLogin(c, http.StatusUnauthorized, username, AlertWrongPassword)
	default:
		h.LogError(c, err, "Login failed", "username", username)
		h.renderLogin(c, http.StatusBadGateway, username, AlertLoginFailed)
	}
}

func (h *LoginHandler) renderLogin(c *gin.Context, status int, username, alert string) {
	render(c, status, "login.html", LoginPage{
		Page:     Page{Title: "Training Platform", Alert: alert},
		Username: username,
	})
}
