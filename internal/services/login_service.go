package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/models"
)

type loginService struct {
	api          BackendAPI
	events       events.EventPublisher
	logger       *slog.Logger
	demoPassword string
}

func NewLoginService(api BackendAPI, publisher events.EventPublisher, logger *slog.Logger, demoPassword string) LoginService {
	return &loginService{
		api:          api,
		events:       publisher,
		logger:       logger,
		demoPassword: demoPassword,
	}
}

// Login checks the demo password locally, then asks the backend for the user's role.
// The role endpoint is never called when the password is wrong.
func (s *loginService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password != s.demoPassword {
		s.logger.Info("Rejected login", "username", username, "reason", "wrong password")
		return nil, ErrWrongPassword
	}

	resp, err := s.api.CheckRole(ctx, username)
	if err != nil {
		s.logger.Error("Role lookup failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRoleLookupFailed, err)
	}

	role, ok := models.ParseRole(resp.Role)
	if !ok {
		s.logger.Warn("Backend returned unknown role", "username", username, "role", resp.Role)
		return nil, fmt.Errorf("%w: unknown role %q", ErrRoleLookupFailed, resp.Role)
	}

	sess := &models.Session{Username: username, Role: role}
	s.logger.Info("User logged in", "username", username, "role", role)
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(events.ActivityLoggedIn, *sess, ""))

	return sess, nil
}

func (s *loginService) Logout(ctx context.Context, sess models.Session) {
	s.logger.Info("User logged out", "username", sess.Username)
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(events.ActivityLoggedOut, sess, ""))
}
