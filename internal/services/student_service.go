package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/validator"
)

// Alert texts shown after a student hand-in
const (
	MsgSubmitted    = "Submitted"
	MsgSubmitFailed = "Submit failed"
)

type studentService struct {
	api         BackendAPI
	events      events.EventPublisher
	logger      *slog.Logger
	validator   *validator.BusinessValidator
	notebookURL string
}

// NewStudentService creates the student course service. notebookURL is where
// students who already started a course are sent.
func NewStudentService(api BackendAPI, publisher events.EventPublisher, logger *slog.Logger, validator *validator.BusinessValidator, notebookURL string) StudentService {
	return &studentService{
		api:         api,
		events:      publisher,
		logger:      logger,
		validator:   validator,
		notebookURL: notebookURL,
	}
}

func (s *studentService) ListCourses(ctx context.Context, studentID string) ([]models.CourseStatusView, error) {
	s.logger.Info("Getting student courses", "student_id", studentID)

	courses, err := s.api.CoursesWithStatus(ctx, studentID)
	if err != nil {
		return []models.CourseStatusView{}, fmt.Errorf("failed to get student courses: %w", err)
	}
	if courses == nil {
		courses = []models.CourseStatusView{}
	}
	return courses, nil
}

// StartOrContinue returns the notebook URL the browser should be sent to.
// A recorded attempt goes to the shared notebook URL without calling the backend.
func (s *studentService) StartOrContinue(ctx context.Context, studentID string, action CourseAction) (string, error) {
	if strings.TrimSpace(action.StudentExperimentID) != "" {
		s.logger.Info("Continuing attempt",
			"student_id", studentID,
			"course_id", action.CourseID,
			"student_experiment_id", action.StudentExperimentID)
		return s.notebookURL, nil
	}

	if strings.TrimSpace(action.CourseID) == "" {
		return "", ErrCourseIDRequired
	}

	resp, err := s.api.StartAttempt(ctx, action.CourseID, studentID)
	if err != nil {
		s.logger.Error("Failed to start attempt", "student_id", studentID, "course_id", action.CourseID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrAttemptStartFailed, err)
	}
	if resp.JupyterURL == "" {
		return "", fmt.Errorf("%w: backend returned no notebook url", ErrAttemptStartFailed)
	}

	s.logger.Info("Attempt started",
		"student_id", studentID,
		"course_id", action.CourseID,
		"student_experiment_id", resp.StudentExperimentID)
	sess := models.Session{Username: studentID, Role: models.RoleStudent}
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(events.ActivityAttemptStarted, sess, action.CourseID))

	return resp.JupyterURL, nil
}

// MyExperiments lists the student's attempt records. On failure the list is empty, never nil.
func (s *studentService) MyExperiments(ctx context.Context, studentID string) ([]models.StudentExperiment, error) {
	s.logger.Info("Getting student experiments", "student_id", studentID)

	attempts, err := s.api.MyExperiments(ctx, studentID)
	if err != nil {
		return []models.StudentExperiment{}, fmt.Errorf("failed to get student experiments: %w", err)
	}
	if attempts == nil {
		attempts = []models.StudentExperiment{}
	}
	return attempts, nil
}

// Submit hands in the attempt with a single call, then re-fetches the student's attempt records
func (s *studentService) Submit(ctx context.Context, studentID, studentExpID string, form *SubmissionForm) (*AttemptsResult, error) {
	if strings.TrimSpace(studentExpID) == "" {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, ErrAttemptIDRequired)
	}
	if errs := s.validator.ValidateSubmission(form); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w: %w", ErrSubmitFailed, ErrValidationFailed, errs)
	}

	if _, err := s.api.SubmitAttempt(ctx, studentExpID, form.NotebookContent); err != nil {
		s.logger.Error("Failed to submit attempt", "student_id", studentID, "student_experiment_id", studentExpID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	s.logger.Info("Attempt submitted", "student_id", studentID, "student_experiment_id", studentExpID)
	sess := models.Session{Username: studentID, Role: models.RoleStudent}
	event := events.NewActivityEvent(events.ActivityAttemptSubmitted, sess, "").WithAttempt(studentExpID)

	attempts, err := s.MyExperiments(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to re-fetch student experiments", "student_id", studentID, "error", err)
	}
	for _, a := range attempts {
		if a.ID == studentExpID {
			event.CourseID = a.ExperimentID
			break
		}
	}
	events.Emit(ctx, s.events, s.logger, event)

	return &AttemptsResult{Message: MsgSubmitted, Attempts: attempts, RefreshErr: err}, nil
}
