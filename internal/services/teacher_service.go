package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/validator"
)

// Alert texts shown after a teacher action
const (
	MsgPublished       = "Published"
	MsgUnpublished     = "Unpublished"
	MsgOperationFailed = "Operation failed"
	MsgDeleted         = "Deleted"
	MsgDeleteFailed    = "Delete failed"
	MsgCreated         = "Created"
	MsgCreateFailed    = "Create failed"
	MsgGraded          = "Graded"
	MsgGradeFailed     = "Grading failed"
)

type teacherService struct {
	api       BackendAPI
	events    events.EventPublisher
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewTeacherService(api BackendAPI, publisher events.EventPublisher, logger *slog.Logger, validator *validator.BusinessValidator) TeacherService {
	return &teacherService{
		api:       api,
		events:    publisher,
		logger:    logger,
		validator: validator,
	}
}

// Dashboard loads the course list and the progress table concurrently.
// A failed read only empties its own table.
func (s *teacherService) Dashboard(ctx context.Context, teacher string) *Dashboard {
	dash := &Dashboard{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dash.Courses, dash.CoursesErr = s.ListCourses(ctx, teacher)
	}()
	go func() {
		defer wg.Done()
		dash.Progress, dash.ProgressErr = s.ListProgress(ctx, teacher)
	}()
	wg.Wait()

	if dash.CoursesErr != nil {
		s.logger.Error("Failed to load teacher courses", "teacher", teacher, "error", dash.CoursesErr)
	}
	if dash.ProgressErr != nil {
		s.logger.Error("Failed to load student progress", "teacher", teacher, "error", dash.ProgressErr)
	}

	return dash
}

func (s *teacherService) ListCourses(ctx context.Context, teacher string) ([]models.Course, error) {
	courses, err := s.api.TeacherCourses(ctx, teacher)
	if err != nil {
		return []models.Course{}, fmt.Errorf("failed to get teacher courses: %w", err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

func (s *teacherService) ListProgress(ctx context.Context, teacher string) ([]models.ProgressRecord, error) {
	progress, err := s.api.TeacherProgress(ctx, teacher)
	if err != nil {
		return []models.ProgressRecord{}, fmt.Errorf("failed to get student progress: %w", err)
	}
	if progress == nil {
		progress = []models.ProgressRecord{}
	}
	return progress, nil
}

func (s *teacherService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.api.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	if stats.StatusDistribution == nil {
		stats.StatusDistribution = map[models.AttemptStatus]int{}
	}
	return stats, nil
}

// TogglePublish sends the negation of the state the teacher saw, then re-fetches the course list
func (s *teacherService) TogglePublish(ctx context.Context, teacher, courseID string, currentlyPublished bool) (*MutationResult, error) {
	target := !currentlyPublished
	s.logger.Info("Toggling course publish state", "teacher", teacher, "course_id", courseID, "published", target)

	if _, err := s.api.SetPublished(ctx, courseID, teacher, target); err != nil {
		s.logger.Error("Failed to toggle publish state", "course_id", courseID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	activity := events.ActivityCoursePublished
	message := MsgPublished
	if currentlyPublished {
		activity = events.ActivityCourseUnpublished
		message = MsgUnpublished
	}
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(activity, teacherSession(teacher), courseID))

	return s.refresh(ctx, teacher, message), nil
}

// DeleteCourse issues the DELETE only when the teacher confirmed it
func (s *teacherService) DeleteCourse(ctx context.Context, teacher, courseID string, confirmed bool) (*MutationResult, error) {
	if !confirmed {
		s.logger.Info("Course deletion not confirmed", "teacher", teacher, "course_id", courseID)
		return nil, ErrDeleteNotConfirmed
	}

	if err := s.api.DeleteCourse(ctx, courseID); err != nil {
		s.logger.Error("Failed to delete course", "course_id", courseID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	s.logger.Info("Course deleted", "teacher", teacher, "course_id", courseID)
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(events.ActivityCourseDeleted, teacherSession(teacher), courseID))

	return s.refresh(ctx, teacher, MsgDeleted), nil
}

// CreateCourse validates the modal form and posts it as a single create call
func (s *teacherService) CreateCourse(ctx context.Context, teacher string, form *CourseForm) (*MutationResult, error) {
	if errs := s.validator.ValidateCourseCreate(form); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, errs)
	}

	difficulty := models.DifficultyLevel(form.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	req := models.CreateCourseRequest{
		Title:        strings.TrimSpace(form.Title),
		Description:  form.Description,
		Difficulty:   difficulty,
		Tags:         ParseTags(form.Tags),
		NotebookPath: strings.TrimSpace(form.NotebookPath),
		Published:    form.Published,
		CreatedBy:    teacher,
	}

	course, err := s.api.CreateCourse(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create course", "teacher", teacher, "title", req.Title, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	courseID := ""
	if course != nil {
		courseID = course.ID
	}
	s.logger.Info("Course created", "teacher", teacher, "course_id", courseID)
	events.Emit(ctx, s.events, s.logger, events.NewActivityEvent(events.ActivityCourseCreated, teacherSession(teacher), courseID))

	return s.refresh(ctx, teacher, MsgCreated), nil
}

// Submissions lists the attempt records of one course. On failure the list is empty, never nil.
func (s *teacherService) Submissions(ctx context.Context, courseID string) ([]models.StudentExperiment, error) {
	submissions, err := s.api.Submissions(ctx, courseID)
	if err != nil {
		return []models.StudentExperiment{}, fmt.Errorf("failed to get submissions: %w", err)
	}
	if submissions == nil {
		submissions = []models.StudentExperiment{}
	}
	return submissions, nil
}

// GradeSubmission stores the score with a single call, then re-fetches the course's submissions
func (s *teacherService) GradeSubmission(ctx context.Context, teacher, courseID, studentExpID string, form *GradeForm) (*AttemptsResult, error) {
	if strings.TrimSpace(studentExpID) == "" {
		return nil, fmt.Errorf("%w: %w", ErrGradeFailed, ErrAttemptIDRequired)
	}
	if errs := s.validator.ValidateGrade(form); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w: %w", ErrGradeFailed, ErrValidationFailed, errs)
	}
	score, err := strconv.ParseFloat(form.Score, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrGradeFailed, ErrValidationFailed, err)
	}
	comment := strings.TrimSpace(form.Comment)

	s.logger.Info("Grading submission", "teacher", teacher, "course_id", courseID, "student_experiment_id", studentExpID, "score", score)
	if _, err := s.api.GradeSubmission(ctx, studentExpID, score, comment); err != nil {
		s.logger.Error("Failed to grade submission", "student_experiment_id", studentExpID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGradeFailed, err)
	}

	event := events.NewActivityEvent(events.ActivitySubmissionGraded, teacherSession(teacher), courseID).WithAttempt(studentExpID)
	events.Emit(ctx, s.events, s.logger, event)

	submissions, err := s.Submissions(ctx, courseID)
	if err != nil {
		s.logger.Error("Failed to re-fetch submissions", "course_id", courseID, "error", err)
	}
	return &AttemptsResult{Message: MsgGraded, Attempts: submissions, RefreshErr: err}, nil
}

// refresh re-fetches the course list after a successful write.
// A failed re-fetch is reported on the result, the write itself stands.
func (s *teacherService) refresh(ctx context.Context, teacher, message string) *MutationResult {
	courses, err := s.ListCourses(ctx, teacher)
	if err != nil {
		s.logger.Error("Failed to re-fetch courses", "teacher", teacher, "error", err)
	}
	return &MutationResult{Message: message, Courses: courses, RefreshErr: err}
}

func teacherSession(teacher string) models.Session {
	return models.Session{Username: teacher, Role: models.RoleTeacher}
}

// FailureMessage picks the alert text for a failed teacher action
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrGradeFailed):
		return MsgGradeFailed
	case errors.Is(err, ErrDeleteFailed):
		return MsgDeleteFailed
	case errors.Is(err, ErrCreateFailed), errors.Is(err, ErrValidationFailed):
		return MsgCreateFailed
	default:
		return MsgOperationFailed
	}
}
