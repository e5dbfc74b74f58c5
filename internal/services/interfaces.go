package services

import (
	"context"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/validator"
)

// BackendAPI is the part of the training-platform REST API the portal calls.
// *apiclient.Client implements it.
type BackendAPI interface {
	CheckRole(ctx context.Context, username string) (*models.RoleLookupResponse, error)
	CoursesWithStatus(ctx context.Context, studentID string) ([]models.CourseStatusView, error)
	StartAttempt(ctx context.Context, courseID, studentID string) (*models.StartAttemptResponse, error)
	TeacherCourses(ctx context.Context, teacher string) ([]models.Course, error)
	TeacherProgress(ctx context.Context, teacher string) ([]models.ProgressRecord, error)
	SetPublished(ctx context.Context, courseID, teacher string, published bool) (*models.PublishResponse, error)
	DeleteCourse(ctx context.Context, courseID string) error
	CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	MyExperiments(ctx context.Context, studentID string) ([]models.StudentExperiment, error)
	SubmitAttempt(ctx context.Context, studentExpID, notebookContent string) (*models.SubmitResponse, error)
	Submissions(ctx context.Context, courseID string) ([]models.StudentExperiment, error)
	GradeSubmission(ctx context.Context, studentExpID string, score float64, comment string) (*models.GradeResponse, error)
}

// ===== REQUEST/RESPONSE DTOs =====

type (
	CourseForm     = validator.CourseForm
	SubmissionForm = validator.SubmissionForm
	GradeForm      = validator.GradeForm
)

// CourseAction identifies the card a student clicked
type CourseAction struct {
	CourseID            string
	StudentExperimentID string
}

// Dashboard holds both teacher tables. Each read fails independently.
type Dashboard struct {
	Courses     []models.Course
	Progress    []models.ProgressRecord
	CoursesErr  error
	ProgressErr error
}

// MutationResult is the outcome of a teacher write followed by the course list re-fetch
type MutationResult struct {
	Message    string
	Courses    []models.Course
	RefreshErr error
}

// AttemptsResult is the outcome of a write on an attempt record followed by
// the re-fetch of the list it belongs to
type AttemptsResult struct {
	Message    string
	Attempts   []models.StudentExperiment
	RefreshErr error
}

// ===== SERVICE INTERFACES =====

type LoginService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, sess models.Session)
}

type StudentService interface {
	ListCourses(ctx context.Context, studentID string) ([]models.CourseStatusView, error)
	StartOrContinue(ctx context.Context, studentID string, action CourseAction) (string, error)
	MyExperiments(ctx context.Context, studentID string) ([]models.StudentExperiment, error)
	Submit(ctx context.Context, studentID, studentExpID string, form *SubmissionForm) (*AttemptsResult, error)
}

type TeacherService interface {
	Dashboard(ctx context.Context, teacher string) *Dashboard
	ListCourses(ctx context.Context, teacher string) ([]models.Course, error)
	ListProgress(ctx context.Context, teacher string) ([]models.ProgressRecord, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	TogglePublish(ctx context.Context, teacher, courseID string, currentlyPublished bool) (*MutationResult, error)
	DeleteCourse(ctx context.Context, teacher, courseID string, confirmed bool) (*MutationResult, error)
	CreateCourse(ctx context.Context, teacher string, form *CourseForm) (*MutationResult, error)
	ExportProgress(ctx context.Context, teacher string) ([]byte, error)
	Submissions(ctx context.Context, courseID string) ([]models.StudentExperiment, error)
	GradeSubmission(ctx context.Context, teacher, courseID, studentExpID string, form *GradeForm) (*AttemptsResult, error)
}

// ServiceManager wires the portal services together
type ServiceManager interface {
	Login() LoginService
	Student() StudentService
	Teacher() TeacherService
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
