package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

// APIError is a non-2xx answer from the training-platform API
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client calls the training-platform REST API
type Client struct {
	rest   *resty.Client
	logger *slog.Logger
}

// New creates a client for the API at baseURL. A zero timeout disables the client timeout.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		rest.SetTimeout(timeout)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{rest: rest, logger: logger}
}

// ===== ROLE =====

// CheckRole looks up the role of username
func (c *Client) CheckRole(ctx context.Context, username string) (*models.RoleLookupResponse, error) {
	var out models.RoleLookupResponse
	err := c.do(ctx, http.MethodGet, "/api/check-role", func(r *resty.Request) {
		r.SetQueryParam("username", username)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== STUDENT =====

// CoursesWithStatus lists the published courses with the student's attempt state
func (c *Client) CoursesWithStatus(ctx context.Context, studentID string) ([]models.CourseStatusView, error) {
	var out []models.CourseStatusView
	err := c.do(ctx, http.MethodGet, "/api/student/courses-with-status", func(r *resty.Request) {
		r.SetQueryParam("student_id", studentID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StartAttempt creates the student's attempt and returns the notebook URL
func (c *Client) StartAttempt(ctx context.Context, courseID, studentID string) (*models.StartAttemptResponse, error) {
	var out models.StartAttemptResponse
	err := c.do(ctx, http.MethodPost, "/api/student-experiments/start/{courseId}", func(r *resty.Request) {
		r.SetPathParam("courseId", courseID).
			SetQueryParam("student_id", studentID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MyExperiments lists every attempt record of the student
func (c *Client) MyExperiments(ctx context.Context, studentID string) ([]models.StudentExperiment, error) {
	var out []models.StudentExperiment
	err := c.do(ctx, http.MethodGet, "/api/student-experiments/my-experiments/{studentId}", func(r *resty.Request) {
		r.SetPathParam("studentId", studentID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitAttempt hands in the notebook content of an attempt
func (c *Client) SubmitAttempt(ctx context.Context, studentExpID, notebookContent string) (*models.SubmitResponse, error) {
	var out models.SubmitResponse
	err := c.do(ctx, http.MethodPost, "/api/student-experiments/{id}/submit", func(r *resty.Request) {
		r.SetPathParam("id", studentExpID).
			SetHeader("Content-Type", "application/json").
			SetBody(models.SubmitRequest{NotebookContent: notebookContent})
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== TEACHER =====

// TeacherCourses lists the courses created by teacher
func (c *Client) TeacherCourses(ctx context.Context, teacher string) ([]models.Course, error) {
	var out []models.Course
	err := c.do(ctx, http.MethodGet, "/api/teacher/courses", func(r *resty.Request) {
		r.SetQueryParam("teacher_username", teacher)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherProgress lists all student attempts on the teacher's courses
func (c *Client) TeacherProgress(ctx context.Context, teacher string) ([]models.ProgressRecord, error) {
	var out []models.ProgressRecord
	err := c.do(ctx, http.MethodGet, "/api/teacher/progress", func(r *resty.Request) {
		r.SetQueryParam("teacher_username", teacher)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetPublished publishes or unpublishes a course
func (c *Client) SetPublished(ctx context.Context, courseID, teacher string, published bool) (*models.PublishResponse, error) {
	var out models.PublishResponse
	err := c.do(ctx, http.MethodPatch, "/api/teacher/courses/{id}/publish", func(r *resty.Request) {
		r.SetPathParam("id", courseID).
			SetQueryParams(map[string]string{
				"teacher_username": teacher,
				"published":        strconv.FormatBool(published),
			})
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse deletes an experiment
func (c *Client) DeleteCourse(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodDelete, "/api/experiments/{id}", func(r *resty.Request) {
		r.SetPathParam("id", courseID)
	}, &models.MessageResponse{})
}

// CreateCourse creates an experiment
func (c *Client) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	var out models.Course
	err := c.do(ctx, http.MethodPost, "/api/experiments", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(req)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Submissions lists the attempt records of one course
func (c *Client) Submissions(ctx context.Context, courseID string) ([]models.StudentExperiment, error) {
	var out []models.StudentExperiment
	err := c.do(ctx, http.MethodGet, "/api/teacher/experiments/{id}/submissions", func(r *resty.Request) {
		r.SetPathParam("id", courseID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GradeSubmission stores the teacher's score and optional comment on an attempt
func (c *Client) GradeSubmission(ctx context.Context, studentExpID string, score float64, comment string) (*models.GradeResponse, error) {
	var out models.GradeResponse
	err := c.do(ctx, http.MethodPost, "/api/teacher/grade/{id}", func(r *resty.Request) {
		r.SetPathParam("id", studentExpID).
			SetQueryParam("score", strconv.FormatFloat(score, 'f', -1, 64))
		if comment != "" {
			r.SetQueryParam("comment", comment)
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics returns platform-wide attempt counters
func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var out models.Statistics
	if err := c.do(ctx, http.MethodGet, "/api/teacher/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== HELPERS =====

func (c *Client) do(ctx context.Context, method, path string, configure func(*resty.Request), result any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetError(&models.ErrorResponse{})
	if result != nil {
		req.SetResult(result)
	}
	if configure != nil {
		configure(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.ErrorContext(ctx, "API request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.DebugContext(ctx, "API request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode(),
		"duration", resp.Time())

	if resp.IsError() {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Detail:     errorDetail(resp),
		}
	}
	return nil
}

func errorDetail(resp *resty.Response) string {
	if e, ok := resp.Error().(*models.ErrorResponse); ok && e != nil && e.Detail != nil {
		if s, ok := e.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(e.Detail); err == nil {
			return string(b)
		}
	}
	return http.StatusText(resp.StatusCode())
}
