package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/services"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

const AlertStartFailed = "Failed to start, please retry"

const (
	StudentTabCourses     = "courses"
	StudentTabExperiments = "experiments"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT PAGES =====

// ShowCourses renders the course grid for the current student.
// A failed read is logged and shows the empty state.
func (h *StudentHandler) ShowCourses(c *gin.Context) {
	h.LogRequest(c, "Getting student courses")
	h.renderCourses(c, http.StatusOK, "")
}

// StartCourse starts or continues the clicked course and redirects to its notebook
func (h *StudentHandler) StartCourse(c *gin.Context) {
	sess := mustSession(c)
	action := services.CourseAction{
		CourseID:            c.Param("id"),
		StudentExperimentID: c.PostForm("student_exp_id"),
	}
	h.LogRequest(c, "Starting course", "course_id", action.CourseID)

	url, err := h.service.StartOrContinue(c.Request.Context(), sess.Username, action)
	if err != nil {
		h.LogError(c, err, "Failed to start course", "course_id", action.CourseID)
		h.renderCourses(c, http.StatusBadGateway, AlertStartFailed)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}

func (h *StudentHandler) renderCourses(c *gin.Context, status int, alert string) {
	sess := mustSession(c)

	courses, err := h.service.ListCourses(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to load student courses")
	}

	render(c, status, "student.html", StudentPage{
		Page:    Page{Title: "My Courses", Session: &sess, Alert: alert},
		Tab:     StudentTabCourses,
		Courses: courses,
	})
}

// ShowMyExperiments lists the student's attempt records with their grading
func (h *StudentHandler) ShowMyExperiments(c *gin.Context) {
	sess := mustSession(c)
	h.LogRequest(c, "Getting student experiments")

	attempts, err := h.service.MyExperiments(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to load student experiments")
	}
	h.renderExperiments(c, sess, http.StatusOK, attempts, "")
}

// SubmitAttempt hands in an open attempt and shows the re-fetched list
func (h *StudentHandler) SubmitAttempt(c *gin.Context) {
	sess := mustSession(c)
	studentExpID := c.Param("id")

	var form services.SubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		h.LogError(c, err, "Invalid submission form", "student_experiment_id", studentExpID)
	}
	h.LogRequest(c, "Submitting attempt", "student_experiment_id", studentExpID)

	result, err := h.service.Submit(c.Request.Context(), sess.Username, studentExpID, &form)
	if err != nil {
		h.LogError(c, err, "Failed to submit attempt", "student_experiment_id", studentExpID)
		attempts, listErr := h.service.MyExperiments(c.Request.Context(), sess.Username)
		if listErr != nil {
			h.LogError(c, listErr, "Failed to load student experiments")
		}
		h.renderExperiments(c, sess, failureStatus(err), attempts, services.MsgSubmitFailed)
		return
	}
	h.renderExperiments(c, sess, http.StatusOK, result.Attempts, result.Message)
}

func (h *StudentHandler) renderExperiments(c *gin.Context, sess models.Session, status int, attempts []models.StudentExperiment, alert string) {
	titles := map[string]string{}
	if courses, err := h.service.ListCourses(c.Request.Context(), sess.Username); err == nil {
		for _, course := range courses {
			titles[course.Course.ID] = course.Course.Title
		}
	}

	render(c, status, "student.html", StudentPage{
		Page:         Page{Title: "My Experiments", Session: &sess, Alert: alert},
		Tab:          StudentTabExperiments,
		Experiments:  attempts,
		CourseTitles: titles,
	})
}
