package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/apiclient"
	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/services"
	"github.com/SAP-F-2025/training-portal/internal/utils"
)

const (
	TabCourses     = "courses"
	TabProgress    = "progress"
	TabStatistics  = "statistics"
	TabSubmissions = "submissions"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TeacherHandler struct {
	BaseHandler
	service services.TeacherService
}

func NewTeacherHandler(service services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PAGES =====

// ShowDashboard loads courses and progress together and renders the selected tab
func (h *TeacherHandler) ShowDashboard(c *gin.Context) {
	sess := mustSession(c)
	tab := normalizeTab(c.Query("tab"))
	h.LogRequest(c, "Getting teacher dashboard", "tab", tab)

	dash := h.service.Dashboard(c.Request.Context(), sess.Username)
	page := h.newPage(sess, tab)
	page.Courses = dash.Courses
	page.Progress = dash.Progress
	page.ShowCreate = tab == TabCourses && c.Query("modal") == "create"

	if tab == TabStatistics {
		stats, err := h.service.Statistics(c.Request.Context())
		if err != nil {
			h.LogError(c, err, "Failed to load statistics")
		}
		page.Stats = stats
	}

	if tab == TabSubmissions {
		page.Selected = c.Query("course")
		if page.Selected == "" && len(dash.Courses) > 0 {
			page.Selected = dash.Courses[0].ID
		}
		if page.Selected != "" {
			submissions, err := h.service.Submissions(c.Request.Context(), page.Selected)
			if err != nil {
				h.LogError(c, err, "Failed to load submissions", "course_id", page.Selected)
			}
			page.Submissions = submissions
		}
	}

	render(c, http.StatusOK, "teacher.html", page)
}

// ===== ACTIONS =====

// TogglePublish flips the publish flag the teacher saw on the page
func (h *TeacherHandler) TogglePublish(c *gin.Context) {
	sess := mustSession(c)
	courseID := c.Param("id")
	current, err := strconv.ParseBool(c.PostForm("published"))
	if err != nil {
		h.LogError(c, err, "Invalid publish flag", "course_id", courseID)
		h.renderCourses(c, sess, http.StatusBadRequest, services.MsgOperationFailed)
		return
	}
	h.LogRequest(c, "Toggling publish state", "course_id", courseID, "published", current)

	result, err := h.service.TogglePublish(c.Request.Context(), sess.Username, courseID, current)
	if err != nil {
		h.handleMutationError(c, sess, err)
		return
	}
	h.renderMutation(c, sess, result)
}

// ConfirmDelete renders the server-side confirmation page
func (h *TeacherHandler) ConfirmDelete(c *gin.Context) {
	sess := mustSession(c)
	h.renderConfirmDelete(c, sess, c.Param("id"))
}

// DeleteCourse deletes the course once the form carries confirm=yes
func (h *TeacherHandler) DeleteCourse(c *gin.Context) {
	sess := mustSession(c)
	courseID := c.Param("id")
	confirmed := c.PostForm("confirm") == "yes"
	h.LogRequest(c, "Deleting course", "course_id", courseID, "confirmed", confirmed)

	result, err := h.service.DeleteCourse(c.Request.Context(), sess.Username, courseID, confirmed)
	if errors.Is(err, services.ErrDeleteNotConfirmed) {
		h.renderConfirmDelete(c, sess, courseID)
		return
	}
	if err != nil {
		h.handleMutationError(c, sess, err)
		return
	}
	h.renderMutation(c, sess, result)
}

// CreateCourse submits the create modal. On failure the modal stays open with the draft.
func (h *TeacherHandler) CreateCourse(c *gin.Context) {
	sess := mustSession(c)

	var form services.CourseForm
	if err := c.ShouldBind(&form); err != nil {
		h.LogError(c, err, "Invalid create course form")
		h.renderCreateFailed(c, sess, form, http.StatusBadRequest)
		return
	}
	h.LogRequest(c, "Creating course", "title", form.Title)

	result, err := h.service.CreateCourse(c.Request.Context(), sess.Username, &form)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrValidationFailed) {
			status = http.StatusBadRequest
		}
		h.LogError(c, err, "Failed to create course", "title", form.Title)
		h.renderCreateFailed(c, sess, form, status)
		return
	}
	h.renderMutation(c, sess, result)
}

// GradeSubmission scores one submission and shows the course's re-fetched submissions
func (h *TeacherHandler) GradeSubmission(c *gin.Context) {
	sess := mustSession(c)
	courseID := c.Param("id")
	studentExpID := c.Param("sid")

	var form services.GradeForm
	if err := c.ShouldBind(&form); err != nil {
		h.LogError(c, err, "Invalid grade form", "student_experiment_id", studentExpID)
	}
	h.LogRequest(c, "Grading submission", "course_id", courseID, "student_experiment_id", studentExpID)

	page := h.newPage(sess, TabSubmissions)
	page.Selected = courseID

	courses, err := h.service.ListCourses(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to load teacher courses")
	}
	page.Courses = courses

	result, err := h.service.GradeSubmission(c.Request.Context(), sess.Username, courseID, studentExpID, &form)
	if err != nil {
		h.LogError(c, err, "Failed to grade submission", "student_experiment_id", studentExpID)
		submissions, listErr := h.service.Submissions(c.Request.Context(), courseID)
		if listErr != nil {
			h.LogError(c, listErr, "Failed to load submissions", "course_id", courseID)
		}
		page.Submissions = submissions
		page.Alert = services.FailureMessage(err)
		render(c, failureStatus(err), "teacher.html", page)
		return
	}

	page.Submissions = result.Attempts
	page.Alert = result.Message
	render(c, http.StatusOK, "teacher.html", page)
}

// ExportProgress downloads the progress table as an XLSX workbook
func (h *TeacherHandler) ExportProgress(c *gin.Context) {
	sess := mustSession(c)
	h.LogRequest(c, "Exporting student progress")

	data, err := h.service.ExportProgress(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to export progress")
		dash := h.service.Dashboard(c.Request.Context(), sess.Username)
		page := h.newPage(sess, TabProgress)
		page.Courses = dash.Courses
		page.Progress = dash.Progress
		page.Alert = services.MsgOperationFailed
		render(c, http.StatusBadGateway, "teacher.html", page)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="progress-%s.xlsx"`, sess.Username))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ===== HELPERS =====

func (h *TeacherHandler) newPage(sess models.Session, tab string) TeacherPage {
	return TeacherPage{
		Page:         Page{Title: "Teacher Dashboard", Session: &sess},
		Tab:          tab,
		Difficulties: models.Difficulties,
		Draft:        services.CourseForm{Difficulty: string(models.DifficultyBeginner)},
	}
}

// renderMutation shows the course list re-fetched after a successful write
func (h *TeacherHandler) renderMutation(c *gin.Context, sess models.Session, result *services.MutationResult) {
	page := h.newPage(sess, TabCourses)
	page.Courses = result.Courses
	page.Alert = result.Message
	render(c, http.StatusOK, "teacher.html", page)
}

func (h *TeacherHandler) handleMutationError(c *gin.Context, sess models.Session, err error) {
	h.LogError(c, err, "Teacher action failed")
	h.renderCourses(c, sess, failureStatus(err), services.FailureMessage(err))
}

// failureStatus maps a failed write to the page status: rejected input is
// 400, a missing record 404, anything else a bad gateway
func failureStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidationFailed), errors.Is(err, services.ErrAttemptIDRequired):
		return http.StatusBadRequest
	case apiclient.StatusCode(err) == http.StatusNotFound:
		return http.StatusNotFound
	case apiclient.StatusCode(err) == http.StatusBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// renderCourses paints the courses tab after a failed action
func (h *TeacherHandler) renderCourses(c *gin.Context, sess models.Session, status int, alert string) {
	courses, err := h.service.ListCourses(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to load teacher courses")
	}
	page := h.newPage(sess, TabCourses)
	page.Courses = courses
	page.Alert = alert
	render(c, status, "teacher.html", page)
}

func (h *TeacherHandler) renderCreateFailed(c *gin.Context, sess models.Session, draft services.CourseForm, status int) {
	courses, err := h.service.ListCourses(c.Request.Context(), sess.Username)
	if err != nil {
		h.LogError(c, err, "Failed to load teacher courses")
	}
	page := h.newPage(sess, TabCourses)
	page.Courses = courses
	page.ShowCreate = true
	page.Draft = draft
	page.Alert = services.MsgCreateFailed
	render(c, status, "teacher.html", page)
}

func (h *TeacherHandler) renderConfirmDelete(c *gin.Context, sess models.Session, courseID string) {
	course := models.Course{ID: courseID}
	if courses, err := h.service.ListCourses(c.Request.Context(), sess.Username); err == nil {
		for _, candidate := range courses {
			if candidate.ID == courseID {
				course = candidate
				break
			}
		}
	}
	render(c, http.StatusOK, "confirm_delete.html", ConfirmDeletePage{
		Page:   Page{Title: "Teacher Dashboard", Session: &sess},
		Course: course,
	})
}

func normalizeTab(tab string) string {
	switch tab {
	case TabProgress, TabStatistics, TabSubmissions:
		return tab
	default:
		return TabCourses
	}
}
