package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/training-portal/internal/apiclient"
	"github.com/SAP-F-2025/training-portal/internal/apiclient/fakeapi"
	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/events/eventstest"
	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/validator"
)

const (
	demoPassword = "123456"
	notebookURL  = "http://localhost:8888/lab?token=training2024"
)

type fixture struct {
	api       *fakeapi.Server
	publisher *eventstest.MockEventPublisher
	manager   ServiceManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := fakeapi.New()
	t.Cleanup(api.Close)

	publisher := eventstest.NewMockEventPublisher(logger)
	manager := NewServiceManager(
		apiclient.New(api.URL, 5*time.Second, logger),
		publisher,
		logger,
		validator.NewBusinessValidator(),
		ServiceManagerConfig{DemoPassword: demoPassword, NotebookURL: notebookURL},
	)
	require.NoError(t, manager.Initialize(context.Background()))
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })

	return &fixture{api: api, publisher: publisher, manager: manager}
}

func eventTypes(p *eventstest.MockEventPublisher) []events.ActivityType {
	return p.Types()
}

// ===== LOGIN =====

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     string
		wantErr  error
		wantView models.ViewKind
		roleCall bool
	}{
		{name: "teacher", username: "teacher_001", password: demoPassword, role: "teacher", wantView: models.ViewTeacher, roleCall: true},
		{name: "student", username: " student_001 ", password: demoPassword, role: "student", wantView: models.ViewStudent, roleCall: true},
		{name: "wrong password", username: "teacher_001", password: "nope", role: "teacher", wantErr: ErrWrongPassword},
		{name: "empty username", username: "   ", password: demoPassword, wantErr: ErrUsernameRequired},
		{name: "unknown role", username: "admin", password: demoPassword, role: "admin", wantErr: ErrRoleLookupFailed, roleCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.role != "" {
				f.api.SetRole("teacher_001", tt.role)
				f.api.SetRole("student_001", tt.role)
				f.api.SetRole("admin", tt.role)
			}

			sess, err := f.manager.Login().Login(context.Background(), tt.username, tt.password)

			calls := f.api.CallsTo(http.MethodGet, "/api/check-role")
			if tt.roleCall {
				assert.Len(t, calls, 1)
			} else {
				assert.Empty(t, calls)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sess)
				assert.Empty(t, f.publisher.GetPublishedEvents())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantView, models.SelectView(sess).Kind)
			assert.Equal(t, []events.ActivityType{events.ActivityLoggedIn}, eventTypes(f.publisher))
		})
	}
}

func TestLoginRoleLookupTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.api.FailOn(http.MethodGet, "/api/check-role", http.StatusInternalServerError)

	_, err := f.manager.Login().Login(context.Background(), "teacher_001", demoPassword)
	assert.ErrorIs(t, err, ErrRoleLookupFailed)
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
}

func TestLogoutEmitsEvent(t *testing.T) {
	f := newFixture(t)
	f.manager.Login().Logout(context.Background(), models.Session{Username: "u", Role: models.RoleStudent})
	assert.Equal(t, []events.ActivityType{events.ActivityLoggedOut}, eventTypes(f.publisher))
}

// ===== STUDENT =====

func TestStudentListCourses(t *testing.T) {
	f := newFixture(t)
	f.api.SetStudentCourses("student_001", []models.CourseStatusView{
		{Course: models.Course{ID: "c1", Title: "Python"}, Status: models.StatusNotStarted},
	})

	items, err := f.manager.Student().ListCourses(context.Background(), "student_001")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].Course.ID)

	items, err = f.manager.Student().ListCourses(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStudentListCoursesFailure(t *testing.T) {
	f := newFixture(t)
	f.api.FailOn(http.MethodGet, "/api/student/courses-with-status", http.StatusBadGateway)

	items, err := f.manager.Student().ListCourses(context.Background(), "student_001")
	assert.Error(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStartOrContinue(t *testing.T) {
	t.Run("start issues the create call and returns its url", func(t *testing.T) {
		f := newFixture(t)
		f.api.JupyterURL = "http://hub/user/student_001/lab"

		url, err := f.manager.Student().StartOrContinue(context.Background(), "student_001", CourseAction{CourseID: "c1"})
		require.NoError(t, err)
		assert.Equal(t, "http://hub/user/student_001/lab", url)

		calls := f.api.CallsTo(http.MethodPost, "/api/student-experiments/start/:id")
		require.Len(t, calls, 1)
		assert.Equal(t, "/api/student-experiments/start/c1", calls[0].Path)
		assert.Equal(t, "student_001", calls[0].Query.Get("student_id"))

		evts := f.publisher.GetPublishedEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, events.ActivityAttemptStarted, evts[0].Type)
		assert.Equal(t, "c1", evts[0].CourseID)
	})

	t.Run("continue goes to the fixed notebook url without a call", func(t *testing.T) {
		f := newFixture(t)

		url, err := f.manager.Student().StartOrContinue(context.Background(), "student_001",
			CourseAction{CourseID: "c1", StudentExperimentID: "se-1"})
		require.NoError(t, err)
		assert.Equal(t, notebookURL, url)
		assert.Empty(t, f.api.Calls())
	})

	t.Run("start failure", func(t *testing.T) {
		f := newFixture(t)
		f.api.FailOn(http.MethodPost, "/api/student-experiments/start/:id", http.StatusBadRequest)

		_, err := f.manager.Student().StartOrContinue(context.Background(), "student_001", CourseAction{CourseID: "c1"})
		assert.ErrorIs(t, err, ErrAttemptStartFailed)
		assert.Empty(t, f.publisher.GetPublishedEvents())
	})

	t.Run("missing course id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Student().StartOrContinue(context.Background(), "student_001", CourseAction{})
		assert.ErrorIs(t, err, ErrCourseIDRequired)
		assert.Empty(t, f.api.Calls())
	})
}

func seedAttempts(f *fixture) {
	f.api.AddAttempt(models.StudentExperiment{ID: "se-1", ExperimentID: "c1", StudentID: "student_001", Status: models.StatusInProgress})
	f.api.AddAttempt(models.StudentExperiment{ID: "se-2", ExperimentID: "c2", StudentID: "student_001", Status: models.StatusGraded})
	f.api.AddAttempt(models.StudentExperiment{ID: "se-3", ExperimentID: "c1", StudentID: "student_002", Status: models.StatusSubmitted})
}

func TestMyExperiments(t *testing.T) {
	f := newFixture(t)
	seedAttempts(f)

	attempts, err := f.manager.Student().MyExperiments(context.Background(), "student_001")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "se-1", attempts[0].ID)
	assert.Equal(t, "/api/student-experiments/my-experiments/student_001",
		f.api.CallsTo(http.MethodGet, "/api/student-experiments/my-experiments/:studentId")[0].Path)

	f.api.FailOn(http.MethodGet, "/api/student-experiments/my-experiments/:studentId", http.StatusInternalServerError)
	attempts, err = f.manager.Student().MyExperiments(context.Background(), "student_001")
	assert.Error(t, err)
	assert.NotNil(t, attempts)
	assert.Empty(t, attempts)
}

func TestSubmit(t *testing.T) {
	t.Run("one submit call then the list is re-fetched", func(t *testing.T) {
		f := newFixture(t)
		seedAttempts(f)

		res, err := f.manager.Student().Submit(context.Background(), "student_001", "se-1", &SubmissionForm{NotebookContent: "print(42)"})
		require.NoError(t, err)
		assert.Equal(t, MsgSubmitted, res.Message)
		assert.NoError(t, res.RefreshErr)

		calls := f.api.CallsTo(http.MethodPost, "/api/student-experiments/:id/submit")
		require.Len(t, calls, 1)
		assert.Equal(t, "/api/student-experiments/se-1/submit", calls[0].Path)
		assert.JSONEq(t, `{"notebook_content":"print(42)"}`, string(calls[0].Body))

		assert.Len(t, f.api.CallsTo(http.MethodGet, "/api/student-experiments/my-experiments/:studentId"), 1)
		require.Len(t, res.Attempts, 2)
		assert.Equal(t, models.StatusSubmitted, res.Attempts[0].Status)

		evts := f.publisher.GetPublishedEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, events.ActivityAttemptSubmitted, evts[0].Type)
		assert.Equal(t, "se-1", evts[0].AttemptID)
		assert.Equal(t, "c1", evts[0].CourseID)
	})

	t.Run("empty notebook makes no call", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Student().Submit(context.Background(), "student_001", "se-1", &SubmissionForm{})
		assert.ErrorIs(t, err, ErrSubmitFailed)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Equal(t, "submit failed: validation failed: notebook_content is required", err.Error())
		assert.Empty(t, f.api.Calls())
	})

	t.Run("missing attempt id makes no call", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Student().Submit(context.Background(), "student_001", " ", &SubmissionForm{NotebookContent: "x"})
		assert.ErrorIs(t, err, ErrAttemptIDRequired)
		assert.Empty(t, f.api.Calls())
	})

	t.Run("backend failure does not re-fetch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Student().Submit(context.Background(), "student_001", "missing", &SubmissionForm{NotebookContent: "x"})
		assert.ErrorIs(t, err, ErrSubmitFailed)
		assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
		assert.Empty(t, f.api.CallsTo(http.MethodGet, "/api/student-experiments/my-experiments/:studentId"))
		assert.Empty(t, f.publisher.GetPublishedEvents())
	})
}

// ===== TEACHER =====

func seedCourses(f *fixture) {
	f.api.AddCourse(models.Course{ID: "c1", Title: "Python 基础", CreatedBy: "teacher_001", Published: true})
	f.api.AddCourse(models.Course{ID: "c2", Title: "Pandas", CreatedBy: "teacher_001"})
	f.api.AddCourse(models.Course{ID: "c3", Title: "Other", CreatedBy: "teacher_002"})
}

func TestDashboardLoadsBothTables(t *testing.T) {
	f := newFixture(t)
	seedCourses(f)
	f.api.SetProgress([]models.ProgressRecord{{StudentID: "student_001", ExperimentID: "c1", Status: models.StatusSubmitted}})

	dash := f.manager.Teacher().Dashboard(context.Background(), "teacher_001")
	require.NoError(t, dash.CoursesErr)
	require.NoError(t, dash.ProgressErr)
	assert.Len(t, dash.Courses, 2)
	assert.Len(t, dash.Progress, 1)

	assert.Equal(t, "teacher_001", f.api.CallsTo(http.MethodGet, "/api/teacher/courses")[0].Query.Get("teacher_username"))
	assert.Equal(t, "teacher_001", f.api.CallsTo(http.MethodGet, "/api/teacher/progress")[0].Query.Get("teacher_username"))
}

func TestDashboardReadsFailIndependently(t *testing.T) {
	f := newFixture(t)
	seedCourses(f)
	f.api.SetProgress([]models.ProgressRecord{{StudentID: "s", ExperimentID: "c1"}})
	f.api.FailOn(http.MethodGet, "/api/teacher/courses", http.StatusInternalServerError)

	dash := f.manager.Teacher().Dashboard(context.Background(), "teacher_001")
	assert.Error(t, dash.CoursesErr)
	assert.Empty(t, dash.Courses)
	assert.NoError(t, dash.ProgressErr)
	assert.Len(t, dash.Progress, 1)
}

func TestTogglePublish(t *testing.T) {
	tests := []struct {
		name      string
		courseID  string
		current   bool
		wantFlag  string
		wantMsg   string
		wantEvent events.ActivityType
	}{
		{name: "unpublish", courseID: "c1", current: true, wantFlag: "false", wantMsg: MsgUnpublished, wantEvent: events.ActivityCourseUnpublished},
		{name: "publish", courseID: "c2", current: false, wantFlag: "true", wantMsg: MsgPublished, wantEvent: events.ActivityCoursePublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seedCourses(f)

			res, err := f.manager.Teacher().TogglePublish(context.Background(), "teacher_001", tt.courseID, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, res.Message)

			patches := f.api.CallsTo(http.MethodPatch, "/api/teacher/courses/:id/publish")
			require.Len(t, patches, 1)
			assert.Equal(t, tt.wantFlag, patches[0].Query.Get("published"))
			assert.Equal(t, "teacher_001", patches[0].Query.Get("teacher_username"))

			assert.Len(t, f.api.CallsTo(http.MethodGet, "/api/teacher/courses"), 1)
			for _, c := range res.Courses {
				if c.ID == tt.courseID {
					assert.Equal(t, !tt.current, c.Published)
				}
			}
			assert.Equal(t, []events.ActivityType{tt.wantEvent}, eventTypes(f.publisher))
		})
	}
}

func TestTogglePublishFailureDoesNotRefetch(t *testing.T) {
	f := newFixture(t)
	seedCourses(f)
	f.api.FailOn(http.MethodPatch, "/api/teacher/courses/:id/publish", http.StatusForbidden)

	_, err := f.manager.Teacher().TogglePublish(context.Background(), "teacher_001", "c1", true)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Equal(t, MsgOperationFailed, FailureMessage(err))
	assert.Empty(t, f.api.CallsTo(http.MethodGet, "/api/teacher/courses"))
}

func TestDeleteCourse(t *testing.T) {
	t.Run("declined issues no delete", func(t *testing.T) {
		f := newFixture(t)
		seedCourses(f)

		_, err := f.manager.Teacher().DeleteCourse(context.Background(), "teacher_001", "c1", false)
		assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
		assert.Empty(t, f.api.CallsTo(http.MethodDelete, "/api/experiments/:id"))
		assert.Len(t, f.api.Courses(), 3)
	})

	t.Run("confirmed deletes and re-fetches", func(t *testing.T) {
		f := newFixture(t)
		seedCourses(f)

		res, err := f.manager.Teacher().DeleteCourse(context.Background(), "teacher_001", "c1", true)
		require.NoError(t, err)
		assert.Equal(t, MsgDeleted, res.Message)
		assert.Len(t, res.Courses, 1)

		deletes := f.api.CallsTo(http.MethodDelete, "/api/experiments/:id")
		require.Len(t, deletes, 1)
		assert.Equal(t, "/api/experiments/c1", deletes[0].Path)
		assert.Len(t, f.api.CallsTo(http.MethodGet, "/api/teacher/courses"), 1)
	})

	t.Run("backend failure", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.manager.Teacher().DeleteCourse(context.Background(), "teacher_001", "missing", true)
		assert.ErrorIs(t, err, ErrDeleteFailed)
		assert.Equal(t, MsgDeleteFailed, FailureMessage(err))
		assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
	})
}

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)

	form := &CourseForm{
		Title:        "A",
		Description:  "B",
		Difficulty:   "初级",
		Tags:         "x,y",
		NotebookPath: "c.ipynb",
		Published:    false,
	}
	res, err := f.manager.Teacher().CreateCourse(context.Background(), "teacher_001", form)
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, res.Message)

	posts := f.api.CallsTo(http.MethodPost, "/api/experiments")
	require.Len(t, posts, 1)

	var body map[string]any
	require.NoError(t, json.Unmarshal(posts[0].Body, &body))
	assert.Equal(t, []any{"x", "y"}, body["tags"])
	assert.Equal(t, "teacher_001", body["created_by"])
	assert.Equal(t, "A", body["title"])
	assert.Equal(t, "B", body["description"])
	assert.Equal(t, "初级", body["difficulty"])
	assert.Equal(t, "c.ipynb", body["notebook_path"])
	assert.Equal(t, false, body["published"])

	assert.Len(t, f.api.CallsTo(http.MethodGet, "/api/teacher/courses"), 1)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "A", res.Courses[0].Title)
	assert.Equal(t, []events.ActivityType{events.ActivityCourseCreated}, eventTypes(f.publisher))
}

func TestCreateCourseDefaultsAndValidation(t *testing.T) {
	t.Run("difficulty defaults to beginner and empty tags stay a list", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Teacher().CreateCourse(context.Background(), "teacher_001",
			&CourseForm{Title: "A", Description: "B", NotebookPath: "c.ipynb"})
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(f.api.CallsTo(http.MethodPost, "/api/experiments")[0].Body, &body))
		assert.Equal(t, "初级", body["difficulty"])
		assert.Equal(t, []any{}, body["tags"])
	})

	t.Run("missing required fields make no call", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Teacher().CreateCourse(context.Background(), "teacher_001", &CourseForm{Title: "A"})
		assert.ErrorIs(t, err, ErrValidationFailed)

		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, []string{"description", "notebook_path"}, verrs.Fields())
		assert.Equal(t, "validation failed: 2 field errors", err.Error())
		assert.Empty(t, f.api.Calls())
	})

	t.Run("only required fields are checked", func(t *testing.T) {
		forms := map[string]*CourseForm{
			"free-form difficulty":   {Title: "A", Description: "B", Difficulty: "beginner", NotebookPath: "c.ipynb"},
			"relative notebook path": {Title: "A", Description: "B", NotebookPath: "../shared/c.ipynb"},
			"long title":             {Title: strings.Repeat("t", 201), Description: "B", NotebookPath: "c.ipynb"},
		}
		for name, form := range forms {
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				_, err := f.manager.Teacher().CreateCourse(context.Background(), "teacher_001", form)
				require.NoError(t, err)
				assert.Len(t, f.api.CallsTo(http.MethodPost, "/api/experiments"), 1)
			})
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		f := newFixture(t)
		f.api.FailOn(http.MethodPost, "/api/experiments", http.StatusInternalServerError)
		_, err := f.manager.Teacher().CreateCourse(context.Background(), "teacher_001",
			&CourseForm{Title: "A", Description: "B", NotebookPath: "c.ipynb"})
		assert.ErrorIs(t, err, ErrCreateFailed)
		assert.Equal(t, MsgCreateFailed, FailureMessage(err))
		assert.Empty(t, f.api.CallsTo(http.MethodGet, "/api/teacher/courses"))
	})
}

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	f.api.SetStatistics(models.Statistics{
		TotalExperiments:   3,
		TotalSubmissions:   2,
		StatusDistribution: map[models.AttemptStatus]int{models.StatusSubmitted: 2},
	})

	stats, err := f.manager.Teacher().Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalExperiments)
	assert.Equal(t, 2, stats.StatusDistribution[models.StatusSubmitted])
}

func TestServiceManagerRequiresConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewServiceManager(nil, nil, logger, validator.NewBusinessValidator(), ServiceManagerConfig{})
	assert.Error(t, manager.Initialize(context.Background()))
	assert.Panics(t, func() { manager.Login() })
}

func TestSubmissions(t *testing.T) {
	f := newFixture(t)
	seedAttempts(f)

	subs, err := f.manager.Teacher().Submissions(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	f.api.FailOn(http.MethodGet, "/api/teacher/experiments/:id/submissions", http.StatusInternalServerError)
	subs, err = f.manager.Teacher().Submissions(context.Background(), "c1")
	assert.Error(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestGradeSubmission(t *testing.T) {
	t.Run("one grade call then the submissions are re-fetched", func(t *testing.T) {
		f := newFixture(t)
		seedAttempts(f)

		res, err := f.manager.Teacher().GradeSubmission(context.Background(), "teacher_001", "c1", "se-3",
			&GradeForm{Score: "88.5", Comment: " well done "})
		require.NoError(t, err)
		assert.Equal(t, MsgGraded, res.Message)

		calls := f.api.CallsTo(http.MethodPost, "/api/teacher/grade/:id")
		require.Len(t, calls, 1)
		assert.Equal(t, "/api/teacher/grade/se-3", calls[0].Path)
		assert.Equal(t, "88.5", calls[0].Query.Get("score"))
		assert.Equal(t, "well done", calls[0].Query.Get("comment"))

		refetch := f.api.CallsTo(http.MethodGet, "/api/teacher/experiments/:id/submissions")
		require.Len(t, refetch, 1)
		assert.Equal(t, "/api/teacher/experiments/c1/submissions", refetch[0].Path)

		var graded models.StudentExperiment
		for _, a := range res.Attempts {
			if a.ID == "se-3" {
				graded = a
			}
		}
		assert.Equal(t, models.StatusGraded, graded.Status)
		require.NotNil(t, graded.Score)
		assert.Equal(t, 88.5, *graded.Score)

		evts := f.publisher.GetPublishedEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, events.ActivitySubmissionGraded, evts[0].Type)
		assert.Equal(t, "c1", evts[0].CourseID)
		assert.Equal(t, "se-3", evts[0].AttemptID)
	})

	t.Run("score must be given as a number", func(t *testing.T) {
		f := newFixture(t)
		for _, score := range []string{"", "A+"} {
			_, err := f.manager.Teacher().GradeSubmission(context.Background(), "teacher_001", "c1", "se-3", &GradeForm{Score: score})
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Equal(t, MsgGradeFailed, FailureMessage(err))
		}
		assert.Empty(t, f.api.Calls())
	})

	t.Run("backend rejection does not re-fetch", func(t *testing.T) {
		f := newFixture(t)
		seedAttempts(f)

		_, err := f.manager.Teacher().GradeSubmission(context.Background(), "teacher_001", "c1", "se-3", &GradeForm{Score: "150"})
		assert.ErrorIs(t, err, ErrGradeFailed)
		assert.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))
		assert.Equal(t, MsgGradeFailed, FailureMessage(err))
		assert.Empty(t, f.api.CallsTo(http.MethodGet, "/api/teacher/experiments/:id/submissions"))
	})
}
