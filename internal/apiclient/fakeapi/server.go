// Package fakeapi serves an in-memory training-platform API for tests.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

// Call is one request received by the fake API
type Call struct {
	Method string
	Route  string
	Path   string
	Query  url.Values
	Body   []byte
}

// Server is an httptest server mimicking the backend endpoints used by the portal
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	calls          []Call
	failures       map[string]int
	roles          map[string]string
	courses        []models.Course
	studentCourses map[string][]models.CourseStatusView
	progress       []models.ProgressRecord
	stats          models.Statistics
	attempts       []models.StudentExperiment
	nextID         int

	JupyterURL string
}

// New starts a fake API. Close it with Server.Close.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		failures:       map[string]int{},
		roles:          map[string]string{},
		studentCourses: map[string][]models.CourseStatusView{},
		stats:          models.Statistics{StatusDistribution: map[models.AttemptStatus]int{}},
		JupyterURL:     "http://localhost:8888/lab?token=training2024",
	}

	router := gin.New()
	router.Use(s.record, s.injectFailures)

	api := router.Group("/api")
	{
		api.GET("/check-role", s.checkRole)
		api.GET("/student/courses-with-status", s.coursesWithStatus)
		api.POST("/student-experiments/start/:id", s.startAttempt)
		api.GET("/student-experiments/my-experiments/:studentId", s.myExperiments)
		api.POST("/student-experiments/:id/submit", s.submitAttempt)
		api.GET("/teacher/experiments/:id/submissions", s.submissions)
		api.POST("/teacher/grade/:id", s.grade)
		api.GET("/teacher/courses", s.teacherCourses)
		api.GET("/teacher/progress", s.teacherProgress)
		api.GET("/teacher/statistics", s.statistics)
		api.PATCH("/teacher/courses/:id/publish", s.setPublished)
		api.DELETE("/experiments/:id", s.deleteCourse)
		api.POST("/experiments", s.createCourse)
	}

	s.Server = httptest.NewServer(router)
	return s
}

// ===== SETUP =====

func (s *Server) SetRole(username, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[username] = role
}

func (s *Server) AddCourse(c models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Tags == nil {
		c.Tags = []string{}
	}
	s.courses = append(s.courses, c)
}

func (s *Server) SetStudentCourses(studentID string, items []models.CourseStatusView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studentCourses[studentID] = items
}

func (s *Server) SetProgress(records []models.ProgressRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = records
}

func (s *Server) SetStatistics(stats models.Statistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// AddAttempt stores an attempt record returned by my-experiments and submissions
func (s *Server) AddAttempt(e models.StudentExperiment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, e)
}

// Attempt returns the stored attempt record with id
func (s *Server) Attempt(id string) (models.StudentExperiment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.attempts {
		if e.ID == id {
			return e, true
		}
	}
	return models.StudentExperiment{}, false
}

// FailOn makes the route (gin pattern, e.g. "/api/experiments/:id") answer with status
func (s *Server) FailOn(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = status
}

// ===== INSPECTION =====

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the calls matching method and gin route pattern
func (s *Server) CallsTo(method, route string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) Courses() []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Course(nil), s.courses...)
}

// ===== MIDDLEWARE =====

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: c.Request.Method,
		Route:  c.FullPath(),
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Next()
}

func (s *Server) injectFailures(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"detail": "forced failure"})
		return
	}
	c.Next()
}

// ===== HANDLERS =====

func (s *Server) checkRole(c *gin.Context) {
	username := c.Query("username")
	s.mu.Lock()
	role, ok := s.roles[username]
	s.mu.Unlock()
	if !ok {
		role = string(models.RoleStudent)
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "role": role})
}

func (s *Server) coursesWithStatus(c *gin.Context) {
	s.mu.Lock()
	items := s.studentCourses[c.Query("student_id")]
	s.mu.Unlock()
	if items == nil {
		items = []models.CourseStatusView{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) startAttempt(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"student_experiment_id": "se-" + id,
		"jupyter_url":           s.JupyterURL,
		"message":               "实验环境已启动",
	})
}

func (s *Server) teacherCourses(c *gin.Context) {
	teacher := c.Query("teacher_username")
	out := []models.Course{}
	for _, course := range s.Courses() {
		if course.CreatedBy == teacher {
			out = append(out, course)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) teacherProgress(c *gin.Context) {
	s.mu.Lock()
	records := append([]models.ProgressRecord{}, s.progress...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, records)
}

func (s *Server) statistics(c *gin.Context) {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()
	c.JSON(http.StatusOK, stats)
}

func (s *Server) setPublished(c *gin.Context) {
	published, err := strconv.ParseBool(c.Query("published"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "published must be a boolean"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		if s.courses[i].ID == c.Param("id") {
			s.courses[i].Published = published
			c.JSON(http.StatusOK, gin.H{"message": "ok", "published": published})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "课程不存在"})
}

func (s *Server) deleteCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		if s.courses[i].ID == c.Param("id") {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "实验已删除"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "实验不存在"})
}

func (s *Server) createCourse(c *gin.Context) {
	var course models.Course
	if err := json.NewDecoder(c.Request.Body).Decode(&course); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.nextID++
	course.ID = fmt.Sprintf("course-%d", s.nextID)
	course.CreatedAt = &models.Timestamp{Time: time.Now().UTC()}
	s.courses = append(s.courses, course)
	s.mu.Unlock()

	c.JSON(http.StatusOK, course)
}

func (s *Server) filterAttempts(keep func(models.StudentExperiment) bool) []models.StudentExperiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.StudentExperiment{}
	for _, e := range s.attempts {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Server) myExperiments(c *gin.Context) {
	studentID := c.Param("studentId")
	c.JSON(http.StatusOK, s.filterAttempts(func(e models.StudentExperiment) bool { return e.StudentID == studentID }))
}

func (s *Server) submissions(c *gin.Context) {
	courseID := c.Param("id")
	c.JSON(http.StatusOK, s.filterAttempts(func(e models.StudentExperiment) bool { return e.ExperimentID == courseID }))
}

func (s *Server) submitAttempt(c *gin.Context) {
	var req models.SubmitRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attempts {
		if s.attempts[i].ID == c.Param("id") {
			now := &models.Timestamp{Time: time.Now().UTC()}
			s.attempts[i].Status = models.StatusSubmitted
			s.attempts[i].NotebookContent = &req.NotebookContent
			s.attempts[i].SubmitTime = now
			c.JSON(http.StatusOK, gin.H{"message": "实验已提交", "submit_time": now})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "学生实验记录不存在"})
}

func (s *Server) grade(c *gin.Context) {
	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "score must be a number"})
		return
	}
	if score < 0 || score > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "分数必须在0-100之间"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attempts {
		if s.attempts[i].ID == c.Param("id") {
			s.attempts[i].Score = &score
			if comment, ok := c.GetQuery("comment"); ok {
				s.attempts[i].TeacherComment = &comment
			}
			s.attempts[i].Status = models.StatusGraded
			c.JSON(http.StatusOK, gin.H{"message": "评分成功", "score": score})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "学生实验记录不存在"})
}
