package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/SAP-F-2025/training-portal/internal/models"
	"github.com/SAP-F-2025/training-portal/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer leaves WithUnsafe unset, so raw HTML in course descriptions is dropped
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var templateFuncs = template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"statusBadge":     services.StatusBadge,
	"difficultyColor": services.DifficultyColor,
	"isIncomplete":    func(s models.AttemptStatus) bool { return s.IsIncomplete() },
	"formatDate": func(ts *models.Timestamp) string {
		if ts == nil || ts.IsZero() {
			return "-"
		}
		return ts.Format("2006-01-02")
	},
	"formatDateTime": func(ts *models.Timestamp) string {
		if ts == nil || ts.IsZero() {
			return "-"
		}
		return ts.Format("2006-01-02 15:04")
	},
	"formatScore": func(score *float64) string {
		if score == nil {
			return "-"
		}
		return strconv.FormatFloat(*score, 'f', -1, 64)
	},
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// StaticFiles serves the embedded stylesheet
func StaticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// ===== PAGE DATA =====

// Page is shared by every template
type Page struct {
	Title   string
	Session *models.Session
	Alert   string
}

type LoginPage struct {
	Page
	Username string
}

type StudentPage struct {
	Page
	Tab          string
	Courses      []models.CourseStatusView
	Experiments  []models.StudentExperiment
	CourseTitles map[string]string
}

type TeacherPage struct {
	Page
	Tab          string
	Courses      []models.Course
	Progress     []models.ProgressRecord
	Stats        *models.Statistics
	Submissions  []models.StudentExperiment
	Selected     string
	ShowCreate   bool
	Draft        services.CourseForm
	Difficulties []models.DifficultyLevel
}

type ConfirmDeletePage struct {
	Page
	Course models.Course
}

func render(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}
