package models

// DifficultyLevel values are the backend's wire values
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "初级"
	DifficultyIntermediate DifficultyLevel = "中级"
	DifficultyAdvanced     DifficultyLevel = "高级"
)

// Difficulties lists the levels offered by the create form, in display order
var Difficulties = []DifficultyLevel{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type AttemptStatus string

const (
	StatusNotStarted AttemptStatus = "未开始"
	StatusInProgress AttemptStatus = "进行中"
	StatusSubmitted  AttemptStatus = "已提交"
	StatusGraded     AttemptStatus = "已评分"
)

var statusAliases = map[string]AttemptStatus{
	"not_started": StatusNotStarted,
	"in_progress": StatusInProgress,
	"submitted":   StatusSubmitted,
	"graded":      StatusGraded,
}

// NormalizeStatus maps English aliases onto wire values; anything else is returned as is.
func NormalizeStatus(s string) AttemptStatus {
	if st, ok := statusAliases[s]; ok {
		return st
	}
	return AttemptStatus(s)
}

// IsIncomplete reports whether the student still has work to do on the course
func (s AttemptStatus) IsIncomplete() bool {
	st := NormalizeStatus(string(s))
	return st == StatusNotStarted || st == StatusInProgress
}

// Resources is the notebook environment sizing attached to a course
type Resources struct {
	CPU     float64 `json:"cpu"`
	Memory  string  `json:"memory"`
	Storage string  `json:"storage"`
}

// Course is an experiment as returned by the backend
type Course struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Difficulty   DifficultyLevel `json:"difficulty"`
	Tags         []string        `json:"tags"`
	NotebookPath string          `json:"notebook_path"`
	Resources    *Resources      `json:"resources,omitempty"`
	Deadline     *Timestamp      `json:"deadline,omitempty"`
	Published    bool            `json:"published"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    *Timestamp      `json:"created_at,omitempty"`
}

// CourseStatusView is a published course with the student's attempt state
type CourseStatusView struct {
	Course              Course        `json:"course"`
	Status              AttemptStatus `json:"status"`
	StartTime           *Timestamp    `json:"start_time"`
	SubmitTime          *Timestamp    `json:"submit_time"`
	Score               *float64      `json:"score"`
	StudentExperimentID *string       `json:"student_exp_id"`
}

// HasAttempt reports whether the student already started this course
func (v CourseStatusView) HasAttempt() bool {
	return v.StudentExperimentID != nil && *v.StudentExperimentID != ""
}

// ProgressRecord is one student's attempt on one of the teacher's courses
type ProgressRecord struct {
	StudentID    string        `json:"student_id"`
	ExperimentID string        `json:"experiment_id"`
	Status       AttemptStatus `json:"status"`
	StartTime    *Timestamp    `json:"start_time"`
	SubmitTime   *Timestamp    `json:"submit_time"`
	Score        *float64      `json:"score"`
}

// Statistics is the platform-wide overview shown on the teacher statistics tab
type Statistics struct {
	TotalExperiments   int                   `json:"total_experiments"`
	TotalSubmissions   int                   `json:"total_submissions"`
	StatusDistribution map[AttemptStatus]int `json:"status_distribution"`
}

// StudentExperiment is one attempt record: the student's work on a course and its grading
type StudentExperiment struct {
	ID              string        `json:"id"`
	ExperimentID    string        `json:"experiment_id"`
	StudentID       string        `json:"student_id"`
	Status          AttemptStatus `json:"status"`
	StartTime       *Timestamp    `json:"start_time"`
	SubmitTime      *Timestamp    `json:"submit_time"`
	NotebookContent *string       `json:"notebook_content"`
	Score           *float64      `json:"score"`
	AIFeedback      *string       `json:"ai_feedback"`
	TeacherComment  *string       `json:"teacher_comment"`
}

// CanSubmit reports whether the attempt is still open for a submission
func (e StudentExperiment) CanSubmit() bool {
	return NormalizeStatus(string(e.Status)) == StatusInProgress
}
