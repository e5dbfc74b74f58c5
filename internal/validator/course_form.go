package validator

// CourseForm is the teacher's create-course modal as posted by the browser
type CourseForm struct {
	Title        string `form:"title" validate:"required,course_title"`
	Description  string `form:"description" validate:"required"`
	Difficulty   string `form:"difficulty"`
	Tags         string `form:"tags"`
	NotebookPath string `form:"notebook_path" validate:"required"`
	Published    bool   `form:"published"`
}

// SubmissionForm hands in the notebook of an open attempt
type SubmissionForm struct {
	NotebookContent string `form:"notebook_content" validate:"required"`
}

// GradeForm is one row of the submissions review table. The score range is
// enforced by the backend.
type GradeForm struct {
	Score   string `form:"score" validate:"required,numeric"`
	Comment string `form:"comment"`
}
