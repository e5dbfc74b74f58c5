package models

// ===== BACKEND REQUEST/RESPONSE DTOs =====

type RoleLookupResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type StartAttemptResponse struct {
	StudentExperimentID string `json:"student_experiment_id"`
	JupyterURL          string `json:"jupyter_url"`
	Message             string `json:"message"`
}

type PublishResponse struct {
	Message   string `json:"message"`
	Published bool   `json:"published"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CreateCourseRequest is the JSON body of POST /api/experiments
type CreateCourseRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Difficulty   DifficultyLevel `json:"difficulty"`
	Tags         []string        `json:"tags"`
	NotebookPath string          `json:"notebook_path"`
	Published    bool            `json:"published"`
	CreatedBy    string          `json:"created_by"`
}

// ErrorResponse is the FastAPI error body
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// SubmitRequest is the JSON body of POST /api/student-experiments/{id}/submit
type SubmitRequest struct {
	NotebookContent string `json:"notebook_content"`
}

type SubmitResponse struct {
	Message    string     `json:"message"`
	SubmitTime *Timestamp `json:"submit_time"`
}

type GradeResponse struct {
	Message string  `json:"message"`
	Score   float64 `json:"score"`
}
