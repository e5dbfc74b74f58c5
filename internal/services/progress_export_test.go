package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

func TestExportProgress(t *testing.T) {
	f := newFixture(t)
	seedCourses(f)

	score := 88.0
	started := models.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	f.api.SetProgress([]models.ProgressRecord{
		{StudentID: "student_001", ExperimentID: "c1", Status: models.StatusGraded, StartTime: &started, Score: &score},
		{StudentID: "student_002", ExperimentID: "gone", Status: models.StatusInProgress},
	})

	data, err := f.manager.Teacher().ExportProgress(context.Background(), "teacher_001")
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(progressSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student", "Course", "Status", "Started", "Submitted", "Score"}, rows[0])
	assert.Equal(t, "student_001", rows[1][0])
	assert.Equal(t, "Python 基础", rows[1][1])
	assert.Equal(t, "已评分", rows[1][2])
	assert.Equal(t, "2024-05-01 10:00:00", rows[1][3])
	assert.Equal(t, "88", rows[1][5])
	assert.Equal(t, "gone", rows[2][1])
}

func TestExportProgressFailure(t *testing.T) {
	f := newFixture(t)
	f.api.FailOn(http.MethodGet, "/api/teacher/progress", http.StatusInternalServerError)

	_, err := f.manager.Teacher().ExportProgress(context.Background(), "teacher_001")
	assert.ErrorIs(t, err, ErrExportFailed)
}
