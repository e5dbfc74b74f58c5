package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

const progressSheet = "Progress"

var progressHeader = []interface{}{"Student", "Course", "Status", "Started", "Submitted", "Score"}

// ExportProgress renders the teacher's progress table as an XLSX workbook
func (s *teacherService) ExportProgress(ctx context.Context, teacher string) ([]byte, error) {
	progress, err := s.ListProgress(ctx, teacher)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	titles := map[string]string{}
	if courses, err := s.ListCourses(ctx, teacher); err == nil {
		for _, c := range courses {
			titles[c.ID] = c.Title
		}
	} else {
		s.logger.Warn("Exporting progress without course titles", "teacher", teacher, "error", err)
	}

	data, err := buildProgressWorkbook(progress, titles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.logger.Info("Progress exported", "teacher", teacher, "rows", len(progress))
	return data, nil
}

func buildProgressWorkbook(progress []models.ProgressRecord, titles map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", progressSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(progressSheet, "A1", &progressHeader); err != nil {
		return nil, err
	}

	for i, p := range progress {
		course := p.ExperimentID
		if title, ok := titles[p.ExperimentID]; ok && title != "" {
			course = title
		}

		row := []interface{}{p.StudentID, course, string(p.Status), formatTimestamp(p.StartTime), formatTimestamp(p.SubmitTime), ""}
		if p.Score != nil {
			row[5] = *p.Score
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(progressSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatTimestamp(ts *models.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}
