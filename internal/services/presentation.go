package services

import (
	"strings"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

// ParseTags splits the comma separated tag field, trimming entries and dropping empty ones.
// The result is never nil.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Badge is the label and colour of a status pill
type Badge struct {
	Text  string
	Color string
}

var statusBadges = map[models.AttemptStatus]Badge{
	models.StatusNotStarted: {Text: string(models.StatusNotStarted), Color: "#909399"},
	models.StatusInProgress: {Text: string(models.StatusInProgress), Color: "#faad14"},
	models.StatusSubmitted:  {Text: string(models.StatusSubmitted), Color: "#52c41a"},
	models.StatusGraded:     {Text: string(models.StatusGraded), Color: "#1890ff"},
}

// StatusBadge looks the status up in a fixed table; unknown values get the not started badge
func StatusBadge(status models.AttemptStatus) Badge {
	if badge, ok := statusBadges[models.NormalizeStatus(string(status))]; ok {
		return badge
	}
	return statusBadges[models.StatusNotStarted]
}

func DifficultyColor(d models.DifficultyLevel) string {
	switch d {
	case models.DifficultyBeginner:
		return "#52c41a"
	case models.DifficultyIntermediate:
		return "#faad14"
	default:
		return "#f5222d"
	}
}
