package tracker

import (
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
)

func course(title string, phase int, status models.CourseStatus, priority models.Priority) models.Course {
	progress := 0
	switch status {
	case models.StatusInProgress:
		progress = 40
	case models.StatusCompleted:
		progress = 100
	}
	return models.Course{
		ID:         uuid.New(),
		Title:      title,
		Phase:      phase,
		PhaseTitle: phaseTitle(phase),
		Status:     status,
		Progress:   progress,
		Priority:   priority,
	}
}

func phaseTitle(phase int) string {
	return map[int]string{
		1: "Frontend Foundations",
		2: "Core JavaScript + TypeScript",
		3: "React (The Beast Stage)",
		4: "Backend Basics",
	}[phase]
}

func catalog() []models.Course {
	return []models.Course{
		course("HTML & CSS", 1, models.StatusCompleted, models.PriorityMust),
		course("Node.js", 4, models.StatusNotStarted, models.PriorityMust),
		course("Tailwind", 1, models.StatusInProgress, models.PriorityMust),
		course("JavaScript", 2, models.StatusInProgress, models.PriorityMust),
		course("MySQL", 4, models.StatusNotStarted, models.PriorityOptional),
		course("TypeScript", 2, models.StatusNotStarted, models.PriorityMust),
		course("Express", 4, models.StatusCompleted, models.PriorityMust),
	}
}

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}
