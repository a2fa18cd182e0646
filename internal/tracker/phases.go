package tracker

import (
	"sort"

	"codejourney-backend/internal/models"
)

type PhaseGroup struct {
	Phase      int             `json:"phase"`
	PhaseTitle string          `json:"phase_title"`
	Courses    []models.Course `json:"courses"`
}

// GroupByPhase buckets courses by phase number. Groups come back in ascending phase
// order, courses keep their catalog order, and a group's title is the phase_title of
// the first course seen for it.
func GroupByPhase(courses []models.Course) []PhaseGroup {
	index := make(map[int]int)
	var groups []PhaseGroup

	for _, c := range courses {
		i, ok := index[c.Phase]
		if !ok {
			i = len(groups)
			index[c.Phase] = i
			groups = append(groups, PhaseGroup{Phase: c.Phase, PhaseTitle: c.PhaseTitle})
		}
		groups[i].Courses = append(groups[i].Courses, c)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Phase < groups[j].Phase
	})
	return groups
}

// GroupFiltered applies f inside every phase group, dropping groups left empty.
func GroupFiltered(courses []models.Course, f Filter) []PhaseGroup {
	var out []PhaseGroup
	for _, g := range GroupByPhase(courses) {
		kept := FilterCourses(g.Courses, f)
		if len(kept) == 0 {
			continue
		}
		g.Courses = kept
		out = append(out, g)
	}
	return out
}
