package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

// Renderer turns tracker data into themed terminal text. It holds no state beyond
// the theme, so every method is safe to call from any goroutine.
type Renderer struct {
	theme Theme
	st    styles
}

func NewRenderer(t Theme) *Renderer {
	return &Renderer{theme: t, st: t.styles()}
}

func (r *Renderer) Theme() Theme { return r.theme }

func (r *Renderer) title(s string) string {
	if r.theme.UppercaseTitles {
		s = strings.ToUpper(s)
	}
	return r.st.Title.Render(s)
}

// ProgressBar draws p (0-100) as a fixed-width bar followed by the percentage.
func (r *Renderer) ProgressBar(p int) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	w := r.theme.BarWidth
	filled := p * w / 100
	bar := strings.Repeat(r.theme.BarFull, filled) + strings.Repeat(r.theme.BarEmpty, w-filled)

	style := r.st.Accent
	if p == 100 {
		style = r.st.Success
	}
	return style.Render(bar) + fmt.Sprintf(" %3d%%", p)
}

func (r *Renderer) statusBadge(s models.CourseStatus) string {
	switch s {
	case models.StatusCompleted:
		return r.st.Success.Render("[done]")
	case models.StatusInProgress:
		return r.st.Accent.Render("[doing]")
	default:
		return r.st.Muted.Render("[todo]")
	}
}

// Streak renders the streak counter with the theme's glyph.
func (r *Renderer) Streak(days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s %d %s", r.theme.StreakGlyph, days, unit)
}

func (r *Renderer) Summary(s *models.AnalyticsSummary) string {
	if s == nil {
		return r.st.Pane.Render(r.title("Dashboard") + "\n" + r.st.Muted.Render("No data yet."))
	}

	var b strings.Builder
	b.WriteString(r.title("Dashboard") + "\n\n")
	fmt.Fprintf(&b, "Courses      %d total · %d done · %d in progress · %d not started\n",
		s.TotalCourses, s.CompletedCourses, s.InProgressCourses, s.NotStartedCourses)
	fmt.Fprintf(&b, "Completion   %s\n", r.ProgressBar(int(s.CompletionRate)))
	fmt.Fprintf(&b, "Hours        %.1f completed of %.1f planned\n", s.TotalCompletedHours, s.TotalPlannedHours)
	fmt.Fprintf(&b, "Streak       %s", r.st.Warning.Render(r.Streak(s.CurrentStreak)))

	if len(s.RecentCourses) > 0 {
		b.WriteString("\n\n" + r.st.Muted.Render("Recently active") + "\n")
		for _, c := range s.RecentCourses {
			fmt.Fprintf(&b, "  %s %s\n", r.statusBadge(c.Status), c.Title)
		}
	}
	return r.st.Pane.Render(strings.TrimRight(b.String(), "\n"))
}

// Phases renders grouped courses. cursor highlights one course; pass uuid.Nil for
// none.
func (r *Renderer) Phases(groups []tracker.PhaseGroup, cursor uuid.UUID) string {
	if len(groups) == 0 {
		return r.st.Muted.Render("No courses match the current filter.")
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.title(fmt.Sprintf("Phase %d · %s", g.Phase, g.PhaseTitle)) + "\n")
		for _, c := range g.Courses {
			marker := "  "
			if c.ID == cursor && cursor != uuid.Nil {
				marker = r.st.Accent.Render("▸ ")
			}
			prio := ""
			if c.Priority == models.PriorityMust {
				prio = r.st.Warning.Render(" MUST")
			}
			fmt.Fprintf(&b, "%s%s %s%s\n", marker, r.statusBadge(c.Status), c.Title, prio)
			fmt.Fprintf(&b, "     %s  %s\n", r.ProgressBar(c.Progress),
				r.st.Muted.Render(fmt.Sprintf("%.1fh · %dm logged", c.DurationHours, c.TotalTimeSpent)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Calendar renders a month grid. A logged day is marked with *, a day with planned
// sessions with +, and today is highlighted.
func (r *Renderer) Calendar(g tracker.MonthGrid, today string) string {
	var b strings.Builder

	month := fmt.Sprintf("%04d-%02d", g.Year, g.Month+1)
	b.WriteString(r.title("Calendar "+month) + "\n")
	for _, d := range weekdayHeader {
		b.WriteString(r.st.Muted.Render(fmt.Sprintf("%-5s", d)))
	}
	b.WriteString("\n")

	for _, row := range g.Rows() {
		for _, cell := range row {
			if cell == nil {
				b.WriteString("     ")
				continue
			}
			mark := " "
			switch {
			case cell.Log != nil:
				mark = "*"
			case len(cell.Sessions) > 0:
				mark = "+"
			}
			text := fmt.Sprintf("%2d%s", cell.Day, mark)

			style := r.st.Text
			switch {
			case cell.Date == today:
				style = r.st.TabOn.Padding(0)
			case cell.Log != nil:
				style = r.st.Success
			case len(cell.Sessions) > 0:
				style = r.st.Accent
			}
			b.WriteString(style.Render(text) + "  ")
		}
		b.WriteString("\n")
	}
	b.WriteString(r.st.Muted.Render("* logged   + planned"))
	return b.String()
}

// RecentLogs renders the newest logs, as many as the theme shows.
func (r *Renderer) RecentLogs(logs []models.DailyLog) string {
	var b strings.Builder
	b.WriteString(r.title("Recent logs") + "\n")
	if len(logs) == 0 {
		b.WriteString(r.st.Muted.Render("Nothing logged yet."))
		return b.String()
	}

	n := r.theme.RecentLogs
	if n > len(logs) {
		n = len(logs)
	}
	for _, l := range logs[:n] {
		mood := ""
		if l.Mood != nil {
			mood = " · mood " + strings.Repeat("●", *l.Mood)
		}
		fmt.Fprintf(&b, "%s  %s%s\n", r.st.Accent.Render(l.Date),
			fmt.Sprintf("%dm across %d course(s)", l.TotalTimeSpent, len(l.Courses)), r.st.Muted.Render(mood))
		for _, e := range l.Courses {
			fmt.Fprintf(&b, "    %-32s %4dm\n", e.CourseTitle, e.TimeSpent)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) Planned(sessions []models.PlannedSession) string {
	var b strings.Builder
	b.WriteString(r.title("Planned sessions") + "\n")
	if len(sessions) == 0 {
		b.WriteString(r.st.Muted.Render("No sessions planned."))
		return b.String()
	}

	for _, s := range sessions {
		check := "[ ]"
		if s.IsCompleted {
			check = r.st.Success.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  %-32s %4dm", check, s.PlannedDate, s.CourseTitle, s.EstimatedTime)
		if s.Notes != "" {
			line += r.st.Muted.Render("  " + s.Notes)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Tabs renders a tab strip with active highlighted.
func (r *Renderer) Tabs(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if r.theme.UppercaseTitles {
			l = strings.ToUpper(l)
		}
		if i == active {
			parts[i] = r.st.TabOn.Render(l)
		} else {
			parts[i] = r.st.TabOff.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Notice renders a blocking message, such as a failed mutation.
func (r *Renderer) Notice(msg string) string {
	return r.st.Pane.BorderForeground(lipgloss.Color(r.theme.Colors.Warning)).Render(r.st.Warning.Render(msg))
}

func (r *Renderer) Muted(s string) string { return r.st.Muted.Render(s) }

func (r *Renderer) Frame(s string) string { return r.st.App.Render(s) }
