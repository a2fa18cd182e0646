// Package tui is the interactive terminal front end of the tracker. It reads from a
// client.Store and never talks to the server directly.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
	"codejourney-backend/internal/view"
)

type store interface {
	Snapshot() client.Snapshot
	Refresh(ctx context.Context)
	Apply(ctx context.Context, u models.TrackerUpdate)
	Phases(f tracker.Filter) []tracker.PhaseGroup
	Month(year, month0 int) (tracker.MonthGrid, error)
	StartCourse(ctx context.Context, id uuid.UUID) error
	CompleteCourse(ctx context.Context, id uuid.UUID) error
	SetProgress(ctx context.Context, id uuid.UUID, progress int, confirmed bool) error
	CompleteSession(ctx context.Context, id uuid.UUID) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type tabID int

const (
	tabDashboard tabID = iota
	tabCourses
	tabCalendar
	tabLogs
	tabPlanned
	tabCount
)

var tabLabels = []string{"Dashboard", "Courses", "Calendar", "Logs", "Planned"}

var (
	statusCycle   = []models.CourseStatus{"", models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted}
	priorityCycle = []models.Priority{"", models.PriorityMust, models.PriorityOptional}
)

const progressStep = 10

type refreshedMsg struct{}

type mutatedMsg struct {
	done string
	err  error
}

type updateMsg struct{ u models.TrackerUpdate }

// pendingProgress is a progress change waiting for the user to confirm that a
// completed course should be reopened.
type pendingProgress struct {
	id       uuid.UUID
	progress int
}

type Model struct {
	store   store
	r       *view.Renderer
	updates <-chan models.TrackerUpdate
	timeout time.Duration
	now     func() time.Time

	tab     tabID
	filter  tracker.Filter
	cursor  int // index into the flattened, filtered course list
	session int // index into planned sessions
	year    int
	month0  int
	asked   *pendingProgress // last progress change sent without confirmation
	confirm *pendingProgress
	loading bool
	status  string
}

// New builds the model. updates may be nil when live updates are off.
func New(s store, r *view.Renderer, updates <-chan models.TrackerUpdate, timeout time.Duration) Model {
	now := time.Now()
	return Model{
		store:   s,
		r:       r,
		updates: updates,
		timeout: timeout,
		now:     time.Now,
		year:    now.Year(),
		month0:  int(now.Month()) - 1,
		loading: true,
		status:  "loading…",
	}
}

func (m Model) Init() tea.Cmd {
	if m.updates == nil {
		return m.refreshCmd()
	}
	return tea.Batch(m.refreshCmd(), m.waitForUpdate())
}

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		m.store.Refresh(ctx)
		return refreshedMsg{}
	}
}

func (m Model) waitForUpdate() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return updateMsg{u: u}
	}
}

func (m Model) applyCmd(u models.TrackerUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		m.store.Apply(ctx, u)
		return refreshedMsg{}
	}
}

func (m Model) mutate(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return mutatedMsg{done: done, err: fn(ctx)}
	}
}

// visibleCourses is the Courses tab list in display order.
func (m Model) visibleCourses() []models.Course {
	var out []models.Course
	for _, g := range m.store.Phases(m.filter) {
		out = append(out, g.Courses...)
	}
	return out
}

func (m Model) selectedCourse() (models.Course, bool) {
	courses := m.visibleCourses()
	if m.cursor < 0 || m.cursor >= len(courses) {
		return models.Course{}, false
	}
	return courses[m.cursor], true
}

func (m Model) selectedSession() (models.PlannedSession, bool) {
	planned := m.store.Snapshot().Planned
	if m.session < 0 || m.session >= len(planned) {
		return models.PlannedSession{}, false
	}
	return planned[m.session], true
}

func (m Model) maxPhase() int {
	max := 0
	for _, c := range m.store.Snapshot().Courses {
		if c.Phase > max {
			max = c.Phase
		}
	}
	return max
}

func (m *Model) clampCursors() {
	if n := len(m.visibleCourses()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n := len(m.store.Snapshot().Planned); m.session >= n {
		m.session = n - 1
	}
	if m.session < 0 {
		m.session = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.loading = false
		if m.status == "loading…" {
			m.status = "ready"
		}
		m.clampCursors()

	case updateMsg:
		return m, tea.Batch(m.applyCmd(msg.u), m.waitForUpdate())

	case mutatedMsg:
		m.confirm = nil
		switch {
		case msg.err == nil:
			m.status = msg.done
		case errors.Is(msg.err, tracker.ErrUncompleteNeedsConfirm) && m.asked != nil:
			m.confirm = m.asked
			m.status = "course is completed: press y to lower its progress, any other key to cancel"
		default:
			m.status = "error: " + msg.err.Error()
		}
		m.asked = nil
		m.clampCursors()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirm != nil {
		p := *m.confirm
		m.confirm = nil
		if key == "y" {
			m.status = "saving…"
			return m, m.mutate(fmt.Sprintf("progress set to %d%%", p.progress), func(ctx context.Context) error {
				return m.store.SetProgress(ctx, p.id, p.progress, true)
			})
		}
		m.status = "cancelled"
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case "r":
		m.status = "refreshing…"
		return m, m.refreshCmd()
	}

	switch m.tab {
	case tabCourses:
		return m.coursesKey(key)
	case tabCalendar:
		return m.calendarKey(key)
	case tabPlanned:
		return m.plannedKey(key)
	}
	return m, nil
}

func (m Model) coursesKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleCourses())-1 {
			m.cursor++
		}
	case "f":
		m.filter.Phase = (m.filter.Phase + 1) % (m.maxPhase() + 1)
		m.cursor = 0
	case "t":
		m.filter.Status = nextStatus(m.filter.Status)
		m.cursor = 0
	case "p":
		m.filter.Priority = nextPriority(m.filter.Priority)
		m.cursor = 0
	case "0":
		m.filter = tracker.Filter{}
		m.cursor = 0
	case "s":
		c, ok := m.selectedCourse()
		if !ok {
			return m, nil
		}
		return m, m.mutate("started "+c.Title, func(ctx context.Context) error {
			return m.store.StartCourse(ctx, c.ID)
		})
	case "c":
		c, ok := m.selectedCourse()
		if !ok {
			return m, nil
		}
		return m, m.mutate("completed "+c.Title, func(ctx context.Context) error {
			return m.store.CompleteCourse(ctx, c.ID)
		})
	case "+", "-":
		c, ok := m.selectedCourse()
		if !ok {
			return m, nil
		}
		p := c.Progress + progressStep
		if key == "-" {
			p = c.Progress - progressStep
		}
		p = min(max(p, 0), 100)
		m.asked = &pendingProgress{id: c.ID, progress: p}
		return m, m.mutate(fmt.Sprintf("progress set to %d%%", p), func(ctx context.Context) error {
			return m.store.SetProgress(ctx, c.ID, p, false)
		})
	}
	return m, nil
}

func (m Model) calendarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		m.month0--
		if m.month0 < 0 {
			m.month0 = 11
			m.year--
		}
	case "right", "l":
		m.month0++
		if m.month0 > 11 {
			m.month0 = 0
			m.year++
		}
	case "t":
		now := m.now()
		m.year, m.month0 = now.Year(), int(now.Month())-1
	}
	return m, nil
}

func (m Model) plannedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.session > 0 {
			m.session--
		}
	case "down", "j":
		if m.session < len(m.store.Snapshot().Planned)-1 {
			m.session++
		}
	case "x":
		s, ok := m.selectedSession()
		if !ok || s.IsCompleted {
			return m, nil
		}
		return m, m.mutate("session done", func(ctx context.Context) error {
			return m.store.CompleteSession(ctx, s.ID)
		})
	case "d":
		s, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		return m, m.mutate("session removed", func(ctx context.Context) error {
			return m.store.DeleteSession(ctx, s.ID)
		})
	}
	return m, nil
}

func nextStatus(s models.CourseStatus) models.CourseStatus {
	for i, v := range statusCycle {
		if v == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

func nextPriority(p models.Priority) models.Priority {
	for i, v := range priorityCycle {
		if v == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return ""
}

func (m Model) View() string {
	var body string
	snap := m.store.Snapshot()

	switch {
	case m.loading:
		body = m.r.Muted("loading…")
	case m.tab == tabDashboard:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.r.Summary(snap.Summary), "", m.r.RecentLogs(snap.Logs))
	case m.tab == tabCourses:
		var selected uuid.UUID
		if c, ok := m.selectedCourse(); ok {
			selected = c.ID
		}
		body = m.r.Muted(describeFilter(m.filter)) + "\n\n" + m.r.Phases(m.store.Phases(m.filter), selected)
	case m.tab == tabCalendar:
		grid, err := m.store.Month(m.year, m.month0)
		if err != nil {
			body = m.r.Notice(err.Error())
		} else {
			body = m.r.Calendar(grid, tracker.FormatDate(m.now()))
		}
	case m.tab == tabLogs:
		body = m.r.RecentLogs(snap.Logs)
	case m.tab == tabPlanned:
		body = m.plannedView(snap.Planned)
	}

	status := m.status
	if m.confirm != nil {
		status = m.r.Notice(status)
	} else {
		status = m.r.Muted(status)
	}

	return m.r.Frame(lipgloss.JoinVertical(lipgloss.Left,
		m.r.Tabs(tabLabels, int(m.tab)),
		"",
		body,
		"",
		status,
		m.r.Muted(helpLine(m.tab)),
	))
}

func (m Model) plannedView(planned []models.PlannedSession) string {
	out := m.r.Planned(planned)
	if len(planned) == 0 {
		return out
	}
	lines := strings.Split(out, "\n")
	// The first line is the title.
	if i := m.session + 1; i < len(lines) {
		lines[i] = "▸ " + lines[i]
	}
	return strings.Join(lines, "\n")
}

func describeFilter(f tracker.Filter) string {
	phase := "all"
	if f.Phase != 0 {
		phase = fmt.Sprint(f.Phase)
	}
	status := string(f.Status)
	if status == "" {
		status = "all"
	}
	priority := string(f.Priority)
	if priority == "" {
		priority = "all"
	}
	return fmt.Sprintf("phase: %s  status: %s  priority: %s", phase, status, priority)
}

func helpLine(t tabID) string {
	common := "tab switch · r refresh · q quit"
	switch t {
	case tabCourses:
		return "j/k move · s start · c complete · +/- progress · f phase · t status · p priority · 0 clear · " + common
	case tabCalendar:
		return "h/l month · t today · " + common
	case tabPlanned:
		return "j/k move · x done · d delete · " + common
	}
	return common
}

// Run starts the full-screen program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
