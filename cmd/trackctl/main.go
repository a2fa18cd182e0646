package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/config"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/view"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the persistent flags every subcommand reads.
type app struct {
	apiURL    string
	theme     string
	themeFile string
	token     string
	timeout   time.Duration
	now       func() time.Time
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadClient()
	a := &app{timeout: cfg.Timeout, now: time.Now}

	root := &cobra.Command{
		Use:           "trackctl",
		Short:         "CodeJourney learning tracker client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.APIURL, "tracker API base URL")
	root.PersistentFlags().StringVar(&a.theme, "theme", cfg.Theme, "theme preset: "+strings.Join(view.PresetNames(), "|"))
	root.PersistentFlags().StringVar(&a.themeFile, "theme-file", cfg.ThemeFile, "YAML theme file (overrides --theme)")
	root.PersistentFlags().StringVar(&a.token, "token", cfg.Token, "bearer token for write operations")

	root.AddCommand(newTUICmd(a))
	root.AddCommand(newSummaryCmd(a))
	root.AddCommand(newActivityCmd(a))
	root.AddCommand(newCoursesCmd(a))
	root.AddCommand(newStartCmd(a), newCompleteCmd(a), newProgressCmd(a))
	root.AddCommand(newCalendarCmd(a))
	root.AddCommand(newLogsCmd(a), newLogCmd(a), newUnlogCmd(a))
	root.AddCommand(newPlannedCmd(a), newPlanCmd(a), newDoneCmd(a), newUnplanCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newThemesCmd(a))
	root.AddCommand(newWatchCmd(a))
	return root
}

func (a *app) client() *client.Client {
	return client.New(strings.TrimRight(a.apiURL, "/"), a.token, a.timeout)
}

func (a *app) renderer() (*view.Renderer, error) {
	t, err := view.Resolve(a.theme, a.themeFile)
	if err != nil {
		return nil, err
	}
	return view.NewRenderer(t), nil
}

func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// resolveCourse accepts a course id or a case-insensitive piece of its title. A
// title must match exactly one course.
func resolveCourse(courses []models.Course, ref string) (models.Course, error) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, c := range courses {
			if c.ID == id {
				return c, nil
			}
		}
		return models.Course{}, fmt.Errorf("no course with id %s", id)
	}

	needle := strings.ToLower(strings.TrimSpace(ref))
	var matches []models.Course
	for _, c := range courses {
		title := strings.ToLower(c.Title)
		if title == needle {
			return c, nil
		}
		if strings.Contains(title, needle) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return models.Course{}, fmt.Errorf("no course matches %q", ref)
	case 1:
		return matches[0], nil
	}
	titles := make([]string, len(matches))
	for i, c := range matches {
		titles[i] = c.Title
	}
	return models.Course{}, fmt.Errorf("%q matches %d courses: %s", ref, len(matches), strings.Join(titles, ", "))
}
