package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tui"
	"codejourney-backend/internal/view"
)

func newTUICmd(a *app) *cobra.Command {
	var (
		live    bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive tracker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}

			// The store logs fetch failures; keep them off the screen.
			if logFile != "" {
				f, err := tea.LogToFile(logFile, "trackctl")
				if err != nil {
					return err
				}
				defer f.Close()
			} else {
				log.SetOutput(io.Discard)
			}

			c := a.client()
			store := client.NewStore(c)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var updates chan models.TrackerUpdate
			if live {
				updates = make(chan models.TrackerUpdate, 16)
				go func() {
					defer close(updates)
					if err := c.Watch(ctx, func(u models.TrackerUpdate) {
						select {
						case updates <- u:
						case <-ctx.Done():
						}
					}); err != nil {
						log.Printf("live updates stopped: %v", err)
					}
				}()
			}

			return tui.Run(tui.New(store, r, updates, a.timeout))
		},
	}
	cmd.Flags().BoolVar(&live, "live", true, "refresh when the server pushes changes")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write client logs to this file")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			s, err := a.client().Summary(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Summary(s))
			return nil
		},
	}
}

func newActivityCmd(a *app) *cobra.Command {
	var heatmap bool

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show hours studied per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c := a.client()
			out := cmd.OutOrStdout()

			if heatmap {
				cells, err := c.Heatmap(ctx)
				if err != nil {
					return err
				}
				dates := make([]string, 0, len(cells))
				for d := range cells {
					dates = append(dates, d)
				}
				sort.Strings(dates)
				for _, d := range dates {
					_, _ = fmt.Fprintf(out, "%s  %5.2fh  %d course(s)\n", d, cells[d].Hours, cells[d].Courses)
				}
				return nil
			}

			points, err := c.Progress(ctx)
			if err != nil {
				return err
			}
			for _, p := range points {
				_, _ = fmt.Fprintf(out, "%s  %5.2fh  %s\n", p.Date, p.Hours, strings.Repeat("▪", int(p.Hours*2+0.5)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&heatmap, "heatmap", false, "print per-day heatmap cells instead")
	return cmd
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of logs and planned sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}

			now := a.now()
			year, mon := now.Year(), int(now.Month())
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("%w: month must be YYYY-MM", client.ErrValidation)
				}
				year, mon = t.Year(), int(t.Month())
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			grid, err := a.client().Calendar(ctx, year, mon)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Calendar(*grid, now.Format("2006-01-02")))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM, default current)")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed the course catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			res, err := a.client().InitDatabase(ctx, reset)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d courses)\n", res.Message, res.Courses)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "wipe courses, logs and sessions before seeding")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the admin password for a token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("TRACKER_PASSWORD")
			}
			if password == "" {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			tok, err := a.client().Login(ctx, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "export TRACKER_TOKEN=%s\n", tok.AccessToken)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "token valid for %s\n", time.Duration(tok.ExpiresIn)*time.Second)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "admin password (default $TRACKER_PASSWORD or prompt)")
	return cmd
}

func newThemesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in themes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range view.PresetNames() {
				t, err := view.Preset(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == a.theme && a.themeFile == "" {
					marker = "*"
				}
				r := view.NewRenderer(t)
				_, _ = fmt.Fprintf(out, "%s %-10s %s  %s\n", marker, name, r.ProgressBar(60), r.Streak(7))
			}
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print tracker changes as the server pushes them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return a.client().Watch(ctx, func(u models.TrackerUpdate) {
				line := fmt.Sprintf("%s  %s", a.now().Format("15:04:05"), u.Resource)
				if u.ID != uuid.Nil {
					line += "  " + u.ID.String()
				}
				_, _ = fmt.Fprintln(out, line)
			})
		},
	}
}
