package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

func newLogsCmd(a *app) *cobra.Command {
	var q models.LogQuery

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent daily logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			logs, err := a.client().ListLogs(ctx, q)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.RecentLogs(logs))
			return nil
		},
	}
	cmd.Flags().StringVar(&q.StartDate, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.EndDate, "to", "", "last date (YYYY-MM-DD)")
	return cmd
}

// parseEntry reads "<course>=<minutes>" or "<course>=<minutes>:<notes>".
func parseEntry(courses []models.Course, raw string) (models.CourseActivity, error) {
	ref, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return models.CourseActivity{}, fmt.Errorf("%w: entry %q must look like course=minutes", client.ErrValidation, raw)
	}
	minutes, notes, _ := strings.Cut(rest, ":")
	n, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil {
		return models.CourseActivity{}, fmt.Errorf("%w: entry %q has no minutes", client.ErrValidation, raw)
	}
	c, err := resolveCourse(courses, ref)
	if err != nil {
		return models.CourseActivity{}, err
	}
	return models.CourseActivity{
		CourseID:      c.ID,
		CourseTitle:   c.Title,
		TimeSpent:     n,
		ProgressNotes: strings.TrimSpace(notes),
	}, nil
}

func newLogCmd(a *app) *cobra.Command {
	var (
		date    string
		entries []string
		notes   string
		mood    int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record (or replace) the log for a day",
		Example: `  trackctl log --entry "go basics=45:finished chapter 3" --entry docker=30 --mood 4
  trackctl log --date 2026-03-09 --entry "Go Basics=20"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c := a.client()

			courses, err := c.ListCourses(ctx, tracker.Filter{})
			if err != nil {
				return err
			}

			draft := models.CreateDailyLogRequest{Date: date, Notes: notes}
			if draft.Date == "" {
				draft.Date = tracker.FormatDate(a.now())
			}
			if cmd.Flags().Changed("mood") {
				draft.Mood = &mood
			}
			for _, raw := range entries {
				e, err := parseEntry(courses, raw)
				if err != nil {
					return err
				}
				draft.Courses = append(draft.Courses, e)
			}

			l, err := client.NewStore(c).LogDay(ctx, draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %dm across %d course(s) on %s\n", l.TotalTimeSpent, len(l.Courses), l.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD, default today)")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "course=minutes[:notes], repeatable")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the day")
	cmd.Flags().IntVar(&mood, "mood", 0, "mood from 1 to 5")
	return cmd
}

func newUnlogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlog <date>",
		Short: "Delete the log for a day and take its time back off the courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := tracker.ParseDate(args[0]); err != nil {
				return fmt.Errorf("%w: %w", client.ErrValidation, tracker.ErrInvalidDate)
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c := a.client()

			l, err := c.GetLog(ctx, args[0])
			if err != nil {
				return err
			}
			if l == nil || l.ID == uuid.Nil {
				return fmt.Errorf("nothing logged on %s", args[0])
			}
			if err := c.DeleteLog(ctx, l.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted log for %s\n", l.Date)
			return nil
		},
	}
}
