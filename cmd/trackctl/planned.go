package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

func newPlannedCmd(a *app) *cobra.Command {
	var from, to, course string

	cmd := &cobra.Command{
		Use:   "planned",
		Short: "List planned study sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c := a.client()

			q := models.PlannedQuery{StartDate: from, EndDate: to}
			if course != "" {
				courses, err := c.ListCourses(ctx, tracker.Filter{})
				if err != nil {
					return err
				}
				found, err := resolveCourse(courses, course)
				if err != nil {
					return err
				}
				q.CourseID = &found.ID
			}

			sessions, err := c.ListPlanned(ctx, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, r.Planned(sessions))
			for _, s := range sessions {
				_, _ = fmt.Fprintf(out, "%s  %s\n", r.Muted(s.ID.String()), s.CourseTitle)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&course, "course", "", "only sessions for this course")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		minutes int
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "plan <course> <date>",
		Short: "Plan a study session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c := a.client()
			courses, err := c.ListCourses(ctx, tracker.Filter{})
			if err != nil {
				return err
			}
			course, err := resolveCourse(courses, args[0])
			if err != nil {
				return err
			}

			s, err := client.NewStore(c).PlanSession(ctx, models.CreatePlannedSessionRequest{
				CourseID:      course.ID,
				PlannedDate:   args[1],
				EstimatedTime: minutes,
				Notes:         notes,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "planned %s on %s (%s)\n", s.CourseTitle, s.PlannedDate, s.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 60, "estimated minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "session notes")
	return cmd
}

func sessionArg(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a session id", client.ErrValidation, arg)
	}
	return id, nil
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <session-id>",
		Short: "Mark a planned session completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionArg(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			done := true
			s, err := a.client().UpdatePlanned(ctx, id, models.UpdatePlannedSessionRequest{IsCompleted: &done})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed %s session on %s\n", s.CourseTitle, s.PlannedDate)
			return nil
		},
	}
}

func newUnplanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unplan <session-id>",
		Short: "Delete a planned session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionArg(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.client().DeletePlanned(ctx, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deleted session", id)
			return nil
		},
	}
}
