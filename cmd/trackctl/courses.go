package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codejourney-backend/internal/client"
	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

func newCoursesCmd(a *app) *cobra.Command {
	var phase, status, priority string

	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"phases"},
		Short:   "List courses grouped by phase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tracker.ParseFilter(phase, status, priority)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			courses, err := a.client().ListCourses(ctx, f)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Phases(tracker.GroupFiltered(courses, f), uuid.Nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", tracker.All, "phase number or all")
	cmd.Flags().StringVar(&status, "status", tracker.All, `"Not Started", "In Progress", "Completed" or all`)
	cmd.Flags().StringVar(&priority, "priority", tracker.All, "MUST, Optional or all")
	return cmd
}

// changeProgress looks the course up, lets plan build the update and sends it.
func (a *app) changeProgress(ctx context.Context, ref string, force bool, plan func(models.Course) (tracker.ProgressUpdate, error)) (*models.Course, error) {
	c := a.client()
	courses, err := c.ListCourses(ctx, tracker.Filter{})
	if err != nil {
		return nil, err
	}
	course, err := resolveCourse(courses, ref)
	if err != nil {
		return nil, err
	}
	u, err := plan(course)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", client.ErrValidation, err)
	}
	return c.UpdateProgress(ctx, course.ID, u, force)
}

func printCourse(cmd *cobra.Command, c *models.Course) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d%%)\n", c.Title, c.Status, c.Progress)
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <course>",
		Short: "Start a course that has not been started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c, err := a.changeProgress(ctx, args[0], false, tracker.Start)
			if err != nil {
				return err
			}
			printCourse(cmd, c)
			return nil
		},
	}
}

func newCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <course>",
		Short: "Mark a course completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c, err := a.changeProgress(ctx, args[0], false, func(c models.Course) (tracker.ProgressUpdate, error) {
				return tracker.Complete(c), nil
			})
			if err != nil {
				return err
			}
			printCourse(cmd, c)
			return nil
		},
	}
}

func newProgressCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "progress <course> <percent>",
		Short: "Set a course's progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: progress must be a whole number", client.ErrValidation)
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			c, err := a.changeProgress(ctx, args[0], force, func(c models.Course) (tracker.ProgressUpdate, error) {
				return tracker.SetProgress(c, p, force)
			})
			if errors.Is(err, tracker.ErrUncompleteNeedsConfirm) || client.IsConflict(err) {
				return fmt.Errorf("%w (rerun with --force to reopen the course)", err)
			}
			if err != nil {
				return err
			}
			printCourse(cmd, c)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "allow lowering the progress of a completed course")
	return cmd
}
