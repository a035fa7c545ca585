package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
	"github.com/prite-study/pritecards/internal/cli"
)

func newDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List the questions due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				questions, err := c.Study.DueQuestions(ctx, user)
				if err != nil {
					return fmt.Errorf("due questions: %w", err)
				}
				out := cmd.OutOrStdout()
				for _, q := range questions {
					fmt.Fprintf(out, "%s  %s\n", q.ID, truncate(q.Text, 70))
				}
				fmt.Fprintf(out, "%d question(s) due\n", len(questions))
				return nil
			})
		},
	}
}

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review due questions interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				session, err := c.Study.StartSession(ctx, user)
				if err != nil {
					return fmt.Errorf("start session: %w", err)
				}
				if session.Done() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due. Come back later!")
					return nil
				}
				settings, err := c.Users.Settings(ctx, user)
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}

				reviewCLI := cli.NewReviewCLI(user, session, c.Questions, c.Study, settings.ShowExplanations, os.Stdin, cmd.OutOrStdout())
				return reviewCLI.Run(ctx, reviewCLI)
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your review statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				stats, err := c.Questions.Stats(ctx, user)
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Questions:    %d\n", stats.Total)
				fmt.Fprintf(out, "Due now:      %d\n", stats.Due)
				fmt.Fprintf(out, "Learned:      %d\n", stats.Learned)
				fmt.Fprintf(out, "Average ease: %.2f\n", stats.AverageEase)
				return nil
			})
		},
	}
}
