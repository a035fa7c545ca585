package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
	"github.com/prite-study/pritecards/internal/importer"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date (%s)\n", c.Config.Database.Driver)
				return nil
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import questions from YAML or JSON files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				for _, path := range args {
					drafts, err := importer.ReadFile(path, time.Now())
					if err != nil {
						return fmt.Errorf("importer.ReadFile() > %w", err)
					}
					if public {
						for i := range drafts {
							drafts[i].IsPublic = true
						}
					}
					created, err := c.Questions.BatchCreate(ctx, user, drafts)
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d question(s) from %s\n", len(created), path)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "make the imported questions public")
	return cmd
}

func newQuestionsCommand() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questions you can read",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				questions, err := c.Questions.Search(ctx, user, filter)
				if err != nil {
					return fmt.Errorf("search questions: %w", err)
				}
				out := cmd.OutOrStdout()
				for _, q := range questions {
					fmt.Fprintf(out, "%s  %-15s part %s  %-20s %s\n", q.ID, q.Kind(), q.Part, truncate(q.Category, 20), truncate(q.Text, 60))
				}
				fmt.Fprintf(out, "%d question(s)\n", len(questions))
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
