package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
)

var errNoAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

func newExplainCommand() *cobra.Command {
	var missing bool
	cmd := &cobra.Command{
		Use:   "explain [question id]",
		Short: "Generate explanations with the configured language model",
		Args: func(cmd *cobra.Command, args []string) error {
			if missing {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				if c.Explanations == nil {
					return errNoAPIKey
				}
				out := cmd.OutOrStdout()
				if missing {
					summary, err := c.Explanations.GenerateMissing(ctx, user)
					if err != nil {
						return fmt.Errorf("generate explanations: %w", err)
					}
					fmt.Fprintf(out, "Generated %d, skipped %d, failed %d\n", summary.Generated, summary.Skipped, summary.Failed)
					return nil
				}

				text, err := c.Explanations.Generate(ctx, user, args[0])
				if err != nil {
					return fmt.Errorf("generate explanation: %w", err)
				}
				fmt.Fprintln(out, text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&missing, "missing", false, "explain every question of yours that has no generated explanation")
	return cmd
}
