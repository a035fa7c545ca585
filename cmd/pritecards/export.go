package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
	"github.com/prite-study/pritecards/internal/export"
)

func newExportCommand() *cobra.Command {
	var (
		flags  filterFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export questions to a study sheet (markdown, pdf) or a bulk file (yaml, json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				paths, err := c.Exporter.Export(ctx, user, filter, args[0], f)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
				}
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", string(export.FormatMarkdown), "output format: markdown, pdf, yaml or json")
	return cmd
}
