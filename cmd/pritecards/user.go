package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
)

func newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage your profile and study settings",
	}
	userCmd.AddCommand(
		newUserRegisterCommand(),
		newUserShowCommand(),
		newUserSettingsCommand(),
		newUserStudyDataCommand(),
		newUserResetCommand(),
		newUserDeleteCommand(),
	)
	return userCmd
}

func newUserRegisterCommand() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				u, err := c.Users.Register(ctx, id, args[0], displayName)
				if err != nil {
					return fmt.Errorf("register: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", u.Username, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown to other users")
	return cmd
}

func newUserShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the acting user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				u, err := c.Users.Get(ctx, id)
				if err != nil {
					return fmt.Errorf("get user: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:                    %s\n", u.ID)
				fmt.Fprintf(out, "Username:              %s\n", u.Username)
				fmt.Fprintf(out, "Display name:          %s\n", u.DisplayName)
				fmt.Fprintf(out, "Questions per session: %d\n", u.Settings.QuestionsPerSession)
				fmt.Fprintf(out, "Show explanations:     %t\n", u.Settings.ShowExplanations)
				return nil
			})
		},
	}
}

func newUserSettingsCommand() *cobra.Command {
	var (
		questionsPerSession int
		showExplanations    bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change study settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				settings, err := c.Users.Settings(ctx, id)
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}
				if cmd.Flags().Changed("questions-per-session") {
					settings.QuestionsPerSession = questionsPerSession
				}
				if cmd.Flags().Changed("show-explanations") {
					settings.ShowExplanations = showExplanations
				}
				if err := c.Users.UpdateSettings(ctx, id, settings); err != nil {
					return fmt.Errorf("update settings: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Settings saved: %d question(s) per session, explanations shown: %t\n",
					settings.QuestionsPerSession, settings.ShowExplanations)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&questionsPerSession, "questions-per-session", 0, "number of questions in a study session")
	cmd.Flags().BoolVar(&showExplanations, "show-explanations", true, "show explanations after answering")
	return cmd
}

var errNotConfirmed = errors.New("pass --yes to confirm")

func newUserStudyDataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study-data",
		Short: "Print the acting user's mastery records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				records, err := c.Study.StudyData(ctx, id)
				if err != nil {
					return fmt.Errorf("study data: %w", err)
				}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(records)
			})
		},
	}
}

func newUserResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all of the acting user's study progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				n, err := c.Study.ResetProgress(ctx, id)
				if err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d record(s); everything is due again\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newUserDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the acting user and their study progress",
		Long:  "Delete the acting user and their study progress. Questions they created are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			id, err := currentUser()
			if err != nil {
				return err
			}
			return runWithComponents(cmd.Context(), func(ctx context.Context, c *bootstrap.Components) error {
				n, err := c.Users.Delete(ctx, id)
				if err != nil {
					return fmt.Errorf("delete user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s and %d mastery record(s)\n", id, n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
