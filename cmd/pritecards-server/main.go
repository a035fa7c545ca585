package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prite-study/pritecards/internal/bootstrap"
	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/server"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "pritecards-server",
		Short:         "PRITE flashcards HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", os.Getenv("PRITECARDS_CONFIG"), "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	return rootCmd
}

func run(ctx context.Context, cfg *config.Config) error {
	app := bootstrap.New()

	return app.Run(ctx, func(ctx context.Context) error {
		c, err := bootstrap.Build(ctx, app, cfg)
		if err != nil {
			return err
		}
		if c.Explanations == nil {
			slog.Warn("OPENAI_API_KEY is not set, explanation endpoints will return 503")
		}

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: server.New(cfg.Server, server.Services{
				Questions:    c.Questions,
				Study:        c.Study,
				Users:        c.Users,
				Explanations: c.Explanations,
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		app.OnShutdown("http server", srv.Shutdown)

		slog.Info("starting server", "addr", srv.Addr, "database", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	})))
}
