package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/database"
	"github.com/prite-study/pritecards/internal/explanation"
	"github.com/prite-study/pritecards/internal/export"
	"github.com/prite-study/pritecards/internal/inference/openai"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/study"
	"github.com/prite-study/pritecards/internal/user"
)

// Components are the services built from one configuration.
type Components struct {
	Config    *config.Config
	DB        *sqlx.DB
	Questions *question.Service
	Users     *user.Service
	Study     *study.Service
	Exporter  *export.Exporter
	// Explanations is nil when no OpenAI API key is configured.
	Explanations *explanation.Service
}

// Build opens and migrates the database and wires the services. Resources
// are registered with app for shutdown.
func Build(ctx context.Context, app *App, cfg *config.Config) (*Components, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	app.Close("database", db)

	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}

	questionRepo := question.NewDBRepository(db)
	users := user.NewService(user.NewDBRepository(db), user.Settings{
		QuestionsPerSession: cfg.Study.QuestionsPerSession,
		ShowExplanations:    true,
	})
	questions := question.NewService(questionRepo)

	c := &Components{
		Config:    cfg,
		DB:        db,
		Questions: questions,
		Users:     users,
		Study:     study.NewService(questionRepo, users),
		Exporter:  export.NewExporter(questions, cfg.Export.OutputDirectory, cfg.Export.MarkdownTemplate),
	}

	if cfg.OpenAI.APIKey == "" {
		slog.Debug("OPENAI_API_KEY is not set, explanations are disabled")
		return c, nil
	}
	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.MaxRetryAttempts)
	app.Close("openai", client)

	limits := cfg.Server.Explanation
	c.Explanations = explanation.NewService(
		questionRepo,
		client,
		explanation.NewUserLimiter(limits.RequestsPerWindow, time.Duration(limits.WindowMinutes)*time.Minute),
		limits.Concurrency,
	)
	return c, nil
}
