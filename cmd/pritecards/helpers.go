package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/prite-study/pritecards/internal/bootstrap"
	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/question"
)

var errNoUser = errors.New("--user or $" + userEnv + " is required")

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// runWithComponents builds the services from the configuration, calls fn and
// releases everything afterwards.
func runWithComponents(ctx context.Context, fn func(ctx context.Context, c *bootstrap.Components) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app := bootstrap.New()
	return app.Run(ctx, func(ctx context.Context) error {
		c, err := bootstrap.Build(ctx, app, cfg)
		if err != nil {
			return err
		}
		return fn(ctx, c)
	})
}

func currentUser() (string, error) {
	id := strings.TrimSpace(userID)
	if id == "" {
		return "", errNoUser
	}
	return id, nil
}

type VisibilityFlag string

// Set implements pflag.Value.
func (v *VisibilityFlag) Set(s string) error {
	visibility, err := question.ParseVisibility(s)
	if err != nil {
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", s, question.VisibilityAll, question.VisibilityMine, question.VisibilityPublic)
	}
	*v = VisibilityFlag(visibility)
	return nil
}

// String implements pflag.Value.
func (v *VisibilityFlag) String() string {
	if v == nil {
		return ""
	}
	return string(*v)
}

// Type implements pflag.Value.
func (v *VisibilityFlag) Type() string {
	return "VisibilityFlag"
}

var _ pflag.Value = (*VisibilityFlag)(nil)

// filterFlags are the search flags shared by listing and export commands.
type filterFlags struct {
	text       string
	part       string
	category   string
	kind       string
	visibility VisibilityFlag
	limit      int
}

func (f *filterFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.text, "text", "", "match text in the question, its options or explanation")
	flags.StringVar(&f.part, "part", "", "exam part (1 or 2)")
	flags.StringVar(&f.category, "category", "", "question category")
	flags.StringVar(&f.kind, "kind", "", "question kind: standard, fourOptions or multipleCorrect")
	flags.Var(&f.visibility, "visibility", "Visibility of questions. Options: all, mine, public")
	flags.IntVar(&f.limit, "limit", 0, "maximum number of questions, 0 for no limit")
}

func (f filterFlags) filter() (question.SearchFilter, error) {
	filter := question.SearchFilter{
		Visibility: question.Visibility(f.visibility),
		Text:       f.text,
		Part:       f.part,
		Category:   f.category,
		Limit:      f.limit,
	}
	if f.kind != "" {
		kind, err := question.ParseKind(f.kind)
		if err != nil {
			return question.SearchFilter{}, err
		}
		filter.Kind = kind
	}
	return filter, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
