package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/testutil"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	loader, err := config.NewConfigLoader(testutil.SetupTestConfig(t, t.TempDir()))
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuild(t *testing.T) {
	t.Run("without an API key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg := loadTestConfig(t)
		app := New()

		c, err := Build(context.Background(), app, cfg)
		require.NoError(t, err)
		assert.Nil(t, c.Explanations)

		settings, err := c.Users.Settings(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, 5, settings.QuestionsPerSession)

		ids, err := c.Study.DueIDs(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, ids)

		require.NoError(t, app.shutdown(context.Background()))
		assert.Error(t, c.DB.Ping())
	})

	t.Run("with an API key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg := loadTestConfig(t)
		app := New()

		c, err := Build(context.Background(), app, cfg)
		require.NoError(t, err)
		assert.NotNil(t, c.Explanations)
		require.NoError(t, app.shutdown(context.Background()))
	})

	t.Run("unopenable database", func(t *testing.T) {
		cfg := loadTestConfig(t)
		cfg.Database.Driver = "oracle"

		_, err := Build(context.Background(), New(), cfg)
		assert.Error(t, err)
	})
}
