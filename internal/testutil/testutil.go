// Package testutil provides shared test helpers for config files and
// migrated test databases.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/database"
)

// SetupTestConfig writes a config file that points the sqlite database and
// export output into tmpDir. Returns the path to the config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	outputDir := filepath.Join(tmpDir, "export")
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
study:
  questions_per_session: 5
export:
  output_directory: %s
openai:
  base_url: http://127.0.0.1:1/v1
`, filepath.Join(tmpDir, "pritecards.db"), outputDir)

	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// NewTestDB opens an in-memory sqlite database with the schema applied.
// It is closed when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
