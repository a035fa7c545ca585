package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prite-study/pritecards/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{name: "debug mode enabled", debugMode: true, wantDebug: true},
		{name: "debug mode disabled", debugMode: false, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "pritecards", cmd.Use)
	for _, name := range []string{"migrate", "import", "questions", "due", "review", "stats", "explain", "export", "user"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"config", "debug", "user"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configFile = ""
		userID = ""
	})

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const questionBank = `questions:
  - text: Which antipsychotic requires ANC monitoring?
    options:
      A: Clozapine
      B: Haloperidol
      C: Risperidone
      D: Quetiapine
      E: Ziprasidone
    correctAnswer: A
    category: Psychopharmacology
    explanation: Agranulocytosis risk.
  - text: Select two SSRIs
    options: {A: Fluoxetine, B: Bupropion, C: Sertraline, D: Mirtazapine, E: Trazodone}
    correctAnswers: [A, C]
    category: Psychopharmacology
`

func TestCommands_EndToEnd(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	bank := filepath.Join(tmpDir, "bank.yaml")
	require.NoError(t, os.WriteFile(bank, []byte(questionBank), 0644))

	out, err := execute(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Database schema is up to date (sqlite)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "import", "--public", bank)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 question(s)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "questions", "--kind", "multipleCorrect")
	require.NoError(t, err)
	assert.Contains(t, out, "Select two SSRIs")
	assert.Contains(t, out, "1 question(s)")

	out, err = execute(t, "--config", cfgPath, "--user", "bob", "questions", "--visibility", "public")
	require.NoError(t, err)
	assert.Contains(t, out, "2 question(s)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "due")
	require.NoError(t, err)
	assert.Contains(t, out, "2 question(s) due")

	out, err = execute(t, "--config", cfgPath, "--user", "bob", "due")
	require.NoError(t, err)
	assert.Contains(t, out, "0 question(s) due")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions:    2")
	assert.Contains(t, out, "Average ease: 2.50")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "export", "--format", "yaml", "ssri")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(tmpDir, "export", "ssri.yaml"))

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "register", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice (alice)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "settings", "--questions-per-session", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "7 question(s) per session, explanations shown: true")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions per session: 7")

	_, err = execute(t, "--config", cfgPath, "--user", "alice", "explain", "--missing")
	assert.ErrorIs(t, err, errNoAPIKey)

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "study-data")
	require.NoError(t, err)
	assert.Contains(t, out, `"questionText": "Which antipsychotic requires ANC monitoring?"`)

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset 2 record(s)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "user", "delete", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted alice and 2 mastery record(s)")

	out, err = execute(t, "--config", cfgPath, "--user", "alice", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions:    0")

	out, err = execute(t, "--config", cfgPath, "--user", "bob", "questions", "--visibility", "public")
	require.NoError(t, err)
	assert.Contains(t, out, "2 question(s)")
}

func TestCommands_Errors(t *testing.T) {
	brokenCfg := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(brokenCfg, []byte("{{invalid yaml content"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no user", args: []string{"due"}, wantErr: errNoUser.Error()},
		{name: "broken config", args: []string{"--config", brokenCfg, "--user", "alice", "due"}, wantErr: "load config"},
		{name: "bad visibility", args: []string{"--user", "alice", "questions", "--visibility", "friends"}, wantErr: "invalid value"},
		{name: "bad export format", args: []string{"--user", "alice", "export", "--format", "docx", "x"}, wantErr: "unknown export format"},
		{name: "explain needs an id", args: []string{"--user", "alice", "explain"}, wantErr: "accepts 1 arg"},
		{name: "reset needs confirmation", args: []string{"--user", "alice", "user", "reset"}, wantErr: errNotConfirmed.Error()},
		{name: "delete needs confirmation", args: []string{"--user", "alice", "user", "delete"}, wantErr: errNotConfirmed.Error()},
		{name: "import needs a file", args: []string{"--user", "alice", "import"}, wantErr: "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(userEnv, "")
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
