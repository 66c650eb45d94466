package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/report"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SATPREP_DB", "")
	return []string{
		"--db", filepath.Join(dir, "satprep.db"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--learner", "tester",
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "satprep")
}

func TestStatsWithoutHistory(t *testing.T) {
	flags := testDB(t)
	out, err := runCLI(t, append([]string{"stats"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, report.NoStats)

	out, err = runCLI(t, append([]string{"weak"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, report.NoRanking)
}

func TestSessionCommands(t *testing.T) {
	flags := testDB(t)

	out, err := runCLI(t, append([]string{"session", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No open session.")

	out, err = runCLI(t, append([]string{"session", "start"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Session started.")

	out, err = runCLI(t, append([]string{"session", "start"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "already open")

	_, err = runCLI(t, append([]string{"session", "end"}, flags...)...)
	require.NoError(t, err)

	out, err = runCLI(t, append([]string{"session", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No open session.")
}

func TestPickRejectsUnknownSection(t *testing.T) {
	flags := testDB(t)
	_, err := runCLI(t, append([]string{"pick", "science"}, flags...)...)
	assert.Error(t, err)
}

func TestAnswerUpdatesStats(t *testing.T) {
	flags := testDB(t)

	// The seed catalog is loaded on first use; question 1 exists.
	out, err := runCLI(t, append([]string{"answer", "1", "A", "--time", "20s"}, flags...)...)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = runCLI(t, append([]string{"stats"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "answered 1")
	out, err = runCLI(t, append([]string{"weak"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Weak areas")
	assert.Contains(t, out, "(1 answered)")
}

func TestTranslateRejectsUnknownTarget(t *testing.T) {
	flags := testDB(t)
	t.Cleanup(func() { _ = translateCmd.Flags().Set("to", "en") })

	_, err := runCLI(t, append([]string{"translate", "--to", "fr", "hello"}, flags...)...)
	assert.ErrorContains(t, err, "unknown language")
}

func TestExplainNeedsConcept(t *testing.T) {
	flags := testDB(t)
	_, err := runCLI(t, append([]string{"explain"}, flags...)...)
	assert.Error(t, err)
}
