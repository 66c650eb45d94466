package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/llm"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	s, err := Resolve(File{}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "/data/satprep/satprep.db", s.DBPath)
	assert.Equal(t, 70.0, s.Engine.WeakThreshold)
	assert.Equal(t, analytics.NoHistoryAny, s.Engine.NoHistory)
	assert.False(t, s.Engine.OverrideWeak)
	assert.Equal(t, 30*time.Second, s.Engine.QuestionTimeout)
	assert.Equal(t, llm.ProviderAnthropic, s.LLM.Provider)
}

func TestLoadFileAndResolve(t *testing.T) {
	path := writeFile(t, "config.toml", `
[engine]
weak_threshold = 65.5
override_weak = true
no_history = "assume-50"
seed = 42
question_timeout = "45s"

[store]
db = "/tmp/from-file.db"

[llm]
provider = "openai"
model = "gpt-4.1-mini"
`)
	f, err := LoadFile(path)
	require.NoError(t, err)

	s, err := Resolve(f, env(nil))
	require.NoError(t, err)
	assert.Equal(t, 65.5, s.Engine.WeakThreshold)
	assert.True(t, s.Engine.OverrideWeak)
	assert.Equal(t, analytics.NoHistoryAssumeFifty, s.Engine.NoHistory)
	assert.Equal(t, uint64(42), s.Engine.Seed)
	assert.Equal(t, 45*time.Second, s.Engine.QuestionTimeout)
	assert.Equal(t, "/tmp/from-file.db", s.DBPath)
	assert.Equal(t, llm.ProviderOpenAI, s.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", s.LLM.OpenAI.Model)
}

func TestEnvOverridesFile(t *testing.T) {
	db := "/tmp/file.db"
	threshold := 50.0
	f := File{
		Engine: EngineFile{WeakThreshold: &threshold},
		Store:  StoreFile{DB: &db},
	}

	s, err := Resolve(f, env(map[string]string{
		"SATPREP_DB":             "/tmp/env.db",
		"SATPREP_WEAK_THRESHOLD": "80",
		"SATPREP_SEED":           "7",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", s.DBPath)
	assert.Equal(t, 80.0, s.Engine.WeakThreshold)
	assert.Equal(t, uint64(7), s.Engine.Seed)
}

func TestResolveErrors(t *testing.T) {
	bad := "sometimes"
	_, err := Resolve(File{Engine: EngineFile{NoHistory: &bad}}, env(nil))
	assert.Error(t, err)

	dur := "soon"
	_, err = Resolve(File{Engine: EngineFile{QuestionTimeout: &dur}}, env(nil))
	assert.Error(t, err)

	_, err = Resolve(File{}, env(map[string]string{"SATPREP_WEAK_THRESHOLD": "150"}))
	assert.Error(t, err)

	_, err = Resolve(File{}, env(map[string]string{"SATPREP_SEED": "-1"}))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, File{}, f)

	_, err = LoadFile(writeFile(t, "broken.toml", "[engine\nseed = "))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SATPREP_TEST_DOTENV=loaded\n")
	t.Setenv("SATPREP_TEST_DOTENV", "")
	os.Unsetenv("SATPREP_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SATPREP_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
