package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/llm"
)

// File mirrors config.toml. Pointer fields distinguish "unset" from zero.
type File struct {
	Engine EngineFile `toml:"engine"`
	Store  StoreFile  `toml:"store"`
	LLM    LLMFile    `toml:"llm"`
}

type EngineFile struct {
	WeakThreshold   *float64 `toml:"weak_threshold"`
	OverrideWeak    *bool    `toml:"override_weak"`
	NoHistory       *string  `toml:"no_history"`
	Seed            *uint64  `toml:"seed"`
	QuestionTimeout *string  `toml:"question_timeout"`
}

type StoreFile struct {
	DB *string `toml:"db"`
}

type LLMFile struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
}

// Engine holds the engine policy settings.
type Engine struct {
	WeakThreshold float64
	OverrideWeak  bool
	NoHistory     analytics.NoHistoryPolicy
	Seed          uint64

	// QuestionTimeout is how long a presented question stays answerable.
	QuestionTimeout time.Duration
}

// Settings is the fully resolved configuration.
type Settings struct {
	DBPath string
	Engine Engine
	LLM    llm.Config
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		DBPath: DefaultDBPath(),
		Engine: Engine{
			WeakThreshold:   analytics.DefaultWeakThreshold,
			NoHistory:       analytics.NoHistoryAny,
			QuestionTimeout: 30 * time.Second,
		},
		LLM: llm.DefaultConfig(),
	}
}

// LoadFile reads a TOML config. A missing file yields an empty File.
func LoadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, errors.New("config path is empty")
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return f, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Resolve layers the file and then the environment over the defaults.
// Command-line flags are applied by the caller on top of the result.
func Resolve(f File, getenv func(string) string) (Settings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	s := Defaults()

	if err := s.applyFile(f); err != nil {
		return Settings{}, err
	}
	if err := s.applyEnv(getenv); err != nil {
		return Settings{}, err
	}
	if s.Engine.WeakThreshold <= 0 || s.Engine.WeakThreshold > 100 {
		return Settings{}, fmt.Errorf("weak_threshold must be in (0, 100], got %g", s.Engine.WeakThreshold)
	}
	return s, nil
}

func (s *Settings) applyFile(f File) error {
	e := f.Engine
	if e.WeakThreshold != nil {
		s.Engine.WeakThreshold = *e.WeakThreshold
	}
	if e.OverrideWeak != nil {
		s.Engine.OverrideWeak = *e.OverrideWeak
	}
	if e.NoHistory != nil {
		p, err := analytics.ParseNoHistoryPolicy(*e.NoHistory)
		if err != nil {
			return fmt.Errorf("engine.no_history: %w", err)
		}
		s.Engine.NoHistory = p
	}
	if e.Seed != nil {
		s.Engine.Seed = *e.Seed
	}
	if e.QuestionTimeout != nil {
		d, err := time.ParseDuration(*e.QuestionTimeout)
		if err != nil {
			return fmt.Errorf("engine.question_timeout: %w", err)
		}
		s.Engine.QuestionTimeout = d
	}

	if f.Store.DB != nil && *f.Store.DB != "" {
		s.DBPath = *f.Store.DB
	}

	if f.LLM.Provider != nil {
		s.LLM.Provider = *f.LLM.Provider
	}
	if f.LLM.Model != nil && *f.LLM.Model != "" {
		if c := s.LLM.Credentials(s.LLM.Provider); c != nil {
			c.Model = *f.LLM.Model
		}
	}
	return nil
}

func (s *Settings) applyEnv(getenv func(string) string) error {
	if v := getenv("SATPREP_DB"); v != "" {
		s.DBPath = v
	}
	if v := getenv("SATPREP_WEAK_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SATPREP_WEAK_THRESHOLD: %w", err)
		}
		s.Engine.WeakThreshold = f
	}
	if v := getenv("SATPREP_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SATPREP_SEED: %w", err)
		}
		s.Engine.Seed = n
	}
	s.LLM = llm.ApplyEnv(s.LLM, getenv)
	return nil
}
