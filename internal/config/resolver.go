// Package config resolves settings from built-in defaults, a YAML config
// file, WHODUNIT_* environment variables and command-line flags, in that
// order of precedence, recording where each value came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"whodunit/internal/extract"
	"whodunit/internal/scenario"
	"whodunit/internal/solve"
	"whodunit/internal/store"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the flag values the caller actually set; empty
// strings mean "not given".
type ResolveOptions struct {
	ConfigPath   string
	CLIDBPath    string
	CLIMaxRounds string
	CLILogLevel  string
	CLILogFormat string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath      ResolvedValue `json:"db_path"`
	MaxRounds   ResolvedValue `json:"max_rounds"`
	DirectCount ResolvedValue `json:"direct_count"`
	LogLevel    ResolvedValue `json:"log_level"`
	LogFormat   ResolvedValue `json:"log_format"`

	Generator scenario.Params  `json:"generator"`
	Accuracy  extract.Accuracy `json:"accuracy"`
}

type fileConfig struct {
	Generator struct {
		People *int    `yaml:"people"`
		Rooms  *int    `yaml:"rooms"`
		Times  *int    `yaml:"times"`
		Seed   *uint64 `yaml:"seed"`
	} `yaml:"generator"`
	Extractor struct {
		Location  *float64 `yaml:"location"`
		DNA       *float64 `yaml:"dna"`
		Person    *float64 `yaml:"person"`
		Hearsay   *float64 `yaml:"hearsay"`
		Headcount *float64 `yaml:"headcount"`
	} `yaml:"extractor"`
	Solver struct {
		MaxRounds   *int  `yaml:"max_rounds"`
		DirectCount *bool `yaml:"direct_count"`
	} `yaml:"solver"`
	Store struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"store"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".whodunit", "config.yaml")
}

// ResolveConfig layers the sources. A missing config file is not an error.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath:  path,
		DBPath:      ResolvedValue{Value: store.DefaultDBPath, Source: SourceDefault, From: "built-in default"},
		MaxRounds:   ResolvedValue{Value: strconv.Itoa(solve.DefaultMaxRounds), Source: SourceDefault, From: "built-in default"},
		DirectCount: ResolvedValue{Value: "false", Source: SourceDefault, From: "built-in default"},
		LogLevel:    ResolvedValue{Value: "info", Source: SourceDefault, From: "built-in default"},
		LogFormat:   ResolvedValue{Value: "text", Source: SourceDefault, From: "built-in default"},
		Generator:   scenario.DefaultParams(),
		Accuracy:    extract.DefaultAccuracy(),
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.DBPath, cfg.Store.DBPath, SourceConfig, path)
		apply(&out.LogLevel, cfg.Log.Level, SourceConfig, path)
		apply(&out.LogFormat, cfg.Log.Format, SourceConfig, path)
		if cfg.Solver.MaxRounds != nil {
			apply(&out.MaxRounds, strconv.Itoa(*cfg.Solver.MaxRounds), SourceConfig, path)
		}
		if cfg.Solver.DirectCount != nil {
			apply(&out.DirectCount, strconv.FormatBool(*cfg.Solver.DirectCount), SourceConfig, path)
		}
		setInt(&out.Generator.People, cfg.Generator.People)
		setInt(&out.Generator.Rooms, cfg.Generator.Rooms)
		setInt(&out.Generator.Times, cfg.Generator.Times)
		if cfg.Generator.Seed != nil {
			out.Generator.Seed = *cfg.Generator.Seed
		}
		setFloat(&out.Accuracy.Location, cfg.Extractor.Location)
		setFloat(&out.Accuracy.DNA, cfg.Extractor.DNA)
		setFloat(&out.Accuracy.Person, cfg.Extractor.Person)
		setFloat(&out.Accuracy.Hearsay, cfg.Extractor.Hearsay)
		setFloat(&out.Accuracy.Headcount, cfg.Extractor.Headcount)
	}

	applyEnv(&out.DBPath, "WHODUNIT_DB")
	applyEnv(&out.MaxRounds, "WHODUNIT_MAX_ROUNDS")
	applyEnv(&out.DirectCount, "WHODUNIT_DIRECT_COUNT")
	applyEnv(&out.LogLevel, "WHODUNIT_LOG_LEVEL")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.MaxRounds, opts.CLIMaxRounds, SourceCLI, "--max-rounds")
	apply(&out.LogLevel, opts.CLILogLevel, SourceCLI, "--log-level")
	apply(&out.LogFormat, opts.CLILogFormat, SourceCLI, "--log-format")

	out.DBPath.Value = expandUserPath(out.DBPath.Value)
	if _, err := out.Rounds(); err != nil {
		return out, err
	}
	if _, err := out.DirectCountEnabled(); err != nil {
		return out, err
	}
	return out, nil
}

// Rounds returns the resolved round cap.
func (r ResolvedConfig) Rounds() (int, error) {
	n, err := strconv.Atoi(r.MaxRounds.Value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("max rounds %q from %s (%s) must be a positive integer", r.MaxRounds.Value, r.MaxRounds.Source, r.MaxRounds.From)
	}
	return n, nil
}

// DirectCountEnabled returns whether the direct-count rule is switched on.
func (r ResolvedConfig) DirectCountEnabled() (bool, error) {
	on, err := strconv.ParseBool(r.DirectCount.Value)
	if err != nil {
		return false, fmt.Errorf("direct count %q from %s (%s) must be true or false", r.DirectCount.Value, r.DirectCount.Source, r.DirectCount.From)
	}
	return on, nil
}

// SolverOptions turns the resolved solver settings into engine options.
// ResolveConfig has already rejected values that do not parse.
func (r ResolvedConfig) SolverOptions() []solve.Option {
	n, _ := r.Rounds()
	direct, _ := r.DirectCountEnabled()
	return []solve.Option{solve.WithMaxRounds(n), solve.WithDirectCount(direct)}
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
