package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whodunit/internal/extract"
	"whodunit/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveConfig_Defaults(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.DBPath.Value != store.DefaultDBPath || resolved.DBPath.Source != SourceDefault {
		t.Errorf("DBPath = %+v", resolved.DBPath)
	}
	if n, _ := resolved.Rounds(); n != 20 {
		t.Errorf("Rounds = %d, want 20", n)
	}
	if resolved.Accuracy != extract.DefaultAccuracy() {
		t.Errorf("Accuracy = %+v", resolved.Accuracy)
	}
	if len(resolved.SolverOptions()) != 2 {
		t.Error("expected max-rounds and direct-count options")
	}
}

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	cfgPath := writeConfig(t, `store:
  db_path: /tmp/from-config.db
solver:
  max_rounds: 7
  direct_count: true
generator:
  people: 9
  seed: 42
extractor:
  hearsay: 0
log:
  format: json
`)
	t.Setenv("WHODUNIT_DB", "/tmp/from-env.db")
	t.Setenv("WHODUNIT_MAX_ROUNDS", "9")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:   cfgPath,
		CLIMaxRounds: "12",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.DBPath.Source != SourceEnv || resolved.DBPath.Value != "/tmp/from-env.db" {
		t.Fatalf("expected DB path from env, got %+v", resolved.DBPath)
	}
	if resolved.MaxRounds.Source != SourceCLI || resolved.MaxRounds.Value != "12" {
		t.Fatalf("expected max rounds from cli, got %+v", resolved.MaxRounds)
	}
	if resolved.DirectCount.Source != SourceConfig || resolved.DirectCount.Value != "true" {
		t.Fatalf("expected direct count from config, got %+v", resolved.DirectCount)
	}
	if resolved.LogFormat.Value != "json" || resolved.LogLevel.Source != SourceDefault {
		t.Errorf("log settings = %+v / %+v", resolved.LogFormat, resolved.LogLevel)
	}
	if resolved.Generator.People != 9 || resolved.Generator.Seed != 42 || resolved.Generator.Rooms != 3 {
		t.Errorf("Generator = %+v", resolved.Generator)
	}
	if resolved.Accuracy.Hearsay != 0 || resolved.Accuracy.DNA != 0.5 {
		t.Errorf("Accuracy = %+v", resolved.Accuracy)
	}
}

func TestResolveConfig_BadRounds(t *testing.T) {
	t.Setenv("WHODUNIT_MAX_ROUNDS", "zero")
	_, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
	if err == nil {
		t.Fatal("expected error for a non-numeric round cap")
	}
}

func TestResolveConfig_DirectCountFromEnv(t *testing.T) {
	t.Setenv("WHODUNIT_DIRECT_COUNT", "1")
	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	on, err := resolved.DirectCountEnabled()
	if err != nil || !on {
		t.Errorf("DirectCountEnabled = %v, %v; want true", on, err)
	}
	if resolved.DirectCount.Source != SourceEnv {
		t.Errorf("DirectCount = %+v, want from env", resolved.DirectCount)
	}
}

func TestResolveConfig_BadDirectCount(t *testing.T) {
	t.Setenv("WHODUNIT_DIRECT_COUNT", "sometimes")
	_, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
	if err == nil || !strings.Contains(err.Error(), "WHODUNIT_DIRECT_COUNT") {
		t.Fatalf("err = %v, want a direct count error naming its source", err)
	}

	r := ResolvedConfig{DirectCount: ResolvedValue{Value: "maybe", Source: SourceConfig, From: "x.yaml"}}
	if _, err := r.DirectCountEnabled(); err == nil {
		t.Error("DirectCountEnabled accepted a non-boolean")
	}
}

func TestResolveConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "solver: [unclosed")
	if _, err := ResolveConfig(ResolveOptions{ConfigPath: path}); err == nil {
		t.Fatal("expected parse error")
	}
}
