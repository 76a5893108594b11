package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whodunit/internal/clue"
	"whodunit/internal/solve"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, k := range []string{"WHODUNIT_DB", "WHODUNIT_MAX_ROUNDS", "WHODUNIT_DIRECT_COUNT", "WHODUNIT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) path(name string) string { return filepath.Join(c.dir, name) }

// run executes one command line against a fresh command tree with an
// isolated config file and store.
func (c *cli) run(args ...string) (string, string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	base := []string{"--config", c.path("config.yaml"), "--db", c.path("whodunit.db"), "--log-level", "error"}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, errOut, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("whodunit %s: %v\nstderr:\n%s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output lacks %q:\n%s", w, got)
		}
	}
}

func TestGenerateSolveReport_Files(t *testing.T) {
	c := newCLI(t)
	feedPath, truthPath := c.path("case.json"), c.path("truth.json")

	c.mustRun("generate", "--seed", "5", "-o", feedPath, "--truth", truthPath)
	feed, err := clue.LoadFromPath(feedPath)
	if err != nil {
		t.Fatalf("load generated feed: %v", err)
	}
	if len(feed.Witnesses()) == 0 {
		t.Fatal("generated feed has no witness statements")
	}

	out := c.mustRun("solve", "-f", feedPath, "--explain")
	assertContains(t, out, "12:00", "Marks:", "Finding", "statements:", "(stable)")

	out = c.mustRun("report", "-f", feedPath, "--truth", truthPath)
	assertContains(t, out, "victim", "claims", "smart lights", "crimes", "murder")
}

func TestGenerate_StdoutIsDeterministic(t *testing.T) {
	c := newCLI(t)
	first := c.mustRun("generate", "--seed", "9", "--people", "7")
	second := c.mustRun("generate", "--seed", "9", "--people", "7")
	if first != second {
		t.Error("same seed produced different feeds")
	}
	feed, err := clue.Decode([]byte(first), ".json")
	if err != nil {
		t.Fatalf("stdout is not a clue feed: %v", err)
	}
	if len(feed.Victims()) != 1 {
		t.Errorf("victims = %v, want one", feed.Victims())
	}
}

func TestGenerate_YAMLByExtension(t *testing.T) {
	c := newCLI(t)
	p := c.path("case.yaml")
	c.mustRun("generate", "--seed", "2", "-o", p)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		t.Errorf("expected YAML, got JSON:\n%s", data)
	}
	c.mustRun("solve", "-f", p)
}

func TestSolve_FixtureMarkdown(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("solve", "--fixture", "dark-room", "--format", "markdown")
	assertContains(t, out, "| Time", "2 statements: 0 truthful, 2 lying, 0 unknown; 2 located")
}

func TestSolve_Contradiction(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("solve", "--fixture", "broken-alibi", "--save")
	if !errors.Is(err, solve.ErrContradiction) {
		t.Fatalf("err = %v, want ErrContradiction", err)
	}
	out := c.mustRun("status", "--case-id", "1")
	assertContains(t, out, "broken-alibi", "contradiction")
}

func TestSolve_CaseSourceFlags(t *testing.T) {
	c := newCLI(t)
	tests := []struct {
		name string
		args []string
	}{
		{"none", []string{"solve"}},
		{"two", []string{"solve", "--fixture", "dark-room", "-f", "case.json"}},
		{"missing case", []string{"solve", "--case-id", "3"}},
		{"unknown fixture", []string{"solve", "--fixture", "nope"}},
		{"bad format", []string{"solve", "--fixture", "dark-room", "--format", "html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := c.run(tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_GenerateSolveStatus(t *testing.T) {
	c := newCLI(t)
	_, errOut, err := c.run("generate", "--seed", "4", "--save", "-o", c.path("case.json"))
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, errOut, "Saved case #1")

	c.mustRun("solve", "--case-id", "1", "--save")
	c.mustRun("solve", "--case-id", "1", "--save", "--max-rounds", "1")

	out := c.mustRun("status")
	assertContains(t, out, "seed-4")

	out = c.mustRun("status", "--case-id", "1")
	assertContains(t, out, "Case:    #1 seed-4", "Solutions", "Time")

	out = c.mustRun("report", "--case-id", "1", "--reveal")
	assertContains(t, out, "crimes")
}

func TestReport_RevealWithoutTruth(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("report", "--fixture", "headcount", "--reveal"); err == nil {
		t.Error("expected error revealing a fixture")
	}
	out := c.mustRun("report", "--fixture", "headcount")
	assertContains(t, out, "claims")
}

func TestCalibrate_SavesRun(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("calibrate", "--runs", "3", "--parallel", "2", "--seed", "10", "--save")
	assertContains(t, out, "contradiction_free", "location_soundness", "liar_recall")

	out = c.mustRun("status", "--calibrations")
	assertContains(t, out, "/7")
}

func TestConfig_Sources(t *testing.T) {
	c := newCLI(t)
	cfg := "solver:\n  max_rounds: 7\nlog:\n  format: json\n"
	if err := os.WriteFile(c.path("config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	out := c.mustRun("config")
	assertContains(t, out, "max_rounds", "7", "config", "--db", "cli")

	t.Setenv("WHODUNIT_MAX_ROUNDS", "9")
	out = c.mustRun("config")
	assertContains(t, out, "9", "WHODUNIT_MAX_ROUNDS")
}

func TestGlobalFlags_Invalid(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("config", "--log-level", "loud"); err == nil {
		t.Error("expected error for unknown log level")
	}
	t.Setenv("WHODUNIT_MAX_ROUNDS", "zero")
	if _, _, err := c.run("solve", "--fixture", "dark-room"); err == nil {
		t.Error("expected error for non-numeric max rounds")
	}
}

func TestCalibrate_BadDirectCount(t *testing.T) {
	c := newCLI(t)
	t.Setenv("WHODUNIT_DIRECT_COUNT", "sometimes")
	_, _, err := c.run("calibrate", "--runs", "1")
	if err == nil || !strings.Contains(err.Error(), "direct count") {
		t.Errorf("err = %v, want the direct count parse error", err)
	}
}
