package format_test

import (
	"context"
	"strings"
	"testing"

	"whodunit/internal/clue"
	"whodunit/internal/format"
	"whodunit/internal/logging"
	"whodunit/internal/solve"
)

func solved(t *testing.T) *solve.Result {
	t.Helper()
	feed := clue.Feed{
		{Kind: clue.KindWitness, Name: "Ann Carrow", Room: "Hall", Time: "12:00"},
		{Kind: clue.KindWitness, Name: "Ben Dunmore", Room: "Study", Time: "12:00"},
		{Kind: clue.KindLight, Room: "Hall", Time: "12:00", Status: clue.StatusOff},
		{Kind: clue.KindLight, Room: "Study", Time: "12:00", Status: clue.StatusOn},
	}
	res, err := solve.NewEngine(solve.WithLogger(logging.Discard())).Solve(context.Background(), feed)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return res
}

func TestGrid_ASCII(t *testing.T) {
	res := solved(t)
	out := format.Grid(res.Grid(), format.ASCII)
	// Ann lied about the dark Hall and can only have been in the Study,
	// which condemns Ben's claim too. Ben stays unplaced.
	for _, want := range []string{"Time", "Hall", "Study", "12:00", ".?", "A.", "1 A Ann Carrow", "2 B Ben Dunmore"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in grid:\n%s", want, out)
		}
	}
}

func TestGrid_Markdown(t *testing.T) {
	out := format.Grid(solved(t).Grid(), format.Markdown)
	if !strings.Contains(out, "| Time") {
		t.Errorf("expected markdown header:\n%s", out)
	}
}

func TestConclusionsAndSummary(t *testing.T) {
	res := solved(t)
	out := format.Conclusions(res, format.ASCII)
	for _, want := range []string{"room-invalid", "lying", "located", "Ann Carrow"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in conclusions:\n%s", want, out)
		}
	}
	sum := format.Summary(res)
	if !strings.HasPrefix(sum, "2 statements: 0 truthful, 2 lying") {
		t.Errorf("Summary = %q", sum)
	}
}
