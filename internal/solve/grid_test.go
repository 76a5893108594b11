package solve_test

import (
	"testing"

	"whodunit/internal/solve"

	"github.com/google/go-cmp/cmp"
)

func gridRows(g *solve.Grid, t int) map[string]string {
	rows := make(map[string]string, len(g.Rooms))
	for r, name := range g.Rooms {
		rows[name] = g.Cell(t, r)
	}
	return rows
}

func TestGrid_BeforeAndAfterDeduction(t *testing.T) {
	f, err := solve.Build(soleCandidateLater)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	before := gridRows(f.Grid(), 0)
	want := map[string]string{"Attic": "??", "Hall": "p?", "Study": "?q"}
	if diff := cmp.Diff(want, before); diff != "" {
		t.Errorf("unsolved grid mismatch (-want +got):\n%s", diff)
	}

	res := mustSolve(t, soleCandidateLater)
	after := gridRows(res.Grid(), 0)
	want = map[string]string{"Attic": "P.", "Hall": "..", "Study": ".Q"}
	if diff := cmp.Diff(want, after); diff != "" {
		t.Errorf("solved grid mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_NoStatement(t *testing.T) {
	res := mustSolve(t, twoSlotFeed)
	g := res.Grid()
	vic, _ := res.Facts.PersonIndex("Vic")
	for ti := range g.Times {
		for r := range g.Rooms {
			if m := g.Cells[ti][r][vic]; m != solve.NoStatement {
				t.Errorf("Vic at %s in %s = %v, want no statement", g.Times[ti], g.Rooms[r], m)
			}
		}
	}
	if got := solve.NoStatement.Glyph('V'); got != " " {
		t.Errorf("NoStatement glyph = %q, want blank", got)
	}
}

func TestInitial(t *testing.T) {
	tests := map[string]rune{
		"Ann Lee": 'A',
		"  émile": 'é',
		"":        '?',
	}
	for name, want := range tests {
		if got := solve.Initial(name); got != want {
			t.Errorf("Initial(%q) = %q, want %q", name, got, want)
		}
	}
}
