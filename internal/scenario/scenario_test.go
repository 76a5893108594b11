package scenario_test

import (
	"errors"
	"slices"
	"testing"

	"whodunit/internal/scenario"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate_Deterministic(t *testing.T) {
	p := scenario.DefaultParams()
	p.Seed = 42
	a, err := scenario.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := scenario.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different plots:\n%s", diff)
	}
}

func TestGenerate_PlotInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 40; seed++ {
		p := scenario.DefaultParams()
		p.Seed = seed
		plot, err := scenario.Generate(p)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		checkPlot(t, seed, plot)
	}
}

func checkPlot(t *testing.T, seed uint64, plot *scenario.Plot) {
	t.Helper()
	if len(plot.Events) != len(plot.Rooms)*len(plot.Times) {
		t.Fatalf("seed %d: %d events for %d rooms x %d times", seed, len(plot.Events), len(plot.Rooms), len(plot.Times))
	}

	crimes := map[scenario.Crime]int{}
	murderSlot := -1
	for _, e := range plot.Crimes() {
		crimes[e.Crime]++
		if e.Crime == scenario.CrimeMurder {
			murderSlot = slices.Index(plot.Times, e.Time)
		}
	}
	want := map[scenario.Crime]int{scenario.CrimeMurder: 1, scenario.CrimeTheft: 3, scenario.CrimeAffair: 2}
	if diff := cmp.Diff(want, crimes); diff != "" {
		t.Fatalf("seed %d: crime tally mismatch:\n%s", seed, diff)
	}

	victim, ok := plot.Victim()
	if !ok {
		t.Fatalf("seed %d: no victim", seed)
	}
	murderer, ok := plot.Murderer()
	if !ok || murderer.Name == victim.Name {
		t.Fatalf("seed %d: murderer %+v, victim %+v", seed, murderer, victim)
	}

	for ti, tm := range plot.Times {
		for _, person := range plot.People {
			attended, claimed := 0, 0
			for _, e := range plot.Events {
				if e.Time != tm {
					continue
				}
				if slices.Contains(e.Attending, person.Name) {
					attended++
				}
				if slices.Contains(e.Claiming, person.Name) {
					claimed++
				}
			}
			wantAttend, wantClaim := 1, 1
			if person.Name == victim.Name && ti > murderSlot {
				wantAttend, wantClaim = 0, 0
			}
			if person.Name == victim.Name && ti == murderSlot {
				wantClaim = 0
			}
			if attended != wantAttend || claimed != wantClaim {
				t.Errorf("seed %d: %s at %s attended %d and claimed %d events, want %d and %d",
					seed, person.Name, tm, attended, claimed, wantAttend, wantClaim)
			}
		}
	}

	for _, e := range plot.Events {
		for _, name := range e.Attending {
			claim, ok := plot.Claimed(name, e.Time)
			switch {
			case e.Crime == "" && claim != e.Room:
				t.Errorf("seed %d: %s attended %s at %s but claims %q", seed, name, e.Room, e.Time, claim)
			case e.Crime != "" && ok && claim == e.Room:
				t.Errorf("seed %d: %s admits to the %s in %s at %s", seed, name, e.Crime, e.Room, e.Time)
			}
		}
	}
}

func TestGenerate_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    scenario.Params
	}{
		{"one room", scenario.Params{People: 6, Rooms: 1, Times: 5}},
		{"too many rooms", scenario.Params{People: 6, Rooms: 10, Times: 5}},
		{"no time", scenario.Params{People: 6, Rooms: 3, Times: 0}},
		{"past midnight", scenario.Params{People: 6, Rooms: 3, Times: 13}},
		{"too few people", scenario.Params{People: 2, Rooms: 3, Times: 5}},
		{"crimes do not fit", scenario.Params{People: 3, Rooms: 2, Times: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Generate(tt.p)
			if !errors.Is(err, scenario.ErrInvalidParams) {
				t.Fatalf("Generate(%+v) error = %v, want ErrInvalidParams", tt.p, err)
			}
		})
	}
}

func TestPlot_WhereAndClaimed(t *testing.T) {
	plot, err := scenario.Generate(scenario.DefaultParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	murderer, _ := plot.Murderer()
	var murder scenario.Event
	for _, e := range plot.Crimes() {
		if e.Crime == scenario.CrimeMurder {
			murder = e
		}
	}
	room, ok := plot.Where(murderer.Name, murder.Time)
	if !ok || room != murder.Room {
		t.Errorf("Where(murderer) = %q, %v; want %q", room, ok, murder.Room)
	}
	claim, ok := plot.Claimed(murderer.Name, murder.Time)
	if !ok || claim == murder.Room {
		t.Errorf("Claimed(murderer) = %q, %v; want a room other than %q", claim, ok, murder.Room)
	}
}

func TestPlot_Solution(t *testing.T) {
	plot, err := scenario.Generate(scenario.DefaultParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rows := plot.Solution()
	// murderer, three thieves, two couples
	if len(rows) != 8 {
		t.Fatalf("got %d solution rows, want 8: %+v", len(rows), rows)
	}
	victim, _ := plot.Victim()
	murderer, _ := plot.Murderer()
	var murderRows int
	for _, r := range rows {
		if r.Person == victim.Name {
			t.Errorf("the victim is listed as a culprit: %+v", r)
		}
		if r.Crime == scenario.CrimeMurder {
			murderRows++
			if r.Person != murderer.Name {
				t.Errorf("murder row names %q, want %q", r.Person, murderer.Name)
			}
		}
	}
	if murderRows != 1 {
		t.Errorf("got %d murder rows, want 1", murderRows)
	}
}
