package format

import (
	"fmt"
	"strings"

	"whodunit/internal/solve"
)

// Grid renders the result grid with one row per time slot and one column
// per room. Each cell holds one mark per person, in legend order.
func Grid(g *solve.Grid, m Mode) string {
	tb := NewTable(m)
	header := append([]string{"Time"}, g.Rooms...)
	tb.Header(header...)
	for t, label := range g.Times {
		row := make([]any, 0, len(g.Rooms)+1)
		row = append(row, label)
		for r := range g.Rooms {
			row = append(row, g.Cell(t, r))
		}
		tb.Row(row...)
	}
	return tb.String() + "\n" + Legend(g)
}

// Legend explains the grid marks and names the person behind each position.
func Legend(g *solve.Grid) string {
	var b strings.Builder
	b.WriteString("Marks: X proven here, x claimed here, . elsewhere, ? unknown, blank no statement\n")
	for i, name := range g.People {
		fmt.Fprintf(&b, "  %d %c %s\n", i+1, solve.Initial(name), name)
	}
	return b.String()
}

// Conclusions lists what the engine proved, in proof order.
func Conclusions(res *solve.Result, m Mode) string {
	f := res.Facts
	tb := NewTable(m)
	tb.Header("Round", "Time", "Finding", "Person", "Room")
	for _, c := range res.Conclusions {
		person := "-"
		if c.Person != solve.None {
			person = f.People[c.Person]
		}
		room := f.Rooms[c.Room]
		if c.Finding == solve.FoundCount {
			room = fmt.Sprintf("%s (%d present)", room, c.Count)
		}
		tb.Row(c.Round, f.Times[c.Time], c.Finding, person, room)
	}
	tb.Columns(ColumnConfig{Number: 1, Align: AlignRight})
	return tb.String()
}

// Summary is a one-line tally of a deduction.
func Summary(res *solve.Result) string {
	s := res.Summary()
	stable := "stable"
	if !res.Stable {
		stable = "round cap reached"
	}
	return fmt.Sprintf("%d statements: %d truthful, %d lying, %d unknown; %d located; %d rounds (%s)",
		s.Statements, s.Truthful, s.Lying, s.Unknown, s.Located, res.Rounds, stable)
}
