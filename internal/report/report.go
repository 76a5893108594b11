// Package report lays out a case file the way an investigator reads it:
// one table per kind of evidence, and a separate solution sheet.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"whodunit/internal/clue"
	"whodunit/internal/format"
	"whodunit/internal/scenario"
)

// Section is one titled table of the case file.
type Section struct {
	Title  string
	Header []string
	Rows   [][]string
}

// CaseFile splits a feed into the victim, dna, claims, alibi and smart
// lights sections. Rows are sorted.
func CaseFile(feed clue.Feed) []Section {
	victim := Section{Title: "victim", Header: []string{"victim"}}
	for _, name := range feed.Victims() {
		victim.Rows = append(victim.Rows, []string{name})
	}

	dna := Section{Title: "dna", Header: []string{"room", "person"}}
	for _, r := range feed.OfKind(clue.KindDNA) {
		dna.Rows = append(dna.Rows, []string{r.Room, r.Name})
	}

	claims := Section{Title: "claims", Header: []string{"time", "room", "person", "headcount"}}
	alibi := Section{Title: "alibi", Header: []string{"time", "room", "witness", "spotted"}}
	for _, r := range feed.Witnesses() {
		count := ""
		if n, ok := r.Headcount(); ok {
			count = fmt.Sprint(n)
		}
		claims.Rows = append(claims.Rows, []string{r.Time, r.Room, r.Name, count})
		for _, o := range r.Others {
			alibi.Rows = append(alibi.Rows, []string{r.Time, r.Room, r.Name, o})
		}
	}

	lights := Section{Title: "smart lights", Header: []string{"time", "room", "status"}}
	for _, r := range feed.Lights() {
		lights.Rows = append(lights.Rows, []string{r.Time, r.Room, r.Status})
	}

	out := []Section{victim, dna, claims, alibi, lights}
	for i := range out {
		sortRows(out[i].Rows)
	}
	return out
}

// Solution is the sheet kept apart from the case file: every living
// culprit of every crime.
func Solution(rows []scenario.CrimeRow) Section {
	s := Section{Title: "crimes", Header: []string{"time", "room", "crime", "person"}}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{r.Time, r.Room, string(r.Crime), r.Person})
	}
	sortRows(s.Rows)
	return s
}

// Render draws each section under an underlined title.
func Render(sections []Section, m format.Mode) string {
	var b strings.Builder
	for _, s := range sections {
		switch m {
		case format.Markdown:
			fmt.Fprintf(&b, "\n### %s\n\n", s.Title)
		default:
			fmt.Fprintf(&b, "\n%s\n%s\n", s.Title, strings.Repeat("-", len(s.Title)))
		}
		if len(s.Rows) == 0 {
			b.WriteString("(none)\n")
			continue
		}
		tb := format.NewTable(m)
		tb.Header(s.Header...)
		for _, row := range s.Rows {
			vals := make([]any, len(row))
			for i, v := range row {
				vals[i] = v
			}
			tb.Row(vals...)
		}
		b.WriteString(tb.String())
		b.WriteString("\n")
	}
	return b.String()
}

func sortRows(rows [][]string) {
	slices.SortFunc(rows, func(a, b []string) int {
		for i := range min(len(a), len(b)) {
			if c := strings.Compare(a[i], b[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a), len(b))
	})
}
