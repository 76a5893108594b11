package solve

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker is what the grid says about one person in one room at one time.
type Marker int

const (
	// NoStatement: the person said nothing about this time slot.
	NoStatement Marker = iota
	// Unknown location: neither here by claim nor proven anywhere.
	MarkUnknown
	// Claimed here, not yet proven.
	MarkClaimed
	// Proven to really be here.
	MarkProven
	// Proven not to be here: located elsewhere, or caught lying about this room.
	MarkAbsent
)

// Glyph renders the marker for a person whose initial is r.
func (m Marker) Glyph(initial rune) string {
	switch m {
	case MarkProven:
		return string(unicode.ToUpper(initial))
	case MarkClaimed:
		return string(unicode.ToLower(initial))
	case MarkAbsent:
		return "."
	case MarkUnknown:
		return "?"
	}
	return " "
}

// Grid is the result matrix: Cells[time][room][person].
type Grid struct {
	People []string
	Rooms  []string
	Times  []string
	Cells  [][][]Marker
}

// Grid derives the result grid from the current state of the fact store.
func (f *Facts) Grid() *Grid {
	g := &Grid{People: f.People, Rooms: f.Rooms, Times: f.Times}
	g.Cells = make([][][]Marker, len(f.Times))
	for t := range f.Times {
		g.Cells[t] = make([][]Marker, len(f.Rooms))
		for r := range f.Rooms {
			cell := make([]Marker, len(f.People))
			for p := range f.People {
				cell[p] = markerFor(f.person(p, t), r)
			}
			g.Cells[t][r] = cell
		}
	}
	return g
}

// Grid derives the result grid from the solved fact store.
func (r *Result) Grid() *Grid { return r.Facts.Grid() }

func markerFor(pf *PersonTimeFact, room int) Marker {
	switch {
	case pf == nil:
		return NoStatement
	case pf.RealLocation == room:
		return MarkProven
	case pf.Located():
		return MarkAbsent
	case pf.Claim == room && pf.Lying == True:
		return MarkAbsent
	case pf.Claim == room:
		return MarkClaimed
	}
	return MarkUnknown
}

// Cell renders one cell as one glyph per person, in People order.
func (g *Grid) Cell(t, r int) string {
	var b strings.Builder
	for p, m := range g.Cells[t][r] {
		b.WriteString(m.Glyph(Initial(g.People[p])))
	}
	return b.String()
}

// Initial is the rune a person is drawn with in the grid.
func Initial(name string) rune {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return '?'
	}
	return r
}
