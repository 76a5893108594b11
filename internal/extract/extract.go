// Package extract interviews the guests of a plot and reads the forensic
// and smart-home logs, producing the clue feed the solver works from.
// Every observation is drawn independently with a fixed accuracy.
package extract

import (
	"cmp"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"whodunit/internal/clue"
	"whodunit/internal/logging"
	"whodunit/internal/scenario"
)

// Accuracy holds the probability of each kind of observation being made.
type Accuracy struct {
	// Location is the chance a guest remembers where they say they were.
	Location float64 `json:"location" yaml:"location"`
	// DNA is the chance a guest leaves a trace in a room they attended.
	DNA float64 `json:"dna" yaml:"dna"`
	// Person is the chance a truthful guest remembers each companion.
	Person float64 `json:"person" yaml:"person"`
	// Hearsay is the chance a lying guest names each other claimant.
	Hearsay float64 `json:"hearsay" yaml:"hearsay"`
	// Headcount is the chance a guest volunteers how many were present.
	Headcount float64 `json:"headcount" yaml:"headcount"`
}

// DefaultAccuracy returns the standard investigation odds.
func DefaultAccuracy() Accuracy {
	return Accuracy{Location: 1.0, DNA: 0.5, Person: 0.5, Hearsay: 0.2, Headcount: 0.3}
}

// Investigator turns a plot into a clue feed.
type Investigator struct {
	acc Accuracy
	rng *rand.Rand
	log *slog.Logger
}

// New returns an investigator whose draws are fixed by seed.
func New(acc Accuracy, seed uint64) *Investigator {
	return &Investigator{
		acc: acc,
		rng: rand.New(rand.NewPCG(seed, ^seed)),
		log: logging.New("extract"),
	}
}

// WithLogger replaces the investigator's logger.
func (inv *Investigator) WithLogger(l *slog.Logger) *Investigator {
	if l != nil {
		inv.log = l
	}
	return inv
}

func (inv *Investigator) chance(p float64) bool { return inv.rng.Float64() < p }

// Investigate gathers the case file: the victim, DNA traces, one witness
// statement per remembered claim, and the smart-light log. The victim
// makes no statements.
func (inv *Investigator) Investigate(plot *scenario.Plot) clue.Feed {
	alive := make(map[string]bool, len(plot.People))
	var feed clue.Feed
	for _, p := range plot.People {
		alive[p.Name] = p.Alive
		if !p.Alive {
			feed = append(feed, clue.Record{Kind: clue.KindVictim, Name: p.Name})
		}
	}
	feed = append(feed, inv.dna(plot)...)
	witnesses := inv.statements(plot, alive)
	feed = append(feed, witnesses...)
	feed = append(feed, lights(plot)...)

	known := make(map[string]bool)
	for _, r := range feed {
		if r.Name != "" {
			known[r.Name] = true
		}
	}
	for i := range feed {
		if feed[i].Kind != clue.KindWitness {
			continue
		}
		feed[i].Others = slices.DeleteFunc(feed[i].Others, func(o string) bool { return !known[o] })
	}

	inv.log.Debug("case file gathered",
		"witness_statements", len(witnesses), "records", len(feed))
	return feed
}

func (inv *Investigator) dna(plot *scenario.Plot) clue.Feed {
	type trace struct{ room, name string }
	seen := make(map[trace]bool)
	var out clue.Feed
	for _, e := range plot.Events {
		for _, name := range e.Attending {
			if !inv.chance(inv.acc.DNA) {
				continue
			}
			tr := trace{e.Room, name}
			if seen[tr] {
				continue
			}
			seen[tr] = true
			out = append(out, clue.Record{Kind: clue.KindDNA, Name: name, Room: e.Room})
		}
	}
	slices.SortFunc(out, func(a, b clue.Record) int {
		return cmp.Or(strings.Compare(a.Room, b.Room), strings.Compare(a.Name, b.Name))
	})
	return out
}

// statements draws one witness record per remembered claim. Someone who
// really attended names real companions; someone covering for a crime can
// only name the people who claim the same room.
func (inv *Investigator) statements(plot *scenario.Plot, alive map[string]bool) clue.Feed {
	var out clue.Feed
	for _, e := range plot.Events {
		for _, name := range e.Claiming {
			if !alive[name] || !inv.chance(inv.acc.Location) {
				continue
			}
			rec := clue.Record{Kind: clue.KindWitness, Name: name, Room: e.Room, Time: e.Time}
			truthful := slices.Contains(e.Attending, name)
			company, odds := e.Claiming, inv.acc.Hearsay
			if truthful {
				company, odds = e.Attending, inv.acc.Person
			}
			for _, other := range company {
				if other != name && inv.chance(odds) {
					rec.Others = append(rec.Others, other)
				}
			}
			if inv.chance(inv.acc.Headcount) {
				n := len(e.Attending)
				if !truthful {
					n = countFunc(e.Claiming, func(c string) bool { return alive[c] })
				}
				rec.Count = &n
			}
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b clue.Record) int {
		return cmp.Or(
			strings.Compare(a.Time, b.Time),
			strings.Compare(a.Room, b.Room),
			strings.Compare(a.Name, b.Name),
		)
	})
	return out
}

// lights reports every room on for a time slot iff somebody was in it.
func lights(plot *scenario.Plot) clue.Feed {
	out := make(clue.Feed, 0, len(plot.Events))
	for _, e := range plot.Events {
		status := clue.StatusOff
		if e.Occupied() {
			status = clue.StatusOn
		}
		out = append(out, clue.Record{Kind: clue.KindLight, Room: e.Room, Time: e.Time, Status: status})
	}
	slices.SortFunc(out, func(a, b clue.Record) int {
		return cmp.Or(strings.Compare(a.Time, b.Time), strings.Compare(a.Room, b.Room))
	})
	return out
}

func countFunc(names []string, keep func(string) bool) int {
	n := 0
	for _, x := range names {
		if keep(x) {
			n++
		}
	}
	return n
}
