// Package clue defines the Clue Feed: the ordered, typed observation records
// produced by the evidence extractor and consumed by the solver.
//
// A feed is stored as a flat list of records discriminated by the "clue" key:
//
//	[{"clue": "victim", "name": "Ada Byron"},
//	 {"clue": "witness", "name": "Tom Hale", "room": "Study", "time": "13:00", "others": ["Ann Lee"], "count": 3},
//	 {"clue": "light", "room": "Study", "time": "13:00", "status": "on"}]
package clue

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates clue records.
type Kind string

const (
	KindVictim  Kind = "victim"
	KindDNA     Kind = "dna"
	KindWitness Kind = "witness"
	KindLight   Kind = "light"
)

// Light statuses.
const (
	StatusOn  = "on"
	StatusOff = "off"
)

// ErrMalformedFeed is returned when a record is missing required fields or has
// an unknown kind. The whole feed is rejected.
var ErrMalformedFeed = errors.New("malformed clue feed")

// Record is one observation. Which fields are meaningful depends on Kind.
type Record struct {
	Kind   Kind     `json:"clue" yaml:"clue"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Room   string   `json:"room,omitempty" yaml:"room,omitempty"`
	Time   string   `json:"time,omitempty" yaml:"time,omitempty"`
	Others []string `json:"others,omitempty" yaml:"others,omitempty"`
	// Count is the headcount a witness volunteered for the room, self included.
	Count *int `json:"count,omitempty" yaml:"count,omitempty"`
	// Total is the legacy form: unnamed people seen besides Others and self.
	Total  *int   `json:"total,omitempty" yaml:"total,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Headcount returns the population a witness reported, if any.
// Count wins over the legacy Total form.
func (r Record) Headcount() (int, bool) {
	if r.Count != nil {
		return *r.Count, true
	}
	if r.Total != nil {
		return *r.Total + len(r.Others) + 1, true
	}
	return 0, false
}

// Active reports whether a light record observed the room as occupied.
func (r Record) Active() bool { return r.Status == StatusOn }

func (r Record) String() string {
	switch r.Kind {
	case KindVictim:
		return fmt.Sprintf("victim(%s)", r.Name)
	case KindDNA:
		return fmt.Sprintf("dna(%s in %s)", r.Name, r.Room)
	case KindWitness:
		return fmt.Sprintf("witness(%s in %s at %s)", r.Name, r.Room, r.Time)
	case KindLight:
		return fmt.Sprintf("light(%s at %s: %s)", r.Room, r.Time, r.Status)
	}
	return fmt.Sprintf("clue(%s)", r.Kind)
}

// Feed is an ordered collection of clue records.
type Feed []Record

// OfKind returns the records of kind k, preserving feed order.
func (f Feed) OfKind(k Kind) []Record {
	var out []Record
	for _, r := range f {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// Witnesses returns the witness statements.
func (f Feed) Witnesses() []Record { return f.OfKind(KindWitness) }

// Lights returns the light-status records.
func (f Feed) Lights() []Record { return f.OfKind(KindLight) }

// Victims returns the names of all reported victims.
func (f Feed) Victims() []string {
	var out []string
	for _, r := range f.OfKind(KindVictim) {
		out = append(out, r.Name)
	}
	return out
}

// Validate checks that every record carries the fields its kind requires.
// It does not cross-check names between records; the solver does that when
// it builds its index sets.
func (f Feed) Validate() error {
	for i, r := range f {
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: record %d (%s): %v", ErrMalformedFeed, i, r, err)
		}
	}
	return nil
}

func (r Record) validate() error {
	need := func(field, v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("missing %s", field)
		}
		return nil
	}
	switch r.Kind {
	case KindVictim:
		return need("name", r.Name)
	case KindDNA:
		return errors.Join(need("name", r.Name), need("room", r.Room))
	case KindWitness:
		if err := errors.Join(need("name", r.Name), need("room", r.Room), need("time", r.Time)); err != nil {
			return err
		}
		if n, ok := r.Headcount(); ok && n < 0 {
			return fmt.Errorf("negative headcount %d", n)
		}
		for _, o := range r.Others {
			if o == r.Name {
				return fmt.Errorf("witness names themselves as company")
			}
		}
		return nil
	case KindLight:
		if err := errors.Join(need("room", r.Room), need("time", r.Time)); err != nil {
			return err
		}
		if r.Status != StatusOn && r.Status != StatusOff {
			return fmt.Errorf("status %q is not %q or %q", r.Status, StatusOn, StatusOff)
		}
		return nil
	}
	return fmt.Errorf("unknown clue kind %q", r.Kind)
}
