package solve

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"whodunit/internal/clue"
)

// ErrMalformedFeed is returned by Build when the feed references a name,
// room or time slot it never introduces, or violates a structural
// precondition. The whole feed is rejected; nothing is deduced.
var ErrMalformedFeed = errors.New("malformed clue feed")

// None marks an optional index or count that has not been set.
const None = -1

// PersonTimeFact is what is known about one person at one time slot.
// There is exactly one per witness statement.
type PersonTimeFact struct {
	Person int
	Time   int
	// Claim is the room the person says they were in.
	Claim int
	// ClaimedWith are the people the statement names as co-present.
	ClaimedWith []int
	// ReportedCount is the volunteered headcount, or None.
	ReportedCount int
	// Lying is whether Claim is false.
	Lying Tri
	// RealLocation is the proven room, or None.
	RealLocation int
}

// HasReportedCount reports whether the person volunteered a headcount.
func (p PersonTimeFact) HasReportedCount() bool { return p.ReportedCount != None }

// Located reports whether the person's real location is proven.
func (p PersonTimeFact) Located() bool { return p.RealLocation != None }

// RoomTimeFact is what is known about one room at one time slot.
// There is exactly one per light record.
type RoomTimeFact struct {
	Room int
	Time int
	// Active is the observed light status. Never revised.
	Active bool
	// InvalidClaims is whether claims placing people here must be false.
	InvalidClaims Tri
	// Claimants are the people whose statement names this room at this time.
	Claimants []int
	// ReportedCounts are the distinct headcounts volunteered by claimants, ascending.
	ReportedCounts []int
	// ProvenCount is the population revealed by a count contradiction, or None.
	ProvenCount int
}

// Cleared reports whether the room is proven to hold only truthful claims.
func (r RoomTimeFact) Cleared() bool { return r.InvalidClaims == False }

type slot struct{ who, time int }

// Facts is the fact store: two arenas of structs keyed by integer indices into
// the canonical People, Rooms and Times sequences.
type Facts struct {
	People  []string
	Rooms   []string
	Times   []string
	Victims []int

	persons []PersonTimeFact
	rooms   []RoomTimeFact

	personAt map[slot]int
	roomAt   map[slot]int
	// roomsByTime[t] indexes the room facts at time t, ascending by room.
	roomsByTime [][]int
}

// Build constructs the fact store from a feed. Index sets are sorted by
// case-folded label (ties broken by the raw label) and deduplicated:
// people from witness, victim and dna records; rooms and time slots from
// witness and light records.
func Build(feed clue.Feed) (*Facts, error) {
	if err := feed.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	var people, rooms, times []string
	for _, r := range feed {
		switch r.Kind {
		case clue.KindWitness:
			people = append(people, r.Name)
			rooms = append(rooms, r.Room)
			times = append(times, r.Time)
		case clue.KindVictim, clue.KindDNA:
			people = append(people, r.Name)
		case clue.KindLight:
			rooms = append(rooms, r.Room)
			times = append(times, r.Time)
		}
	}

	f := &Facts{
		People:   canonical(people),
		Rooms:    canonical(rooms),
		Times:    canonical(times),
		personAt: make(map[slot]int),
		roomAt:   make(map[slot]int),
	}
	personIdx := indexOf(f.People)
	roomIdx := indexOf(f.Rooms)
	timeIdx := indexOf(f.Times)

	for _, r := range feed {
		switch r.Kind {
		case clue.KindVictim:
			f.Victims = append(f.Victims, personIdx[r.Name])
		case clue.KindDNA:
			if _, ok := roomIdx[r.Room]; !ok {
				return nil, fmt.Errorf("%w: %s names unknown room %q", ErrMalformedFeed, r, r.Room)
			}
		case clue.KindLight:
			key := slot{roomIdx[r.Room], timeIdx[r.Time]}
			if _, dup := f.roomAt[key]; dup {
				return nil, fmt.Errorf("%w: duplicate %s", ErrMalformedFeed, r)
			}
			f.roomAt[key] = len(f.rooms)
			f.rooms = append(f.rooms, RoomTimeFact{
				Room:        key.who,
				Time:        key.time,
				Active:      r.Active(),
				ProvenCount: None,
			})
		}
	}
	slices.Sort(f.Victims)
	f.Victims = slices.Compact(f.Victims)

	for _, r := range feed.Witnesses() {
		p, t, room := personIdx[r.Name], timeIdx[r.Time], roomIdx[r.Room]
		key := slot{p, t}
		if _, dup := f.personAt[key]; dup {
			return nil, fmt.Errorf("%w: second statement by %q at %s", ErrMalformedFeed, r.Name, r.Time)
		}
		if _, ok := f.roomAt[slot{room, t}]; !ok {
			return nil, fmt.Errorf("%w: %s claims a room with no light record", ErrMalformedFeed, r)
		}
		pf := PersonTimeFact{
			Person:        p,
			Time:          t,
			Claim:         room,
			ReportedCount: None,
			RealLocation:  None,
		}
		for _, o := range r.Others {
			oi, ok := personIdx[o]
			if !ok {
				return nil, fmt.Errorf("%w: %s names unknown person %q", ErrMalformedFeed, r, o)
			}
			pf.ClaimedWith = append(pf.ClaimedWith, oi)
		}
		slices.Sort(pf.ClaimedWith)
		pf.ClaimedWith = slices.Compact(pf.ClaimedWith)
		if n, ok := r.Headcount(); ok {
			pf.ReportedCount = n
		}
		f.personAt[key] = len(f.persons)
		f.persons = append(f.persons, pf)
	}

	f.sortArenas()
	if err := f.deriveClaimants(); err != nil {
		return nil, err
	}
	return f, nil
}

// sortArenas orders both arenas by (time, index) so that iteration order is
// independent of feed order, and rebuilds the lookup maps.
func (f *Facts) sortArenas() {
	sort.Slice(f.persons, func(i, j int) bool {
		a, b := f.persons[i], f.persons[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Person < b.Person
	})
	sort.Slice(f.rooms, func(i, j int) bool {
		a, b := f.rooms[i], f.rooms[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Room < b.Room
	})
	clear(f.personAt)
	for i, pf := range f.persons {
		f.personAt[slot{pf.Person, pf.Time}] = i
	}
	clear(f.roomAt)
	f.roomsByTime = make([][]int, len(f.Times))
	for i, rf := range f.rooms {
		f.roomAt[slot{rf.Room, rf.Time}] = i
		f.roomsByTime[rf.Time] = append(f.roomsByTime[rf.Time], i)
	}
}

// deriveClaimants fills the inverse index from claims to rooms in one scan.
func (f *Facts) deriveClaimants() error {
	for _, pf := range f.persons {
		rf := f.room(pf.Claim, pf.Time)
		rf.Claimants = append(rf.Claimants, pf.Person)
		if pf.HasReportedCount() && !slices.Contains(rf.ReportedCounts, pf.ReportedCount) {
			rf.ReportedCounts = append(rf.ReportedCounts, pf.ReportedCount)
		}
	}
	for i := range f.rooms {
		rf := &f.rooms[i]
		slices.Sort(rf.ReportedCounts)
		if len(rf.ReportedCounts) > 2 {
			return fmt.Errorf("%w: %s at %s has %d distinct reported headcounts %v",
				ErrMalformedFeed, f.Rooms[rf.Room], f.Times[rf.Time], len(rf.ReportedCounts), rf.ReportedCounts)
		}
	}
	return nil
}

func (f *Facts) person(p, t int) *PersonTimeFact {
	i, ok := f.personAt[slot{p, t}]
	if !ok {
		return nil
	}
	return &f.persons[i]
}

func (f *Facts) room(r, t int) *RoomTimeFact {
	i, ok := f.roomAt[slot{r, t}]
	if !ok {
		return nil
	}
	return &f.rooms[i]
}

// PersonFact returns a copy of the fact for person p at time t.
func (f *Facts) PersonFact(p, t int) (PersonTimeFact, bool) {
	pf := f.person(p, t)
	if pf == nil {
		return PersonTimeFact{}, false
	}
	return *pf, true
}

// RoomFact returns a copy of the fact for room r at time t.
func (f *Facts) RoomFact(r, t int) (RoomTimeFact, bool) {
	rf := f.room(r, t)
	if rf == nil {
		return RoomTimeFact{}, false
	}
	return *rf, true
}

// PersonFacts returns all person facts ordered by (time, person).
func (f *Facts) PersonFacts() []PersonTimeFact { return slices.Clone(f.persons) }

// RoomFacts returns all room facts ordered by (time, room).
func (f *Facts) RoomFacts() []RoomTimeFact { return slices.Clone(f.rooms) }

// PersonIndex returns the canonical index of a person name.
func (f *Facts) PersonIndex(name string) (int, bool) { return lookup(f.People, name) }

// RoomIndex returns the canonical index of a room name.
func (f *Facts) RoomIndex(name string) (int, bool) { return lookup(f.Rooms, name) }

// TimeIndex returns the canonical index of a time label.
func (f *Facts) TimeIndex(label string) (int, bool) { return lookup(f.Times, label) }

// Clone returns a deep copy. Deduction on the copy leaves f untouched.
func (f *Facts) Clone() *Facts {
	cp := &Facts{
		People:      f.People,
		Rooms:       f.Rooms,
		Times:       f.Times,
		Victims:     slices.Clone(f.Victims),
		persons:     make([]PersonTimeFact, len(f.persons)),
		rooms:       make([]RoomTimeFact, len(f.rooms)),
		personAt:    f.personAt,
		roomAt:      f.roomAt,
		roomsByTime: f.roomsByTime,
	}
	for i, pf := range f.persons {
		pf.ClaimedWith = slices.Clone(pf.ClaimedWith)
		cp.persons[i] = pf
	}
	for i, rf := range f.rooms {
		rf.Claimants = slices.Clone(rf.Claimants)
		rf.ReportedCounts = slices.Clone(rf.ReportedCounts)
		cp.rooms[i] = rf
	}
	return cp
}

func (f *Facts) describePerson(pf *PersonTimeFact) string {
	return fmt.Sprintf("person %s at %s", f.People[pf.Person], f.Times[pf.Time])
}

func (f *Facts) describeRoom(rf *RoomTimeFact) string {
	return fmt.Sprintf("room %s at %s", f.Rooms[rf.Room], f.Times[rf.Time])
}

// canonical sorts and deduplicates labels by case-folded order.
func canonical(labels []string) []string {
	out := slices.Clone(labels)
	sort.Slice(out, func(i, j int) bool { return labelLess(out[i], out[j]) })
	return slices.Compact(out)
}

func labelLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

func lookup(labels []string, label string) (int, bool) {
	i, ok := slices.BinarySearchFunc(labels, label, func(e, target string) int {
		switch {
		case e == target:
			return 0
		case labelLess(e, target):
			return -1
		}
		return 1
	})
	return i, ok
}
