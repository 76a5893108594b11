// Package scenario builds the ground truth of a case: who attended which
// event, which events were crimes, and what everybody claims. The plot is
// fully determined by its parameters and seed.
package scenario

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// ErrInvalidParams is returned when a plot cannot be built from the
// requested dimensions.
var ErrInvalidParams = errors.New("invalid scenario parameters")

// Crime is the kind of secret an event hides. The zero value is an
// ordinary gathering.
type Crime string

const (
	CrimeMurder Crime = "murder"
	CrimeTheft  Crime = "thief"
	CrimeAffair Crime = "affair"
)

// MaxTimes caps the number of hourly slots, from 12:00 onwards.
const MaxTimes = 12

// Params are the dimensions of a generated plot.
type Params struct {
	People int    `json:"people" yaml:"people"`
	Rooms  int    `json:"rooms" yaml:"rooms"`
	Times  int    `json:"times" yaml:"times"`
	Seed   uint64 `json:"seed" yaml:"seed"`
}

// DefaultParams returns the classic six guests, three rooms, five hours.
func DefaultParams() Params {
	return Params{People: 6, Rooms: 3, Times: 5, Seed: 1}
}

// Validate checks the dimensions before any randomness is drawn.
func (p Params) Validate() error {
	switch {
	case p.Rooms < 2 || p.Rooms > len(ClassicRooms):
		return fmt.Errorf("%w: rooms must be between 2 and %d, got %d", ErrInvalidParams, len(ClassicRooms), p.Rooms)
	case p.Times < 1 || p.Times > MaxTimes:
		return fmt.Errorf("%w: times must be between 1 and %d, got %d", ErrInvalidParams, MaxTimes, p.Times)
	case p.People < 3:
		return fmt.Errorf("%w: need at least 3 people, got %d", ErrInvalidParams, p.People)
	case p.People > len(firstNames)*len(lastNames):
		return fmt.Errorf("%w: at most %d people, got %d", ErrInvalidParams, len(firstNames)*len(lastNames), p.People)
	}
	return nil
}

// Person is one guest.
type Person struct {
	Name   string `json:"name" yaml:"name"`
	Alive  bool   `json:"alive" yaml:"alive"`
	Guilty bool   `json:"guilty,omitempty" yaml:"guilty,omitempty"`
}

// Event is what happened in one room at one time slot.
type Event struct {
	Room  string `json:"room" yaml:"room"`
	Time  string `json:"time" yaml:"time"`
	Crime Crime  `json:"crime,omitempty" yaml:"crime,omitempty"`
	// Attending are the people really there.
	Attending []string `json:"attending,omitempty" yaml:"attending,omitempty"`
	// Claiming are the people who will say they were there.
	Claiming []string `json:"claiming,omitempty" yaml:"claiming,omitempty"`
}

// Occupied reports whether anybody really attended.
func (e Event) Occupied() bool { return len(e.Attending) > 0 }

// Plot is the ground truth of one case.
type Plot struct {
	Params Params   `json:"params" yaml:"params"`
	People []Person `json:"people" yaml:"people"`
	Rooms  []string `json:"rooms" yaml:"rooms"`
	Times  []string `json:"times" yaml:"times"`
	// Events holds one event per (room, time), room-major.
	Events []Event `json:"events" yaml:"events"`
}

// Victim returns the murdered guest.
func (p *Plot) Victim() (Person, bool) {
	for _, x := range p.People {
		if !x.Alive {
			return x, true
		}
	}
	return Person{}, false
}

// Murderer returns the guilty guest.
func (p *Plot) Murderer() (Person, bool) {
	for _, x := range p.People {
		if x.Guilty {
			return x, true
		}
	}
	return Person{}, false
}

// Crimes returns the crime events in plot order.
func (p *Plot) Crimes() []Event {
	var out []Event
	for _, e := range p.Events {
		if e.Crime != "" {
			out = append(out, e)
		}
	}
	return out
}

// Where returns the room a person really was in at a time slot.
func (p *Plot) Where(name, time string) (string, bool) {
	for _, e := range p.Events {
		if e.Time == time && slices.Contains(e.Attending, name) {
			return e.Room, true
		}
	}
	return "", false
}

// Claimed returns the room a person says they were in at a time slot.
func (p *Plot) Claimed(name, time string) (string, bool) {
	for _, e := range p.Events {
		if e.Time == time && slices.Contains(e.Claiming, name) {
			return e.Room, true
		}
	}
	return "", false
}

// plotCrimes are planted after the murder, in order.
var plotCrimes = []struct {
	crime  Crime
	people int
	times  int
}{
	{CrimeTheft, 1, 3},
	{CrimeAffair, 2, 2},
}

// generator holds the working state; people are referred to by index.
type generator struct {
	rng    *rand.Rand
	people []Person
	times  []string
	events []*event
	// pools[t] are the people still free at time slot t, ascending.
	pools [][]int
}

type event struct {
	room, time int
	crime      Crime
	attending  []int
	claiming   []int
}

// Generate builds a plot: one murder, three thefts and two affairs planted
// among ordinary gatherings. Every living guest attends exactly one event per
// time slot; crime participants claim a different event at the same slot;
// the victim attends nothing from the murder on.
func Generate(p Params) (*Plot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := &generator{rng: rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))}

	for _, name := range g.names(p.People) {
		g.people = append(g.people, Person{Name: name, Alive: true})
	}
	rooms := g.sample(ClassicRooms, p.Rooms)
	for i := range p.Times {
		g.times = append(g.times, fmt.Sprintf("%d:00", 12+i))
	}
	g.pools = make([][]int, p.Times)
	for t := range g.pools {
		for i := range g.people {
			g.pools[t] = append(g.pools[t], i)
		}
	}
	for r := range rooms {
		for t := range g.times {
			g.events = append(g.events, &event{room: r, time: t})
		}
	}

	if err := g.murder(); err != nil {
		return nil, err
	}
	for _, c := range plotCrimes {
		for range c.times {
			if err := g.crime(c.crime, c.people); err != nil {
				return nil, err
			}
		}
	}
	g.distribute()

	plot := &Plot{Params: p, People: g.people, Rooms: rooms, Times: g.times}
	for _, e := range g.events {
		plot.Events = append(plot.Events, Event{
			Room:      rooms[e.room],
			Time:      g.times[e.time],
			Crime:     e.crime,
			Attending: g.nameList(e.attending),
			Claiming:  g.nameList(e.claiming),
		})
	}
	return plot, nil
}

func (g *generator) names(n int) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		name := firstNames[g.rng.IntN(len(firstNames))] + " " + lastNames[g.rng.IntN(len(lastNames))]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (g *generator) sample(from []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(from))[:n] {
		out = append(out, from[i])
	}
	return out
}

func (g *generator) nameList(idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.people[i].Name)
	}
	slices.Sort(out)
	return out
}

// freeEvent picks an ordinary event whose slot still has need free people
// and keeps another ordinary event open for everybody else.
func (g *generator) freeEvent(need int) (*event, error) {
	open := make([]int, len(g.times))
	for _, e := range g.events {
		if e.crime == "" {
			open[e.time]++
		}
	}
	var fit []*event
	for _, e := range g.events {
		if e.crime == "" && open[e.time] >= 2 && len(g.pools[e.time]) >= need {
			fit = append(fit, e)
		}
	}
	if len(fit) == 0 {
		return nil, fmt.Errorf("%w: no room left to plant a crime for %d people", ErrInvalidParams, need)
	}
	return fit[g.rng.IntN(len(fit))], nil
}

// take removes a random free person from the pool of slot t.
func (g *generator) take(t int) int {
	pool := g.pools[t]
	i := g.rng.IntN(len(pool))
	p := pool[i]
	g.pools[t] = slices.Delete(pool, i, i+1)
	return p
}

func (g *generator) release(t, person int) {
	if i, ok := slices.BinarySearch(g.pools[t], person); ok {
		g.pools[t] = slices.Delete(g.pools[t], i, i+1)
	}
}

// claimElsewhere records a lie: the person claims another event at the
// same time slot.
func (g *generator) claimElsewhere(e *event, person int) {
	var others []*event
	for _, x := range g.events {
		if x.time == e.time && x != e {
			others = append(others, x)
		}
	}
	c := others[g.rng.IntN(len(others))]
	c.claiming = append(c.claiming, person)
}

func (g *generator) murder() error {
	e, err := g.freeEvent(2)
	if err != nil {
		return err
	}
	e.crime = CrimeMurder
	murderer := g.take(e.time)
	victim := g.take(e.time)
	g.people[victim].Alive = false
	g.people[murderer].Guilty = true
	e.attending = append(e.attending, murderer, victim)
	g.claimElsewhere(e, murderer)
	for t := e.time + 1; t < len(g.times); t++ {
		g.release(t, victim)
	}
	return nil
}

func (g *generator) crime(c Crime, people int) error {
	e, err := g.freeEvent(people)
	if err != nil {
		return err
	}
	e.crime = c
	for range people {
		p := g.take(e.time)
		e.attending = append(e.attending, p)
		g.claimElsewhere(e, p)
	}
	return nil
}

// distribute sends everybody still free to an ordinary event at their slot,
// where they tell the truth about it.
func (g *generator) distribute() {
	for t := range g.times {
		var open []*event
		for _, e := range g.events {
			if e.time == t && e.crime == "" {
				open = append(open, e)
			}
		}
		for len(g.pools[t]) > 0 {
			e := open[g.rng.IntN(len(open))]
			p := g.take(t)
			e.attending = append(e.attending, p)
			e.claiming = append(e.claiming, p)
		}
	}
}

// CrimeRow is one line of the case solution: a living culprit at a crime.
type CrimeRow struct {
	Time   string `json:"time" yaml:"time"`
	Room   string `json:"room" yaml:"room"`
	Crime  Crime  `json:"crime" yaml:"crime"`
	Person string `json:"person" yaml:"person"`
}

// Solution lists every living participant of every crime, ordered by time,
// room and person.
func (p *Plot) Solution() []CrimeRow {
	alive := make(map[string]bool, len(p.People))
	for _, x := range p.People {
		alive[x.Name] = x.Alive
	}
	var rows []CrimeRow
	for _, e := range p.Crimes() {
		for _, name := range e.Attending {
			if alive[name] {
				rows = append(rows, CrimeRow{Time: e.Time, Room: e.Room, Crime: e.Crime, Person: name})
			}
		}
	}
	slices.SortFunc(rows, func(a, b CrimeRow) int {
		return cmp.Or(
			strings.Compare(a.Time, b.Time),
			strings.Compare(a.Room, b.Room),
			strings.Compare(a.Person, b.Person),
		)
	})
	return rows
}
