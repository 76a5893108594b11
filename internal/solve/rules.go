package solve

import (
	"log/slog"
)

// Finding is the kind of conclusion a rule reached.
type Finding int

const (
	FoundLying Finding = iota + 1
	FoundTruthful
	FoundLocated
	FoundRoomInvalid
	FoundRoomCleared
	FoundCount
)

func (f Finding) String() string {
	switch f {
	case FoundLying:
		return "lying"
	case FoundTruthful:
		return "truthful"
	case FoundLocated:
		return "located"
	case FoundRoomInvalid:
		return "room-invalid"
	case FoundRoomCleared:
		return "room-cleared"
	case FoundCount:
		return "count-proven"
	}
	return "unknown"
}

// Conclusion records one field moving from unknown to known, in the order
// the engine proved it. Round 0 is the inactivity pass.
type Conclusion struct {
	Round   int
	Finding Finding
	Person  int // None for room findings
	Room    int
	Time    int
	Count   int // FoundCount only
}

// run is the mutable state of one deduction over a fact store.
type run struct {
	f           *Facts
	log         *slog.Logger
	directCount bool

	round       int
	changes     int
	conclusions []Conclusion
}

func (r *run) note(c Conclusion) {
	c.Round = r.round
	r.changes++
	r.conclusions = append(r.conclusions, c)
}

// inactivity condemns every room with no occupancy signal: nobody could have
// truthfully been there.
func (r *run) inactivity() error {
	for i := range r.f.rooms {
		rf := &r.f.rooms[i]
		if rf.Active {
			continue
		}
		if err := r.condemn(rf); err != nil {
			return err
		}
	}
	return nil
}

// refine applies one round of the repeated rules.
func (r *run) refine() error {
	if err := r.realLocations(); err != nil {
		return err
	}
	if err := r.counts(); err != nil {
		return err
	}
	if r.directCount {
		return r.directCounts()
	}
	return nil
}

// realLocations retries the liars that are still unplaced and vouches for
// the undecided once no lit, uncleared room is left at their time. The
// claimed room counts too: a liar may hide anywhere unproven.
func (r *run) realLocations() error {
	for i := range r.f.persons {
		pf := &r.f.persons[i]
		switch pf.Lying {
		case True:
			if err := r.locate(pf); err != nil {
				return err
			}
		case Unknown:
			if len(r.candidates(pf.Time, None)) == 0 {
				if err := r.vouch(pf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// counts turns out-of-range headcounts into a proven population. For c
// claimants, c and c+1 are both consistent with everyone telling the truth
// and prove nothing.
func (r *run) counts() error {
	for i := range r.f.rooms {
		rf := &r.f.rooms[i]
		c := len(rf.Claimants)
		for _, n := range rf.ReportedCounts {
			if n == c || n == c+1 {
				continue
			}
			changed, err := markIndex(&rf.ProvenCount, n)
			if err != nil {
				return blame(err, r.f.describeRoom(rf), "provenCount")
			}
			if changed {
				r.note(Conclusion{Finding: FoundCount, Person: None, Room: rf.Room, Time: rf.Time, Count: n})
				r.log.Debug("headcount proven", "room", r.f.Rooms[rf.Room], "time", r.f.Times[rf.Time], "count", n, "claimants", c)
			}
			if err := r.clear(rf); err != nil {
				return err
			}
		}
	}
	for i := range r.f.persons {
		pf := &r.f.persons[i]
		if !pf.HasReportedCount() {
			continue
		}
		rf := r.f.room(pf.Claim, pf.Time)
		if rf.ProvenCount == None {
			continue
		}
		var err error
		if pf.ReportedCount == rf.ProvenCount {
			err = r.vouch(pf)
		} else {
			err = r.expose(pf)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// directCounts settles the silent claimants of a room with a proven count
// once the truthful ones already account for it, or once everyone still
// undecided is needed to reach it.
func (r *run) directCounts() error {
	for i := range r.f.rooms {
		rf := &r.f.rooms[i]
		if rf.ProvenCount == None {
			continue
		}
		truthful := 0
		var undecided []*PersonTimeFact
		for _, p := range rf.Claimants {
			pf := r.f.person(p, rf.Time)
			switch pf.Lying {
			case False:
				truthful++
			case Unknown:
				undecided = append(undecided, pf)
			}
		}
		if len(undecided) == 0 {
			continue
		}
		var settle func(*PersonTimeFact) error
		switch {
		case truthful == rf.ProvenCount:
			settle = r.expose
		case truthful+len(undecided) == rf.ProvenCount:
			settle = r.vouch
		default:
			continue
		}
		for _, pf := range undecided {
			if err := settle(pf); err != nil {
				return err
			}
		}
	}
	return nil
}

// candidates returns the rooms at time t where a liar could really have
// been: lit and not cleared. except drops one room, the claim of a proven
// liar; pass None to keep them all.
func (r *run) candidates(t, except int) []*RoomTimeFact {
	var out []*RoomTimeFact
	for _, i := range r.f.roomsByTime[t] {
		rf := &r.f.rooms[i]
		if rf.Active && !rf.Cleared() && rf.Room != except {
			out = append(out, rf)
		}
	}
	return out
}

// condemn marks the claims in a room invalid and, the first time, exposes
// every claimant.
func (r *run) condemn(rf *RoomTimeFact) error {
	changed, err := rf.InvalidClaims.Mark(true)
	if err != nil {
		return blame(err, r.f.describeRoom(rf), "invalidClaims")
	}
	if !changed {
		return nil
	}
	r.note(Conclusion{Finding: FoundRoomInvalid, Person: None, Room: rf.Room, Time: rf.Time})
	r.log.Debug("room unsafe or inactive", "room", r.f.Rooms[rf.Room], "time", r.f.Times[rf.Time], "active", rf.Active)
	for _, p := range rf.Claimants {
		if err := r.expose(r.f.person(p, rf.Time)); err != nil {
			return err
		}
	}
	return nil
}

// clear marks a room as holding only truthful claims.
func (r *run) clear(rf *RoomTimeFact) error {
	changed, err := rf.InvalidClaims.Mark(false)
	if err != nil {
		return blame(err, r.f.describeRoom(rf), "invalidClaims")
	}
	if changed {
		r.note(Conclusion{Finding: FoundRoomCleared, Person: None, Room: rf.Room, Time: rf.Time})
		r.log.Debug("room safe", "room", r.f.Rooms[rf.Room], "time", r.f.Times[rf.Time])
	}
	return nil
}

// expose marks a person as lying and tries to place them.
func (r *run) expose(pf *PersonTimeFact) error {
	changed, err := pf.Lying.Mark(true)
	if err != nil {
		return blame(err, r.f.describePerson(pf), "lying")
	}
	if !changed {
		return nil
	}
	r.note(Conclusion{Finding: FoundLying, Person: pf.Person, Room: pf.Claim, Time: pf.Time})
	r.log.Debug("was lying about whereabouts", "person", r.f.People[pf.Person], "time", r.f.Times[pf.Time])
	return r.locate(pf)
}

// locate places a liar when exactly one candidate room is left.
func (r *run) locate(pf *PersonTimeFact) error {
	if pf.Located() {
		return nil
	}
	cands := r.candidates(pf.Time, pf.Claim)
	if len(cands) != 1 {
		return nil
	}
	rf := cands[0]
	if err := r.setReal(pf, rf.Room); err != nil {
		return err
	}
	return r.condemn(rf)
}

// vouch marks a person truthful and walks their named companions
// breadth-first; a truthful witness only names people who were really there.
func (r *run) vouch(start *PersonTimeFact) error {
	queue := []*PersonTimeFact{start}
	for len(queue) > 0 {
		pf := queue[0]
		queue = queue[1:]

		changed, err := pf.Lying.Mark(false)
		if err != nil {
			return blame(err, r.f.describePerson(pf), "lying")
		}
		if !changed {
			continue
		}
		r.note(Conclusion{Finding: FoundTruthful, Person: pf.Person, Room: pf.Claim, Time: pf.Time})
		r.log.Debug("was truthful about whereabouts", "person", r.f.People[pf.Person], "time", r.f.Times[pf.Time])

		if err := r.setReal(pf, pf.Claim); err != nil {
			return err
		}
		for _, c := range pf.ClaimedWith {
			if cf := r.f.person(c, pf.Time); cf != nil {
				queue = append(queue, cf)
			}
		}
		if err := r.clear(r.f.room(pf.Claim, pf.Time)); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) setReal(pf *PersonTimeFact, room int) error {
	prev := pf.RealLocation
	changed, err := markIndex(&pf.RealLocation, room)
	if err != nil {
		return &ContradictionError{
			Fact:  r.f.describePerson(pf),
			Field: "realLocation",
			Have:  r.f.Rooms[prev],
			Want:  r.f.Rooms[room],
		}
	}
	if changed {
		r.note(Conclusion{Finding: FoundLocated, Person: pf.Person, Room: room, Time: pf.Time})
	}
	return nil
}
