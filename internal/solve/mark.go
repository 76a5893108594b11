package solve

import (
	"errors"
	"fmt"
)

// Tri is a monotonic tri-state label: Unknown may become True or False,
// and nothing else ever changes.
type Tri int8

const (
	Unknown Tri = iota
	True
	False
)

// TriOf converts a boolean to a known Tri.
func TriOf(v bool) Tri {
	if v {
		return True
	}
	return False
}

// Known reports whether the label has been decided.
func (t Tri) Known() bool { return t != Unknown }

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unknown"
}

// ErrContradiction matches every *ContradictionError via errors.Is.
var ErrContradiction = errors.New("logical contradiction in evidence")

// ContradictionError reports that deduction proved both values of one field.
// It means the evidence itself is inconsistent and the run is aborted.
type ContradictionError struct {
	Fact  string // e.g. "person Tom Hale at 13:00"
	Field string // e.g. "lying"
	Have  string // value already recorded
	Want  string // value the rule tried to record
}

func (e *ContradictionError) Error() string {
	if e.Fact == "" {
		return fmt.Sprintf("contradiction: field already %s, cannot set %s", e.Have, e.Want)
	}
	return fmt.Sprintf("contradiction: %s: %s is already %s, cannot set %s", e.Fact, e.Field, e.Have, e.Want)
}

func (e *ContradictionError) Is(target error) bool { return target == ErrContradiction }

// Mark sets an unknown label to v and reports true. Setting it to the value
// it already holds is a no-op. Setting it to the opposite value returns a
// *ContradictionError and leaves the label untouched.
func (t *Tri) Mark(v bool) (bool, error) {
	want := TriOf(v)
	switch *t {
	case Unknown:
		*t = want
		return true, nil
	case want:
		return false, nil
	}
	return false, &ContradictionError{Have: t.String(), Want: want.String()}
}

// markIndex is Mark for write-once integer fields that use None for unset.
func markIndex(field *int, v int) (bool, error) {
	switch *field {
	case None:
		*field = v
		return true, nil
	case v:
		return false, nil
	}
	return false, &ContradictionError{Have: fmt.Sprint(*field), Want: fmt.Sprint(v)}
}

// blame fills in which fact and field a contradiction was found on.
func blame(err error, fact, field string) error {
	var ce *ContradictionError
	if errors.As(err, &ce) {
		ce.Fact = fact
		ce.Field = field
	}
	return err
}
