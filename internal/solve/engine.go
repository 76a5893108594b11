// Package solve reconstructs who was really where from a clue feed alone.
//
// The fact store holds one PersonTimeFact per witness statement and one
// RoomTimeFact per light record. Deduction only ever moves tri-state labels
// from unknown to true or false and fills write-once fields; proving the
// opposite of something already proven aborts the run with a
// *ContradictionError.
//
// A run is one inactivity pass followed by refinement rounds (real-location,
// headcount, and optionally direct-count rules) until a round changes
// nothing or the round cap is hit.
package solve

import (
	"context"
	"fmt"
	"log/slog"

	"whodunit/internal/clue"
	"whodunit/internal/logging"
)

// DefaultMaxRounds caps the refinement loop. Propagation depth in practice
// stays well below it.
const DefaultMaxRounds = 20

// Engine runs deductions. It holds configuration only and is safe to reuse.
type Engine struct {
	maxRounds   int
	directCount bool
	log         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxRounds sets the refinement round cap. Values below 1 are ignored.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRounds = n
		}
	}
}

// WithDirectCount enables the direct-count rule.
func WithDirectCount(on bool) Option {
	return func(e *Engine) { e.directCount = on }
}

// WithLogger sets the logger used for rule conclusions and round summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns an engine with DefaultMaxRounds and the direct-count rule off.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxRounds: DefaultMaxRounds, log: logging.New("solve")}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Result is the outcome of a completed deduction.
type Result struct {
	Facts *Facts
	// Rounds is the number of refinement rounds run, including the final
	// round that changed nothing when Stable.
	Rounds int
	// Stable is false when the round cap was hit while fields were still changing.
	Stable bool
	// Changes counts every field that moved from unknown to known.
	Changes int
	// Conclusions lists those changes in proof order.
	Conclusions []Conclusion
}

// Solve builds the fact store from feed and runs deduction on it.
func (e *Engine) Solve(ctx context.Context, feed clue.Feed) (*Result, error) {
	f, err := Build(feed)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, f)
}

// Run deduces over f in place. The context is checked between rounds only.
func (e *Engine) Run(ctx context.Context, f *Facts) (*Result, error) {
	r := e.newRun(f)
	if err := r.inactivity(); err != nil {
		return nil, fmt.Errorf("inactivity pass: %w", err)
	}

	res := &Result{Facts: f}
	for res.Rounds < e.maxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Rounds++
		r.round = res.Rounds
		before := r.changes
		if err := r.refine(); err != nil {
			return nil, fmt.Errorf("round %d: %w", res.Rounds, err)
		}
		e.log.Debug("round finished", "round", res.Rounds, "changes", r.changes-before)
		if r.changes == before {
			res.Stable = true
			break
		}
	}
	if !res.Stable {
		e.log.Warn("round cap reached before the fact store stabilized",
			"max_rounds", e.maxRounds, "changes", r.changes)
	}

	res.Changes = r.changes
	res.Conclusions = r.conclusions
	s := res.Summary()
	e.log.Info("deduction finished",
		"rounds", res.Rounds, "stable", res.Stable,
		"truthful", s.Truthful, "lying", s.Lying, "unknown", s.Unknown, "located", s.Located)
	return res, nil
}

// Step applies a single refinement round to f and returns how many fields
// it changed. Zero means f is stable.
func (e *Engine) Step(f *Facts) (int, error) {
	r := e.newRun(f)
	if err := r.refine(); err != nil {
		return r.changes, err
	}
	return r.changes, nil
}

func (e *Engine) newRun(f *Facts) *run {
	return &run{f: f, log: e.log, directCount: e.directCount}
}

// Summary counts person facts by what is known about them.
type Summary struct {
	Statements int
	Truthful   int
	Lying      int
	Unknown    int
	Located    int
}

// Summary tallies the person facts of the result.
func (r *Result) Summary() Summary {
	var s Summary
	for i := range r.Facts.persons {
		pf := &r.Facts.persons[i]
		s.Statements++
		switch pf.Lying {
		case True:
			s.Lying++
		case False:
			s.Truthful++
		default:
			s.Unknown++
		}
		if pf.Located() {
			s.Located++
		}
	}
	return s
}
