// Package store persists generated cases, their solutions and calibration
// runs, in SQLite or in memory.
package store

import (
	"whodunit/internal/clue"
	"whodunit/internal/scenario"
	"whodunit/internal/solve"
)

// DefaultDBPath is the default relative path for the SQLite DB.
// Open() creates the parent dir (e.g. .whodunit).
const DefaultDBPath = ".whodunit/whodunit.db"

// Case is one stored clue feed. Truth is set only for generated cases.
type Case struct {
	ID        int64
	Name      string
	Seed      uint64
	Feed      clue.Feed
	Truth     *scenario.Plot
	CreatedAt string
}

// Solution is the outcome of one solver run over a case.
type Solution struct {
	ID         int64
	CaseID     int64
	Rounds     int
	Stable     bool
	Statements int
	Truthful   int
	Lying      int
	Unknown    int
	Located    int
	// Grid is the rendered result grid.
	Grid string
	// Contradiction is the error text when the run aborted.
	Contradiction string
	CreatedAt     string
}

// SolutionOf tallies a completed deduction for storage.
func SolutionOf(caseID int64, res *solve.Result, grid string) *Solution {
	sum := res.Summary()
	return &Solution{
		CaseID:     caseID,
		Rounds:     res.Rounds,
		Stable:     res.Stable,
		Statements: sum.Statements,
		Truthful:   sum.Truthful,
		Lying:      sum.Lying,
		Unknown:    sum.Unknown,
		Located:    sum.Located,
		Grid:       grid,
	}
}

// CalibrationRun is the summary of one calibration batch.
type CalibrationRun struct {
	ID        int64
	Runs      int
	Seed      uint64
	Passed    int
	Total     int
	Report    string // rendered report
	CreatedAt string
}

// Store is the persistence facade. Getters return (nil, nil) when the
// record does not exist.
type Store interface {
	SaveCase(c *Case) (int64, error)
	GetCase(id int64) (*Case, error)
	ListCases() ([]*Case, error)

	SaveSolution(s *Solution) (int64, error)
	ListSolutions(caseID int64) ([]*Solution, error)

	SaveCalibration(r *CalibrationRun) (int64, error)
	ListCalibrations() ([]*CalibrationRun, error)

	Close() error
}
