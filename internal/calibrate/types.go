// Package calibrate measures the solver against ground truth. It generates
// a batch of seeded cases, investigates and solves each one, and scores
// every proven conclusion against what really happened.
package calibrate

import (
	"time"

	"whodunit/internal/extract"
	"whodunit/internal/scenario"
)

// Config controls one calibration batch.
type Config struct {
	Runs     int    `json:"runs"`
	Parallel int    `json:"parallel"`
	Seed     uint64 `json:"seed"` // case i uses Seed+i

	Params   scenario.Params  `json:"params"`
	Accuracy extract.Accuracy `json:"accuracy"`

	MaxRounds   int  `json:"max_rounds"`
	DirectCount bool `json:"direct_count"`
}

// DefaultConfig returns a 50-case batch over the classic manor.
func DefaultConfig() Config {
	return Config{
		Runs:     50,
		Parallel: 4,
		Seed:     1,
		Params:   scenario.DefaultParams(),
		Accuracy: extract.DefaultAccuracy(),
	}
}

// CaseResult is the score of one solved case.
type CaseResult struct {
	Seed uint64 `json:"seed"`

	Statements int  `json:"statements"`
	Decided    int  `json:"decided"`
	Located    int  `json:"located"`
	Rounds     int  `json:"rounds"`
	Stable     bool `json:"stable"`

	// Contradiction is set when the solver aborted; nothing else is scored.
	Contradiction bool   `json:"contradiction,omitempty"`
	Error         string `json:"error,omitempty"`

	WrongLabels    int `json:"wrong_labels"`
	WrongLocations int `json:"wrong_locations"`

	Liars       int `json:"liars"`
	LiarsCaught int `json:"liars_caught"`

	// MurdererPlaced is set when the murderer is proven to be at the scene.
	MurdererPlaced bool `json:"murderer_placed"`
}

// Metric is one scored property of a batch.
type Metric struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Pass      bool    `json:"pass"`
	Detail    string  `json:"detail"` // e.g. "10/12"
}

// MetricSet holds all computed metrics for a calibration run.
type MetricSet struct {
	Soundness []Metric `json:"soundness"` // S1-S4
	Coverage  []Metric `json:"coverage"`  // C1-C3
}

// AllMetrics returns all metrics as a flat list.
func (ms *MetricSet) AllMetrics() []Metric {
	var all []Metric
	all = append(all, ms.Soundness...)
	all = append(all, ms.Coverage...)
	return all
}

// PassCount returns (passed, total).
func (ms *MetricSet) PassCount() (int, int) {
	all := ms.AllMetrics()
	passed := 0
	for _, m := range all {
		if m.Pass {
			passed++
		}
	}
	return passed, len(all)
}

// CalibrationReport is the outcome of a batch.
type CalibrationReport struct {
	Config      Config        `json:"config"`
	Metrics     MetricSet     `json:"metrics"`
	CaseResults []CaseResult  `json:"case_results"`
	Elapsed     time.Duration `json:"elapsed"`
}
