package calibrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whodunit/internal/extract"
	"whodunit/internal/logging"
	"whodunit/internal/scenario"
	"whodunit/internal/solve"

	"golang.org/x/sync/errgroup"
)

// Run generates, investigates, solves and scores cfg.Runs cases on up to
// cfg.Parallel workers. Results are ordered by seed regardless of
// scheduling. A contradiction is scored, not returned; any other failure
// aborts the batch.
func Run(ctx context.Context, cfg Config) (*CalibrationReport, error) {
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("calibrate: runs must be positive, got %d", cfg.Runs)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	logger := logging.New("calibrate")
	logger.Info("calibration started", "runs", cfg.Runs, "parallel", cfg.Parallel, "seed", cfg.Seed)

	engine := solve.NewEngine(
		solve.WithMaxRounds(cfg.MaxRounds),
		solve.WithDirectCount(cfg.DirectCount),
		solve.WithLogger(logging.Discard()),
	)

	start := time.Now()
	results := make([]CaseResult, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i := range cfg.Runs {
		seed := cfg.Seed + uint64(i)
		g.Go(func() error {
			cr, err := runCase(gctx, engine, cfg, seed)
			if err != nil {
				return fmt.Errorf("case seed %d: %w", seed, err)
			}
			results[i] = cr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CalibrationReport{
		Config:      cfg,
		Metrics:     computeMetrics(results),
		CaseResults: results,
		Elapsed:     time.Since(start),
	}
	passed, total := report.Metrics.PassCount()
	logger.Info("calibration finished", "passed", passed, "total", total, "elapsed", report.Elapsed)
	return report, nil
}

func runCase(ctx context.Context, engine *solve.Engine, cfg Config, seed uint64) (CaseResult, error) {
	cr := CaseResult{Seed: seed}
	params := cfg.Params
	params.Seed = seed
	plot, err := scenario.Generate(params)
	if err != nil {
		return cr, err
	}
	feed := extract.New(cfg.Accuracy, seed).WithLogger(logging.Discard()).Investigate(plot)

	res, err := engine.Solve(ctx, feed)
	if errors.Is(err, solve.ErrContradiction) {
		cr.Contradiction = true
		cr.Error = err.Error()
		return cr, nil
	}
	if err != nil {
		return cr, err
	}
	score(&cr, plot, res)
	return cr, nil
}

// score compares every person fact with the plot.
func score(cr *CaseResult, plot *scenario.Plot, res *solve.Result) {
	f := res.Facts
	cr.Rounds = res.Rounds
	cr.Stable = res.Stable

	murderer, _ := plot.Murderer()
	var scene scenario.Event
	for _, e := range plot.Crimes() {
		if e.Crime == scenario.CrimeMurder {
			scene = e
		}
	}

	for _, pf := range f.PersonFacts() {
		name, slot := f.People[pf.Person], f.Times[pf.Time]
		where, _ := plot.Where(name, slot)
		lied := f.Rooms[pf.Claim] != where

		cr.Statements++
		if lied {
			cr.Liars++
		}
		if pf.Lying.Known() {
			cr.Decided++
			if (pf.Lying == solve.True) != lied {
				cr.WrongLabels++
			}
			if lied && pf.Lying == solve.True {
				cr.LiarsCaught++
			}
		}
		if pf.Located() {
			cr.Located++
			room := f.Rooms[pf.RealLocation]
			if room != where {
				cr.WrongLocations++
			}
			if name == murderer.Name && slot == scene.Time && room == scene.Room {
				cr.MurdererPlaced = true
			}
		}
	}
}
