package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"whodunit/internal/calibrate"
	"whodunit/internal/format"
	"whodunit/internal/store"
)

var calibrateFlags struct {
	runs     int
	parallel int
	seed     uint64
	format   string
	save     bool
}

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Score the solver against generated ground truth",
		Long: `Calibrate generates, investigates and solves a batch of seeded cases
and scores the conclusions against the plots they came from. Soundness
metrics (S1-S4) must be perfect; coverage metrics (C1-C3) report how much
the rules could prove. A failed soundness metric is an error.`,
		RunE: runCalibrate,
	}
	f := cmd.Flags()
	f.IntVar(&calibrateFlags.runs, "runs", 50, "Number of cases")
	f.IntVar(&calibrateFlags.parallel, "parallel", 4, "Number of parallel workers")
	f.Uint64Var(&calibrateFlags.seed, "seed", 1, "Seed of the first case; case i uses seed+i")
	f.StringVar(&calibrateFlags.format, "format", "ascii", "Output format: ascii or markdown")
	f.BoolVar(&calibrateFlags.save, "save", false, "Save the run summary to the store")
	return cmd
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(calibrateFlags.format)
	if err != nil {
		return err
	}

	cfg := calibrate.DefaultConfig()
	cfg.Runs = calibrateFlags.runs
	cfg.Parallel = calibrateFlags.parallel
	cfg.Seed = calibrateFlags.seed
	cfg.Params = resolved.Generator
	cfg.Accuracy = resolved.Accuracy
	cfg.MaxRounds, err = resolved.Rounds()
	if err != nil {
		return err
	}
	cfg.DirectCount, err = resolved.DirectCountEnabled()
	if err != nil {
		return err
	}

	rep, err := calibrate.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	text := calibrate.FormatReport(rep, mode)
	fmt.Fprintln(cmd.OutOrStdout(), text)

	passed, total := rep.Metrics.PassCount()
	if calibrateFlags.save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveCalibration(&store.CalibrationRun{
			Runs: cfg.Runs, Seed: cfg.Seed, Passed: passed, Total: total, Report: text,
		})
		if err != nil {
			return fmt.Errorf("save calibration: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved calibration run #%d\n", id)
	}

	var failed []string
	for _, m := range rep.Metrics.Soundness {
		if !m.Pass {
			failed = append(failed, fmt.Sprintf("%s %s (%s)", m.ID, m.Name, m.Detail))
		}
	}
	if len(failed) > 0 {
		return errors.New("soundness failed: " + strings.Join(failed, ", "))
	}
	return nil
}
