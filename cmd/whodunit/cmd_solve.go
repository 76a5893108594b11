package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"whodunit/internal/format"
	"whodunit/internal/logging"
	"whodunit/internal/solve"
	"whodunit/internal/store"
)

var solveFlags struct {
	src         caseSource
	format      string
	maxRounds   int
	directCount bool
	explain     bool
	save        bool
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Deduce who lied and where they really were",
		Long: `Solve runs the inactivity rule once, then the real-location and
headcount rules until nothing changes or the round cap is reached, and
prints the result grid. Contradictory evidence aborts with an error.`,
		RunE: runSolve,
	}
	f := cmd.Flags()
	f.StringVarP(&solveFlags.src.file, "file", "f", "", "Clue feed file (JSON or YAML)")
	f.Int64Var(&solveFlags.src.caseID, "case-id", 0, "Stored case ID")
	f.StringVar(&solveFlags.src.fixture, "fixture", "", "Built-in fixture name")
	f.StringVar(&solveFlags.format, "format", "ascii", "Output format: ascii or markdown")
	f.IntVar(&solveFlags.maxRounds, "max-rounds", solve.DefaultMaxRounds, "Refinement round cap")
	f.BoolVar(&solveFlags.directCount, "direct-count", false, "Enable the direct-count rule")
	f.BoolVar(&solveFlags.explain, "explain", false, "List every conclusion in proof order")
	f.BoolVar(&solveFlags.save, "save", false, "Save the case (if new) and the solution to the store")
	return cmd
}

func runSolve(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(solveFlags.format)
	if err != nil {
		return err
	}

	var st store.Store
	if solveFlags.save || solveFlags.src.needsStore() {
		sq, err := openStore()
		if err != nil {
			return err
		}
		defer sq.Close()
		st = sq
	}
	c, err := solveFlags.src.load(st)
	if err != nil {
		return err
	}

	opts := resolved.SolverOptions()
	if cmd.Flags().Changed("direct-count") {
		opts = append(opts, solve.WithDirectCount(solveFlags.directCount))
	}
	opts = append(opts, solve.WithLogger(logging.New("solve").With("case", c.Name)))

	res, solveErr := solve.NewEngine(opts...).Solve(cmd.Context(), c.Feed)
	if solveErr != nil && !errors.Is(solveErr, solve.ErrContradiction) {
		return solveErr
	}

	var grid string
	if res != nil {
		grid = format.Grid(res.Grid(), mode)
	}
	if solveFlags.save {
		if err := saveSolution(cmd, st, c, res, grid, solveErr); err != nil {
			return err
		}
	}
	if solveErr != nil {
		return fmt.Errorf("case %s: %w", c.Name, solveErr)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, grid)
	if solveFlags.explain {
		fmt.Fprintln(out, format.Conclusions(res, mode))
	}
	fmt.Fprintln(out, format.Summary(res))
	return nil
}

func saveSolution(cmd *cobra.Command, st store.Store, c *store.Case, res *solve.Result, grid string, solveErr error) error {
	if c.ID == 0 {
		id, err := st.SaveCase(c)
		if err != nil {
			return fmt.Errorf("save case: %w", err)
		}
		c.ID = id
	}
	sol := &store.Solution{CaseID: c.ID}
	if solveErr != nil {
		sol.Contradiction = solveErr.Error()
	} else {
		sol = store.SolutionOf(c.ID, res, grid)
	}
	id, err := st.SaveSolution(sol)
	if err != nil {
		return fmt.Errorf("save solution: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved solution #%d for case #%d\n", id, c.ID)
	return nil
}
