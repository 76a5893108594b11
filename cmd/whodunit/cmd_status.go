package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whodunit/internal/format"
	"whodunit/internal/store"
)

var statusFlags struct {
	caseID       int64
	calibrations bool
	format       string
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List stored cases, or show one case and its solutions",
		RunE:  runStatus,
	}
	f := cmd.Flags()
	f.Int64Var(&statusFlags.caseID, "case-id", 0, "Show this case and its solutions")
	f.BoolVar(&statusFlags.calibrations, "calibrations", false, "List calibration runs instead of cases")
	f.StringVar(&statusFlags.format, "format", "ascii", "Output format: ascii or markdown")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(statusFlags.format)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	switch {
	case statusFlags.calibrations:
		return listCalibrations(cmd, st, mode)
	case statusFlags.caseID != 0:
		return showCase(cmd, st, statusFlags.caseID, mode)
	}
	return listCases(cmd, st, mode)
}

func listCases(cmd *cobra.Command, st store.Store, mode format.Mode) error {
	cases, err := st.ListCases()
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(cases) == 0 {
		fmt.Fprintln(out, "No stored cases. Run 'whodunit generate --save' or 'whodunit solve --save'.")
		return nil
	}
	tb := format.NewTable(mode)
	tb.Header("ID", "Name", "Seed", "Solutions", "Created")
	for _, c := range cases {
		sols, err := st.ListSolutions(c.ID)
		if err != nil {
			return fmt.Errorf("list solutions: %w", err)
		}
		seed := "-"
		if c.Seed != 0 {
			seed = fmt.Sprint(c.Seed)
		}
		tb.Row(c.ID, c.Name, seed, len(sols), c.CreatedAt)
	}
	tb.Columns(format.ColumnConfig{Number: 1, Align: format.AlignRight})
	fmt.Fprintln(out, tb.String())
	return nil
}

func showCase(cmd *cobra.Command, st store.Store, id int64, mode format.Mode) error {
	c, err := st.GetCase(id)
	if err != nil {
		return fmt.Errorf("load case %d: %w", id, err)
	}
	if c == nil {
		return fmt.Errorf("case #%d not found", id)
	}
	sols, err := st.ListSolutions(id)
	if err != nil {
		return fmt.Errorf("list solutions: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Case:    #%d %s\n", c.ID, c.Name)
	fmt.Fprintf(out, "Records: %d (%d statements)\n", len(c.Feed), len(c.Feed.Witnesses()))
	fmt.Fprintf(out, "Truth:   %s\n", format.BoolMark(c.Truth != nil))
	fmt.Fprintf(out, "Created: %s\n", c.CreatedAt)
	if len(sols) == 0 {
		fmt.Fprintf(out, "No solutions. Run 'whodunit solve --case-id %d --save'.\n", id)
		return nil
	}

	tb := format.NewTable(mode)
	tb.Title("Solutions")
	tb.Header("ID", "Rounds", "Stable", "Truthful", "Lying", "Unknown", "Located", "Outcome")
	for _, s := range sols {
		outcome := "solved"
		if s.Contradiction != "" {
			outcome = format.Truncate(s.Contradiction, 60)
		}
		tb.Row(s.ID, s.Rounds, format.BoolMark(s.Stable), s.Truthful, s.Lying, s.Unknown, s.Located, outcome)
	}
	fmt.Fprintln(out, tb.String())
	if last := sols[len(sols)-1]; last.Grid != "" {
		fmt.Fprintln(out, last.Grid)
	}
	return nil
}

func listCalibrations(cmd *cobra.Command, st store.Store, mode format.Mode) error {
	runs, err := st.ListCalibrations()
	if err != nil {
		return fmt.Errorf("list calibrations: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No calibration runs. Run 'whodunit calibrate --save'.")
		return nil
	}
	tb := format.NewTable(mode)
	tb.Header("ID", "Runs", "Seed", "Passed", "Created")
	for _, r := range runs {
		tb.Row(r.ID, r.Runs, r.Seed, fmt.Sprintf("%d/%d", r.Passed, r.Total), r.CreatedAt)
	}
	fmt.Fprintln(out, tb.String())
	return nil
}
