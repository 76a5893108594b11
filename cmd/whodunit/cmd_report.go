package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whodunit/internal/format"
	"whodunit/internal/report"
	"whodunit/internal/store"
)

var reportFlags struct {
	src    caseSource
	truth  string
	reveal bool
	format string
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the case file, and optionally the solution",
		RunE:  runReport,
	}
	f := cmd.Flags()
	f.StringVarP(&reportFlags.src.file, "file", "f", "", "Clue feed file (JSON or YAML)")
	f.Int64Var(&reportFlags.src.caseID, "case-id", 0, "Stored case ID")
	f.StringVar(&reportFlags.src.fixture, "fixture", "", "Built-in fixture name")
	f.StringVar(&reportFlags.truth, "truth", "", "Ground truth file written by generate --truth")
	f.BoolVar(&reportFlags.reveal, "reveal", false, "Append the solution of a stored generated case")
	f.StringVar(&reportFlags.format, "format", "ascii", "Output format: ascii or markdown")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(reportFlags.format)
	if err != nil {
		return err
	}
	var st store.Store
	if reportFlags.src.needsStore() {
		sq, err := openStore()
		if err != nil {
			return err
		}
		defer sq.Close()
		st = sq
	}
	c, err := reportFlags.src.load(st)
	if err != nil {
		return err
	}

	sections := report.CaseFile(c.Feed)
	switch {
	case reportFlags.truth != "":
		plot, err := readTruth(reportFlags.truth)
		if err != nil {
			return err
		}
		sections = append(sections, report.Solution(plot.Solution()))
	case reportFlags.reveal:
		if c.Truth == nil {
			return fmt.Errorf("case %s has no ground truth to reveal", c.Name)
		}
		sections = append(sections, report.Solution(c.Truth.Solution()))
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Render(sections, mode))
	return nil
}
