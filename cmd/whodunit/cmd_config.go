package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whodunit/internal/config"
	"whodunit/internal/format"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		RunE:  runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) error {
	tb := format.NewTable(format.ASCII)
	tb.Header("Setting", "Value", "Source", "From")
	for _, row := range []struct {
		name string
		v    config.ResolvedValue
	}{
		{"db", resolved.DBPath},
		{"max_rounds", resolved.MaxRounds},
		{"direct_count", resolved.DirectCount},
		{"log_level", resolved.LogLevel},
		{"log_format", resolved.LogFormat},
	} {
		tb.Row(row.name, row.v.Value, row.v.Source, row.v.From)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", resolved.ConfigPath)
	fmt.Fprintln(out, tb.String())
	g, a := resolved.Generator, resolved.Accuracy
	fmt.Fprintf(out, "Generator: %d people, %d rooms, %d slots, seed %d\n", g.People, g.Rooms, g.Times, g.Seed)
	fmt.Fprintf(out, "Extractor: location %s, dna %s, person %s, hearsay %s, headcount %s\n",
		format.Percent(a.Location), format.Percent(a.DNA), format.Percent(a.Person),
		format.Percent(a.Hearsay), format.Percent(a.Headcount))
	return nil
}
