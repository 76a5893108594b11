// whodunit deduces who lied about their whereabouts from a clue feed of
// witness statements, smart-light logs and headcounts.
//
// Usage:
//
//	whodunit generate --seed 7 -o case.json --truth truth.json
//	whodunit solve -f case.json [--format markdown] [--explain]
//	whodunit report -f case.json --truth truth.json
//	whodunit calibrate --runs 50 --parallel 4
//	whodunit status [--case-id N]
//	whodunit serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
