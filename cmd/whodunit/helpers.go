package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"whodunit/internal/clue"
	"whodunit/internal/scenario"
	"whodunit/internal/store"
)

// caseSource names where a command reads its case from. Exactly one of
// the fields may be set.
type caseSource struct {
	file    string
	caseID  int64
	fixture string
}

func (s caseSource) validate() error {
	n := 0
	for _, set := range []bool{s.file != "", s.caseID != 0, s.fixture != ""} {
		if set {
			n++
		}
	}
	switch n {
	case 0:
		return errors.New("one of -f, --case-id or --fixture is required")
	case 1:
		return nil
	}
	return errors.New("-f, --case-id and --fixture are mutually exclusive")
}

// load resolves the source to a case. Stored cases need st; the others
// are returned unsaved with a zero ID.
func (s caseSource) load(st store.Store) (*store.Case, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	switch {
	case s.file != "":
		feed, err := clue.LoadFromPath(s.file)
		if err != nil {
			return nil, err
		}
		return &store.Case{Name: filepath.Base(s.file), Feed: feed}, nil
	case s.fixture != "":
		fx, err := scenario.LoadFixture(s.fixture)
		if err != nil {
			return nil, err
		}
		return &store.Case{Name: fx.Name, Feed: fx.Feed}, nil
	}
	c, err := st.GetCase(s.caseID)
	if err != nil {
		return nil, fmt.Errorf("load case %d: %w", s.caseID, err)
	}
	if c == nil {
		return nil, fmt.Errorf("case #%d not found", s.caseID)
	}
	return c, nil
}

func (s caseSource) needsStore() bool { return s.caseID != 0 }

func openStore() (*store.SqlStore, error) {
	st, err := store.Open(resolved.DBPath.Value)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", resolved.DBPath.Value, err)
	}
	return st, nil
}

func writeTruth(path string, plot *scenario.Plot) error {
	data, err := json.MarshalIndent(plot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal truth: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write truth: %w", err)
	}
	return nil
}

func readTruth(path string) (*scenario.Plot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read truth: %w", err)
	}
	var plot scenario.Plot
	if err := json.Unmarshal(data, &plot); err != nil {
		return nil, fmt.Errorf("parse truth %s: %w", path, err)
	}
	return &plot, nil
}
