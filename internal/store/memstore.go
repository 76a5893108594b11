package store

import (
	"errors"
	"slices"
	"sync"
)

// MemStore implements Store in memory. Records are copied in and out so
// callers cannot mutate stored state.
type MemStore struct {
	mu           sync.Mutex
	cases        []*Case
	solutions    []*Solution
	calibrations []*CalibrationRun
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Close() error { return nil }

// --- Cases ---

func (s *MemStore) SaveCase(c *Case) (int64, error) {
	if c == nil {
		return 0, errors.New("case is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.ID = int64(len(s.cases) + 1)
	cp.Feed = slices.Clone(c.Feed)
	if cp.CreatedAt == "" {
		cp.CreatedAt = nowUTC()
	}
	s.cases = append(s.cases, &cp)
	return cp.ID, nil
}

func (s *MemStore) GetCase(id int64) (*Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.cases)) {
		return nil, nil
	}
	cp := *s.cases[id-1]
	cp.Feed = slices.Clone(cp.Feed)
	return &cp, nil
}

func (s *MemStore) ListCases() ([]*Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Case, 0, len(s.cases))
	for _, c := range s.cases {
		list = append(list, &Case{ID: c.ID, Name: c.Name, Seed: c.Seed, CreatedAt: c.CreatedAt})
	}
	return list, nil
}

// --- Solutions ---

func (s *MemStore) SaveSolution(sol *Solution) (int64, error) {
	if sol == nil {
		return 0, errors.New("solution is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sol
	cp.ID = int64(len(s.solutions) + 1)
	if cp.CreatedAt == "" {
		cp.CreatedAt = nowUTC()
	}
	s.solutions = append(s.solutions, &cp)
	return cp.ID, nil
}

func (s *MemStore) ListSolutions(caseID int64) ([]*Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*Solution
	for _, sol := range s.solutions {
		if sol.CaseID == caseID {
			cp := *sol
			list = append(list, &cp)
		}
	}
	return list, nil
}

// --- Calibrations ---

func (s *MemStore) SaveCalibration(r *CalibrationRun) (int64, error) {
	if r == nil {
		return 0, errors.New("calibration run is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	cp.ID = int64(len(s.calibrations) + 1)
	if cp.CreatedAt == "" {
		cp.CreatedAt = nowUTC()
	}
	s.calibrations = append(s.calibrations, &cp)
	return cp.ID, nil
}

func (s *MemStore) ListCalibrations() ([]*CalibrationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*CalibrationRun, 0, len(s.calibrations))
	for _, r := range s.calibrations {
		cp := *r
		list = append(list, &cp)
	}
	return list, nil
}
