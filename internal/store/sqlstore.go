package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whodunit/internal/clue"
	"whodunit/internal/scenario"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func toNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .whodunit) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		return s.freshInstall()
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return s.freshInstall()
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (s *SqlStore) freshInstall() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema install: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if _, err := tx.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// --- Cases ---

func (s *SqlStore) SaveCase(c *Case) (int64, error) {
	if c == nil {
		return 0, errors.New("case is nil")
	}
	feed, err := clue.Encode(c.Feed, ".json")
	if err != nil {
		return 0, fmt.Errorf("encode feed: %w", err)
	}
	var truth sql.NullString
	if c.Truth != nil {
		data, err := json.Marshal(c.Truth)
		if err != nil {
			return 0, fmt.Errorf("encode truth: %w", err)
		}
		truth = toNull(string(data))
	}
	created := c.CreatedAt
	if created == "" {
		created = nowUTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO cases(name, seed, feed, truth, created_at) VALUES(?, ?, ?, ?, ?)`,
		c.Name, int64(c.Seed), string(feed), truth, created,
	)
	if err != nil {
		return 0, fmt.Errorf("insert case: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) GetCase(id int64) (*Case, error) {
	var c Case
	var seed int64
	var feed string
	var truth sql.NullString
	err := s.db.QueryRow(
		`SELECT id, name, seed, feed, truth, created_at FROM cases WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &seed, &feed, &truth, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	c.Seed = uint64(seed)
	if c.Feed, err = clue.Decode([]byte(feed), ".json"); err != nil {
		return nil, fmt.Errorf("case %d: %w", id, err)
	}
	if t := nullStr(truth); t != "" {
		c.Truth = &scenario.Plot{}
		if err := json.Unmarshal([]byte(t), c.Truth); err != nil {
			return nil, fmt.Errorf("case %d: decode truth: %w", id, err)
		}
	}
	return &c, nil
}

// ListCases returns every case without its feed or truth, newest last.
func (s *SqlStore) ListCases() ([]*Case, error) {
	rows, err := s.db.Query(`SELECT id, name, seed, created_at FROM cases ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()
	var list []*Case
	for rows.Next() {
		var c Case
		var seed int64
		if err := rows.Scan(&c.ID, &c.Name, &seed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.Seed = uint64(seed)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// --- Solutions ---

func (s *SqlStore) SaveSolution(sol *Solution) (int64, error) {
	if sol == nil {
		return 0, errors.New("solution is nil")
	}
	created := sol.CreatedAt
	if created == "" {
		created = nowUTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO solutions(case_id, rounds, stable, statements, truthful, lying, unknown, located, grid, contradiction, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.CaseID, sol.Rounds, sol.Stable, sol.Statements, sol.Truthful, sol.Lying,
		sol.Unknown, sol.Located, sol.Grid, toNull(sol.Contradiction), created,
	)
	if err != nil {
		return 0, fmt.Errorf("insert solution: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) ListSolutions(caseID int64) ([]*Solution, error) {
	rows, err := s.db.Query(
		`SELECT id, case_id, rounds, stable, statements, truthful, lying, unknown, located, grid, contradiction, created_at
		 FROM solutions WHERE case_id = ? ORDER BY id`, caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	defer rows.Close()
	var list []*Solution
	for rows.Next() {
		var sol Solution
		var contradiction sql.NullString
		if err := rows.Scan(&sol.ID, &sol.CaseID, &sol.Rounds, &sol.Stable, &sol.Statements,
			&sol.Truthful, &sol.Lying, &sol.Unknown, &sol.Located, &sol.Grid, &contradiction, &sol.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		sol.Contradiction = nullStr(contradiction)
		list = append(list, &sol)
	}
	return list, rows.Err()
}

// --- Calibrations ---

func (s *SqlStore) SaveCalibration(r *CalibrationRun) (int64, error) {
	if r == nil {
		return 0, errors.New("calibration run is nil")
	}
	created := r.CreatedAt
	if created == "" {
		created = nowUTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO calibrations(runs, seed, passed, total, report, created_at) VALUES(?, ?, ?, ?, ?, ?)`,
		r.Runs, int64(r.Seed), r.Passed, r.Total, r.Report, created,
	)
	if err != nil {
		return 0, fmt.Errorf("insert calibration: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) ListCalibrations() ([]*CalibrationRun, error) {
	rows, err := s.db.Query(`SELECT id, runs, seed, passed, total, report, created_at FROM calibrations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list calibrations: %w", err)
	}
	defer rows.Close()
	var list []*CalibrationRun
	for rows.Next() {
		var r CalibrationRun
		var seed int64
		if err := rows.Scan(&r.ID, &r.Runs, &seed, &r.Passed, &r.Total, &r.Report, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calibration: %w", err)
		}
		r.Seed = uint64(seed)
		list = append(list, &r)
	}
	return list, rows.Err()
}
