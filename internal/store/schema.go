package store

// schemaVersionV1 is the only schema so far.
const schemaVersionV1 = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS cases (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL DEFAULT '',
	seed       INTEGER NOT NULL DEFAULT 0,
	feed       TEXT NOT NULL,
	truth      TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS solutions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id       INTEGER NOT NULL REFERENCES cases(id),
	rounds        INTEGER NOT NULL,
	stable        INTEGER NOT NULL,
	statements    INTEGER NOT NULL,
	truthful      INTEGER NOT NULL,
	lying         INTEGER NOT NULL,
	unknown       INTEGER NOT NULL,
	located       INTEGER NOT NULL,
	grid          TEXT NOT NULL DEFAULT '',
	contradiction TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_solutions_case ON solutions(case_id);

CREATE TABLE IF NOT EXISTS calibrations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	runs       INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	passed     INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	report     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
