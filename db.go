package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// AnalysisRun is one stored analyze invocation, used for run-over-run trends.
type AnalysisRun struct {
	ID             int64
	Repository     string
	TotalBugs      int
	OpenBugs       int
	ClosedBugs     int
	Automated      int
	DeviceMatrix   int
	ManualWorkflow int
	Environment    int
	SkippedRecords int
	CreatedAt      time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		repository      TEXT NOT NULL,
		total_bugs      INTEGER NOT NULL,
		open_bugs       INTEGER NOT NULL,
		closed_bugs     INTEGER NOT NULL,
		automated       INTEGER NOT NULL,
		device_matrix   INTEGER NOT NULL,
		manual_workflow INTEGER NOT NULL,
		environment     INTEGER NOT NULL,
		skipped_records INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_repo_date ON analysis_runs(repository, created_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InsertAnalysisRun records the aggregates of one analyze invocation.
func InsertAnalysisRun(db *sql.DB, a *Analysis) error {
	_, err := db.Exec(
		`INSERT INTO analysis_runs
		 (repository, total_bugs, open_bugs, closed_bugs, automated, device_matrix, manual_workflow, environment, skipped_records)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Repository, a.TotalBugs, a.OpenBugs, a.ClosedBugs,
		a.BucketCounts[BucketAutomated], a.BucketCounts[BucketDeviceMatrix],
		a.BucketCounts[BucketManualWorkflow], a.BucketCounts[BucketEnvironment],
		a.SkippedRecords)
	return err
}

// LatestAnalysisRun returns the most recent stored run for a repository, or
// nil when the repository has no history yet.
func LatestAnalysisRun(db *sql.DB, repository string) (*AnalysisRun, error) {
	row := db.QueryRow(
		`SELECT id, repository, total_bugs, open_bugs, closed_bugs,
		        automated, device_matrix, manual_workflow, environment, skipped_records, created_at
		 FROM analysis_runs
		 WHERE repository = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		repository)

	var run AnalysisRun
	err := row.Scan(&run.ID, &run.Repository, &run.TotalBugs, &run.OpenBugs, &run.ClosedBugs,
		&run.Automated, &run.DeviceMatrix, &run.ManualWorkflow, &run.Environment,
		&run.SkippedRecords, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
