package main

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bugtriage-test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLatestAnalysisRunEmptyHistory(t *testing.T) {
	db := newTestDB(t)

	run, err := LatestAnalysisRun(db, "acme/glasses")
	if err != nil {
		t.Fatalf("LatestAnalysisRun failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run on empty history, got %+v", run)
	}
}

func TestInsertAndLatestAnalysisRun(t *testing.T) {
	db := newTestDB(t)

	first := &Analysis{
		Repository: "acme/glasses",
		TotalBugs:  10,
		OpenBugs:   6,
		ClosedBugs: 4,
		BucketCounts: map[TestingBucket]int{
			BucketAutomated:      3,
			BucketDeviceMatrix:   4,
			BucketManualWorkflow: 1,
			BucketEnvironment:    2,
		},
		SkippedRecords: 1,
	}
	if err := InsertAnalysisRun(db, first); err != nil {
		t.Fatalf("InsertAnalysisRun failed: %v", err)
	}

	second := &Analysis{
		Repository:   "acme/glasses",
		TotalBugs:    12,
		OpenBugs:     7,
		ClosedBugs:   5,
		BucketCounts: map[TestingBucket]int{BucketAutomated: 12},
	}
	if err := InsertAnalysisRun(db, second); err != nil {
		t.Fatalf("InsertAnalysisRun failed: %v", err)
	}

	// A run for another repository must not shadow the lookup.
	other := &Analysis{
		Repository:   "acme/other",
		TotalBugs:    99,
		BucketCounts: map[TestingBucket]int{},
	}
	if err := InsertAnalysisRun(db, other); err != nil {
		t.Fatalf("InsertAnalysisRun failed: %v", err)
	}

	run, err := LatestAnalysisRun(db, "acme/glasses")
	if err != nil {
		t.Fatalf("LatestAnalysisRun failed: %v", err)
	}
	if run == nil {
		t.Fatal("expected a run, got nil")
	}
	if run.TotalBugs != 12 || run.OpenBugs != 7 || run.ClosedBugs != 5 {
		t.Fatalf("latest run = %+v, want the second insert", run)
	}
	if run.Automated != 12 || run.DeviceMatrix != 0 {
		t.Fatalf("bucket columns = %+v", run)
	}
	if run.Repository != "acme/glasses" {
		t.Fatalf("repository = %q", run.Repository)
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("created_at must be populated")
	}
}
