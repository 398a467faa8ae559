package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// seedSnapshot writes a snapshot the way a fetch run would, so RunAnalysis
// reads real on-disk records.
func seedSnapshot(t *testing.T, outputDir string, issues []Issue) {
	t.Helper()
	fetched := make([]FetchedIssue, 0, len(issues))
	for _, issue := range issues {
		raw, err := json.Marshal(map[string]any{
			"number":   issue.Number,
			"title":    issue.Title,
			"body":     issue.Body,
			"state":    issue.State,
			"labels":   []map[string]string{{"name": "bug"}},
			"html_url": fmt.Sprintf("https://github.com/acme/glasses/issues/%d", issue.Number),
		})
		if err != nil {
			t.Fatalf("marshal issue: %v", err)
		}
		fetched = append(fetched, FetchedIssue{Issue: issue, Raw: raw})
	}
	if _, err := SaveSnapshot(outputDir, "acme", "glasses", fetched, nil); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
}

func TestRunAnalysis(t *testing.T) {
	cfg := Config{
		OutputDir:           t.TempDir(),
		ReportOutputDir:     t.TempDir(),
		UncategorizedBucket: string(BucketAutomated),
		Location:            time.UTC,
	}
	db := newTestDB(t)

	seedSnapshot(t, cfg.OutputDir, []Issue{
		{Number: 1, Title: "RTMP stream keeps dropping on Android", State: "open"},
		{Number: 2, Title: "Bluetooth pairing fails", Body: "crashes on reconnect", State: "open"},
		{Number: 3, Title: "typo on the about screen text", State: "closed"},
	})

	analysis, report, err := RunAnalysis(cfg, db, "acme/glasses", AnalysisOptions{})
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}

	if analysis.TotalBugs != 3 || analysis.OpenBugs != 2 || analysis.ClosedBugs != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1",
			analysis.TotalBugs, analysis.OpenBugs, analysis.ClosedBugs)
	}
	if !strings.Contains(report, "TOTAL BUG ISSUES: 3") {
		t.Errorf("report missing totals:\n%s", report)
	}
	// First run has no history yet, so no trend line.
	if strings.Contains(report, "CHANGE SINCE") {
		t.Errorf("first run should not report a trend:\n%s", report)
	}

	// The run must be recorded for the next trend comparison.
	prev, err := LatestAnalysisRun(db, "acme/glasses")
	if err != nil {
		t.Fatalf("LatestAnalysisRun failed: %v", err)
	}
	if prev == nil || prev.TotalBugs != 3 {
		t.Fatalf("recorded run = %+v, want total 3", prev)
	}

	// And the report file must exist on disk.
	matches, err := filepath.Glob(filepath.Join(cfg.ReportOutputDir, "acme_glasses_bugs_*.txt"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("report files = %v (err %v), want exactly one", matches, err)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(content) != report {
		t.Error("report file content differs from returned report")
	}
}

func TestRunAnalysisSecondRunReportsTrend(t *testing.T) {
	cfg := Config{
		OutputDir:           t.TempDir(),
		ReportOutputDir:     t.TempDir(),
		UncategorizedBucket: string(BucketAutomated),
		Location:            time.UTC,
	}
	db := newTestDB(t)

	seedSnapshot(t, cfg.OutputDir, []Issue{
		{Number: 1, Title: "App crashes on launch", State: "open"},
	})
	if _, _, err := RunAnalysis(cfg, db, "acme/glasses", AnalysisOptions{}); err != nil {
		t.Fatalf("first RunAnalysis failed: %v", err)
	}

	seedSnapshot(t, cfg.OutputDir, []Issue{
		{Number: 1, Title: "App crashes on launch", State: "closed"},
		{Number: 2, Title: "Bluetooth pairing fails", State: "open"},
		{Number: 3, Title: "WiFi keeps disconnecting", State: "open"},
	})
	_, report, err := RunAnalysis(cfg, db, "acme/glasses", AnalysisOptions{})
	if err != nil {
		t.Fatalf("second RunAnalysis failed: %v", err)
	}

	if !strings.Contains(report, "CHANGE SINCE") {
		t.Errorf("second run should report a trend:\n%s", report)
	}
	if !strings.Contains(report, "total +2, open +1, closed +1") {
		t.Errorf("trend deltas wrong:\n%s", report)
	}
}

func TestRunAnalysisUnknownRepository(t *testing.T) {
	db := newTestDB(t)
	_, _, err := RunAnalysis(Config{OutputDir: t.TempDir()}, db, "not-a-repo", AnalysisOptions{})
	if err == nil {
		t.Fatal("expected error for malformed repository")
	}
}

func TestFormatFetchSummary(t *testing.T) {
	result := FetchResult{Issues: 12, Discussions: 3, SnapshotDir: "/data/acme_glasses"}
	got := FormatFetchSummary(result)
	want := "Fetched 12 issues and 3 discussions to /data/acme_glasses"
	if got != want {
		t.Errorf("FormatFetchSummary = %q, want %q", got, want)
	}

	result.Errors = []string{"discussions: boom"}
	got = FormatFetchSummary(result)
	if !strings.Contains(got, "Warnings:\ndiscussions: boom") {
		t.Errorf("FormatFetchSummary with errors = %q", got)
	}
}
