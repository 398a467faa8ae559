package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Snapshot directory layout, one directory per repository:
//
//	<output>/<owner>_<repo>/issues/issue_<n>.json
//	<output>/<owner>_<repo>/issues/summary.json
//	<output>/<owner>_<repo>/discussions/discussion_<n>.json
//	<output>/<owner>_<repo>/discussions/summary.json
//	<output>/<owner>_<repo>/summary.json

func snapshotDir(outputDir, owner, repo string) string {
	return filepath.Join(outputDir, owner+"_"+repo)
}

func issuesDir(outputDir, owner, repo string) string {
	return filepath.Join(snapshotDir(outputDir, owner, repo), "issues")
}

type issueSummaryEntry struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

type issuesSummary struct {
	TotalCount  int                 `json:"total_count"`
	OpenCount   int                 `json:"open_count"`
	ClosedCount int                 `json:"closed_count"`
	FetchedAt   string              `json:"fetched_at"`
	Issues      []issueSummaryEntry `json:"issues"`
}

type discussionSummaryEntry struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Closed    bool   `json:"closed"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

type discussionsSummary struct {
	TotalCount  int                      `json:"total_count"`
	OpenCount   int                      `json:"open_count"`
	ClosedCount int                      `json:"closed_count"`
	FetchedAt   string                   `json:"fetched_at"`
	Discussions []discussionSummaryEntry `json:"discussions"`
}

type stateCounts struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

type combinedSummary struct {
	Repository  string      `json:"repository"`
	FetchedAt   string      `json:"fetched_at"`
	Issues      stateCounts `json:"issues"`
	Discussions stateCounts `json:"discussions"`
}

// SaveSnapshot writes per-item JSON files and summary files for one fetch run.
func SaveSnapshot(outputDir, owner, repo string, issues []FetchedIssue, discussions []FetchedDiscussion) (string, error) {
	baseDir := snapshotDir(outputDir, owner, repo)
	fetchedAt := time.Now().Format(time.RFC3339)

	isDir := filepath.Join(baseDir, "issues")
	if err := os.MkdirAll(isDir, 0755); err != nil {
		return "", fmt.Errorf("creating issues dir: %w", err)
	}

	issueCounts := stateCounts{Total: len(issues)}
	iSummary := issuesSummary{TotalCount: len(issues), FetchedAt: fetchedAt}
	for _, issue := range issues {
		path := filepath.Join(isDir, fmt.Sprintf("issue_%d.json", issue.Number))
		if err := writeJSONValue(path, issue.Raw); err != nil {
			return "", err
		}
		if issue.State == "open" {
			issueCounts.Open++
		} else {
			issueCounts.Closed++
		}
		iSummary.Issues = append(iSummary.Issues, issueSummaryEntry{
			Number:    issue.Number,
			Title:     issue.Title,
			State:     issue.State,
			CreatedAt: issue.CreatedAt,
			URL:       issue.HTMLURL,
		})
	}
	iSummary.OpenCount = issueCounts.Open
	iSummary.ClosedCount = issueCounts.Closed
	if err := writeJSONValue(filepath.Join(isDir, "summary.json"), iSummary); err != nil {
		return "", err
	}

	discussionCounts := stateCounts{Total: len(discussions)}
	if len(discussions) > 0 {
		dDir := filepath.Join(baseDir, "discussions")
		if err := os.MkdirAll(dDir, 0755); err != nil {
			return "", fmt.Errorf("creating discussions dir: %w", err)
		}
		dSummary := discussionsSummary{TotalCount: len(discussions), FetchedAt: fetchedAt}
		for _, d := range discussions {
			path := filepath.Join(dDir, fmt.Sprintf("discussion_%d.json", d.Number))
			if err := writeJSONValue(path, d.Raw); err != nil {
				return "", err
			}
			if d.Closed {
				discussionCounts.Closed++
			} else {
				discussionCounts.Open++
			}
			dSummary.Discussions = append(dSummary.Discussions, discussionSummaryEntry{
				Number:    d.Number,
				Title:     d.Title,
				Closed:    d.Closed,
				CreatedAt: d.CreatedAt,
				URL:       d.URL,
			})
		}
		dSummary.OpenCount = discussionCounts.Open
		dSummary.ClosedCount = discussionCounts.Closed
		if err := writeJSONValue(filepath.Join(dDir, "summary.json"), dSummary); err != nil {
			return "", err
		}
	}

	combined := combinedSummary{
		Repository:  owner + "/" + repo,
		FetchedAt:   fetchedAt,
		Issues:      issueCounts,
		Discussions: discussionCounts,
	}
	if err := writeJSONValue(filepath.Join(baseDir, "summary.json"), combined); err != nil {
		return "", err
	}

	return baseDir, nil
}

func writeJSONValue(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadIssues reads every issue_*.json record under dir. Malformed or
// unreadable records are skipped and counted, never fatal.
func LoadIssues(dir string) (issues []Issue, skipped int, err error) {
	paths, err := filepath.Glob(filepath.Join(dir, "issue_*.json"))
	if err != nil {
		return nil, 0, fmt.Errorf("listing issue records: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", filepath.Base(path), err)
			skipped++
			continue
		}
		var issue Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			log.Printf("skipping %s: %v", filepath.Base(path), err)
			skipped++
			continue
		}
		issues = append(issues, issue)
	}
	return issues, skipped, nil
}

// FilterBugs keeps only issues labeled "bug". Everything downstream of the
// classifier operates on this subset.
func FilterBugs(issues []Issue) []Issue {
	var bugs []Issue
	for _, issue := range issues {
		if issue.HasBugLabel() {
			bugs = append(bugs, issue)
		}
	}
	return bugs
}
