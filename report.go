package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const reportRule = "============================================================"

const topOpenBugsPerCategory = 3

// BuildReport renders the aggregate breakdown as plain text. prev, when
// non-nil, adds a change-since-last-run line from the analysis history.
func BuildReport(a *Analysis, prev *AnalysisRun) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", reportRule)
	fmt.Fprintf(&b, "BUG ANALYSIS REPORT: %s\n", a.Repository)
	fmt.Fprintf(&b, "%s\n", reportRule)

	fmt.Fprintf(&b, "\nTOTAL BUG ISSUES: %d\n", a.TotalBugs)
	fmt.Fprintf(&b, "OPEN: %d | CLOSED: %d\n", a.OpenBugs, a.ClosedBugs)
	if a.SkippedRecords > 0 {
		fmt.Fprintf(&b, "SKIPPED RECORDS: %d\n", a.SkippedRecords)
	}
	if prev != nil {
		fmt.Fprintf(&b, "CHANGE SINCE %s: total %+d, open %+d, closed %+d\n",
			prev.CreatedAt.Format("2006-01-02"),
			a.TotalBugs-prev.TotalBugs, a.OpenBugs-prev.OpenBugs, a.ClosedBugs-prev.ClosedBugs)
	}

	b.WriteString("\nBUG CATEGORIES:\n")
	for _, category := range append(append([]string{}, categoryOrder...), CategoryOther) {
		count := a.CategoryCounts[category]
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", humanizeTag(category), count, a.Percent(count))
	}

	b.WriteString("\nPLATFORM BREAKDOWN:\n")
	for _, platform := range platformOrder {
		count := a.PlatformCounts[platform]
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", humanizeTag(platform), count, a.Percent(count))
	}

	b.WriteString("\nHARDWARE MODEL BREAKDOWN:\n")
	for _, model := range hardwareOrder {
		count := a.HardwareCounts[model]
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", humanizeTag(model), count, a.Percent(count))
	}

	b.WriteString("\nTESTING STRATEGY ANALYSIS:\n")
	b.WriteString("How these bugs could be caught:\n")
	for _, bucket := range bucketOrder {
		count := a.BucketCounts[bucket]
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", humanizeTag(string(bucket)), count, a.Percent(count))
	}

	if openSection := buildTopOpenBugs(a); openSection != "" {
		b.WriteString("\nTOP OPEN BUGS BY CATEGORY:\n")
		b.WriteString(openSection)
	}

	fmt.Fprintf(&b, "\n%s\n", reportRule)
	b.WriteString("KEY INSIGHTS FOR TESTING STRATEGY\n")
	fmt.Fprintf(&b, "%s\n\n", reportRule)
	fmt.Fprintf(&b, "- %.0f%% need device matrix testing\n", a.Percent(a.BucketCounts[BucketDeviceMatrix]))
	fmt.Fprintf(&b, "- %.0f%% are environment-dependent (hard to automate)\n", a.Percent(a.BucketCounts[BucketEnvironment]))
	fmt.Fprintf(&b, "- %.0f%% need manual workflow testing\n", a.Percent(a.BucketCounts[BucketManualWorkflow]))
	fmt.Fprintf(&b, "- %.0f%% could be caught by automated tests\n", a.Percent(a.BucketCounts[BucketAutomated]))

	return b.String()
}

func buildTopOpenBugs(a *Analysis) string {
	var b strings.Builder
	for _, category := range append(append([]string{}, categoryOrder...), CategoryOther) {
		open := a.OpenBugsByCategory(category, topOpenBugsPerCategory)
		if len(open) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (Open Issues):\n", humanizeTag(category))
		for i, issue := range open {
			fmt.Fprintf(&b, "  %d. #%d: %s\n", i+1, issue.Number, issue.Title)
		}
	}
	return b.String()
}

// BuildReportSummary is the short form posted to Slack and logged by the
// scheduler.
func BuildReportSummary(a *Analysis) string {
	return fmt.Sprintf(
		"%s: %d bugs (%d open, %d closed) | device matrix %.0f%%, environment %.0f%%, manual %.0f%%, automatable %.0f%%",
		a.Repository, a.TotalBugs, a.OpenBugs, a.ClosedBugs,
		a.Percent(a.BucketCounts[BucketDeviceMatrix]),
		a.Percent(a.BucketCounts[BucketEnvironment]),
		a.Percent(a.BucketCounts[BucketManualWorkflow]),
		a.Percent(a.BucketCounts[BucketAutomated]))
}

// WriteReportFile writes the rendered report under outputDir, named after the
// repository and report date.
func WriteReportFile(content, outputDir, repository string, reportDate time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_bugs_%s.txt", sanitizeFilename(repository), reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}

// humanizeTag turns snake_case tags into title-cased report labels
// ("bluetooth_pairing" -> "Bluetooth Pairing").
func humanizeTag(tag string) string {
	words := strings.Split(tag, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
