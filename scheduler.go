package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// FetchResult tracks what one fetch run retrieved and which half failed.
type FetchResult struct {
	Issues      int
	Discussions int
	SnapshotDir string
	Errors      []string
}

// FetchRepository fetches issues and/or discussions for one repository and
// writes a snapshot. A discussions failure after a successful issues fetch is
// a warning, not an error, so the snapshot still lands.
func FetchRepository(cfg Config, repository string, issuesOnly, discussionsOnly bool) (FetchResult, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return FetchResult{}, fmt.Errorf("invalid repository '%s': %w", repository, err)
	}

	if cfg.GitHubToken == "" {
		log.Println("Warning: no GitHub token configured, rate limits will be lower")
	}

	var result FetchResult
	var issues []FetchedIssue
	var discussions []FetchedDiscussion

	if !discussionsOnly {
		issues, err = FetchIssues(cfg, owner, repo)
		if err != nil {
			return result, fmt.Errorf("fetching issues: %w", err)
		}
		result.Issues = len(issues)
	}

	if !issuesOnly {
		discussions, err = FetchDiscussions(cfg, owner, repo)
		if err != nil {
			if discussionsOnly {
				return result, fmt.Errorf("fetching discussions: %w", err)
			}
			log.Printf("fetch discussions error: %v", err)
			result.Errors = append(result.Errors, fmt.Sprintf("discussions: %v", err))
		} else {
			result.Discussions = len(discussions)
		}
	}

	if result.Issues == 0 && result.Discussions == 0 && len(result.Errors) > 0 {
		return result, fmt.Errorf("all fetches failed: %s", strings.Join(result.Errors, "; "))
	}

	dir, err := SaveSnapshot(cfg.OutputDir, owner, repo, issues, discussions)
	if err != nil {
		return result, fmt.Errorf("saving snapshot: %w", err)
	}
	result.SnapshotDir = dir

	return result, nil
}

// FormatFetchSummary returns a human-readable summary of a FetchResult.
func FormatFetchSummary(result FetchResult) string {
	msg := fmt.Sprintf("Fetched %d issues and %d discussions to %s",
		result.Issues, result.Discussions, result.SnapshotDir)
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\nWarnings:\n%s", strings.Join(result.Errors, "\n"))
	}
	return msg
}

// AnalysisOptions selects the optional surfaces of one analyze run.
type AnalysisOptions struct {
	Insights bool
	Notify   bool
}

// RunAnalysis loads the stored snapshot for a repository, classifies the bug
// population, records the run in the history database, writes the report
// file, and returns the rendered report.
func RunAnalysis(cfg Config, db *sql.DB, repository string, opts AnalysisOptions) (*Analysis, string, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, "", fmt.Errorf("invalid repository '%s': %w", repository, err)
	}

	dir := issuesDir(cfg.OutputDir, owner, repo)
	issues, skipped, err := LoadIssues(dir)
	if err != nil {
		return nil, "", fmt.Errorf("loading issues from %s: %w", dir, err)
	}
	if skipped > 0 {
		log.Printf("analyze skipped_records=%d", skipped)
	}

	ext, err := loadRuleExtensionsIfConfigured(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("loading rule extensions: %w", err)
	}
	classifier, err := NewClassifier(ext)
	if err != nil {
		return nil, "", fmt.Errorf("compiling rules: %w", err)
	}

	bugs := FilterBugs(issues)
	log.Printf("analyze repository=%s issues=%d bugs=%d", repository, len(issues), len(bugs))

	analysis := AnalyzeBugs(classifier, bugs, TestingBucket(cfg.UncategorizedBucket))
	analysis.Repository = repository
	analysis.SkippedRecords = skipped

	prev, err := LatestAnalysisRun(db, repository)
	if err != nil {
		log.Printf("analyze history lookup error: %v", err)
	}

	report := BuildReport(analysis, prev)

	if opts.Insights && cfg.InsightsConfigured() {
		narrative, err := GenerateInsights(cfg, analysis)
		if err != nil {
			log.Printf("analyze insights error: %v", err)
		} else {
			report += fmt.Sprintf("\n%s\nNARRATIVE\n%s\n\n%s\n", reportRule, reportRule, narrative)
		}
	}

	if err := InsertAnalysisRun(db, analysis); err != nil {
		return nil, "", fmt.Errorf("recording analysis run: %w", err)
	}

	path, err := WriteReportFile(report, cfg.ReportOutputDir, repository, time.Now().In(cfg.Location))
	if err != nil {
		return nil, "", fmt.Errorf("writing report file: %w", err)
	}
	log.Printf("analyze report written to %s", path)

	if opts.Notify && cfg.SlackConfigured() {
		api := newSlackClient(cfg)
		if err := PostReportSummary(api, cfg.ReportChannelID, BuildReportSummary(analysis)); err != nil {
			log.Printf("analyze notify error: %v", err)
		}
	}

	return analysis, report, nil
}

// RunWatchLoop runs fetch+analyze on the configured cron schedule, posting a
// summary to Slack when configured. It blocks forever.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 9 * * *" (daily 9am), "0 9 * * 1-5" (weekdays 9am).
func RunWatchLoop(cfg Config, db *sql.DB, api *slack.Client) error {
	schedule := strings.TrimSpace(cfg.AutoFetchSchedule)
	if schedule == "" {
		return fmt.Errorf("auto_fetch_schedule is not set")
	}
	if cfg.Repository == "" {
		return fmt.Errorf("repository is not set")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid auto_fetch_schedule '%s': %w", schedule, err)
	}

	log.Printf("Watch scheduled (cron: %s) for %s", schedule, cfg.Repository)

	for {
		now := time.Now().In(cfg.Location)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next fetch at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		result, err := FetchRepository(cfg, cfg.Repository, false, false)
		if err != nil {
			log.Printf("Watch fetch error: %v", err)
			continue
		}
		log.Printf("Watch fetch complete: %s", FormatFetchSummary(result))

		analysis, _, err := RunAnalysis(cfg, db, cfg.Repository, AnalysisOptions{})
		if err != nil {
			log.Printf("Watch analyze error: %v", err)
			continue
		}

		summary := BuildReportSummary(analysis)
		log.Printf("Watch analyze complete: %s", summary)

		if api != nil && cfg.ReportChannelID != "" {
			if err := PostReportSummary(api, cfg.ReportChannelID, summary); err != nil {
				log.Printf("Watch post error: %v", err)
			}
		}
	}
}
