package main

import (
	"fmt"
	"log"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/pflag"
)

const usage = `bugtriage fetches GitHub issues/discussions and classifies bug reports.

Usage:
  bugtriage fetch [owner/repo]     fetch issues and discussions into a snapshot
  bugtriage analyze [owner/repo]   classify the stored snapshot and print the report
  bugtriage watch                  fetch + analyze on the configured cron schedule

The repository argument falls back to the 'repository' config value.
Configuration comes from config.yaml (or CONFIG_PATH) with env-var overrides.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fetch":
		cmdFetch(os.Args[2:])
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func cmdFetch(args []string) {
	flagSet := pflag.NewFlagSet("fetch", pflag.ExitOnError)
	issuesOnly := flagSet.Bool("issues-only", false, "fetch only issues, skip discussions")
	discussionsOnly := flagSet.Bool("discussions-only", false, "fetch only discussions, skip issues")
	outputDir := flagSet.StringP("output", "o", "", "output directory (default from config)")
	if err := flagSet.Parse(args); err != nil {
		log.Fatalf("parsing fetch flags: %v", err)
	}
	if *issuesOnly && *discussionsOnly {
		log.Fatalf("--issues-only and --discussions-only are mutually exclusive")
	}

	cfg := LoadConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	repository := repositoryArg(cfg, flagSet.Args())

	result, err := FetchRepository(cfg, repository, *issuesOnly, *discussionsOnly)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	fmt.Println(FormatFetchSummary(result))
}

func cmdAnalyze(args []string) {
	flagSet := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	insights := flagSet.Bool("insights", false, "append an LLM narrative (needs anthropic_api_key)")
	notify := flagSet.Bool("notify", false, "post the summary to Slack (needs slack_bot_token and report_channel_id)")
	outputDir := flagSet.StringP("output", "o", "", "snapshot directory (default from config)")
	if err := flagSet.Parse(args); err != nil {
		log.Fatalf("parsing analyze flags: %v", err)
	}

	cfg := LoadConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	repository := repositoryArg(cfg, flagSet.Args())

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	_, report, err := RunAnalysis(cfg, db, repository, AnalysisOptions{
		Insights: *insights,
		Notify:   *notify,
	})
	if err != nil {
		log.Fatalf("Analyze failed: %v", err)
	}
	fmt.Print(report)
}

func cmdWatch(args []string) {
	flagSet := pflag.NewFlagSet("watch", pflag.ExitOnError)
	if err := flagSet.Parse(args); err != nil {
		log.Fatalf("parsing watch flags: %v", err)
	}

	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = newSlackClient(cfg)
	}

	if err := RunWatchLoop(cfg, db, api); err != nil {
		log.Fatalf("Watch failed: %v", err)
	}
}

func repositoryArg(cfg Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Repository != "" {
		return cfg.Repository
	}
	log.Fatalf("no repository given: pass 'owner/repo' or set 'repository' in config")
	return ""
}
