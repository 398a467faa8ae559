package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GitHubToken  string `yaml:"github_token"`
	GitHubAPIURL string `yaml:"github_api_url"`
	Repository   string `yaml:"repository"` // "owner/repo"

	OutputDir       string `yaml:"output_dir"`
	ReportOutputDir string `yaml:"report_output_dir"`
	DBPath          string `yaml:"db_path"`
	RulesPath       string `yaml:"rules_path"`

	UncategorizedBucket string `yaml:"uncategorized_bucket"`

	AutoFetchSchedule string `yaml:"auto_fetch_schedule"`
	Timezone          string `yaml:"timezone"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.GitHubToken, "GITHUB_TOKEN")
	envOverride(&cfg.GitHubAPIURL, "GITHUB_API_URL")
	envOverride(&cfg.Repository, "REPOSITORY")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.RulesPath, "RULES_PATH")
	envOverride(&cfg.UncategorizedBucket, "UNCATEGORIZED_BUCKET")
	envOverride(&cfg.AutoFetchSchedule, "AUTO_FETCH_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")

	// Defaults
	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = "https://api.github.com"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./github_data"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./bugtriage.db"
	}
	if cfg.UncategorizedBucket == "" {
		cfg.UncategorizedBucket = string(BucketAutomated)
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultAnthropicModel
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	cfg.GitHubAPIURL = strings.TrimRight(cfg.GitHubAPIURL, "/")
	if cfg.Repository != "" {
		if _, _, err := splitRepository(cfg.Repository); err != nil {
			log.Fatalf("invalid repository '%s': %v", cfg.Repository, err)
		}
	}
	if !IsTestingBucket(cfg.UncategorizedBucket) {
		log.Fatalf("invalid uncategorized_bucket '%s': must be one of %s",
			cfg.UncategorizedBucket, strings.Join(TestingBucketNames(), ", "))
	}
	if cfg.RulesPath != "" {
		if _, err := LoadRuleExtensions(cfg.RulesPath); err != nil {
			log.Fatalf("invalid rules_path '%s': %v", cfg.RulesPath, err)
		}
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
		cfg.Timezone = time.Local.String()
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) InsightsConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func splitRepository(repository string) (owner, repo string, err error) {
	parts := strings.SplitN(strings.TrimSpace(repository), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected 'owner/repo' format")
	}
	if strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("expected 'owner/repo' format")
	}
	return parts[0], parts[1], nil
}
