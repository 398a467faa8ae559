package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	return path
}

func TestLoadRuleExtensions(t *testing.T) {
	path := writeRulesFile(t, `
categories:
  - category: performance
    patterns:
      - '\bjank\w*\b'
      - '\bstutter\w*\b'
  - category: wifi_connectivity
    patterns:
      - '\bcaptive\b.*\bportal\b'
`)
	ext, err := LoadRuleExtensions(path)
	if err != nil {
		t.Fatalf("LoadRuleExtensions failed: %v", err)
	}

	perf := ext.PatternsFor("performance")
	if len(perf) != 2 {
		t.Fatalf("PatternsFor(performance) = %v, want 2 patterns", perf)
	}
	if got := ext.PatternsFor("app_crashes"); len(got) != 0 {
		t.Fatalf("PatternsFor(app_crashes) = %v, want none", got)
	}
}

func TestLoadRuleExtensionsUnknownCategory(t *testing.T) {
	path := writeRulesFile(t, `
categories:
  - category: nonsense_bucket
    patterns: ['\bfoo\b']
`)
	_, err := LoadRuleExtensions(path)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "nonsense_bucket") {
		t.Fatalf("error should name the category: %v", err)
	}
}

func TestLoadRuleExtensionsInvalidPattern(t *testing.T) {
	path := writeRulesFile(t, `
categories:
  - category: performance
    patterns: ['[unclosed']
`)
	_, err := LoadRuleExtensions(path)
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestLoadRuleExtensionsMissingFile(t *testing.T) {
	_, err := LoadRuleExtensions(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRuleExtensionsIfConfigured(t *testing.T) {
	ext, err := loadRuleExtensionsIfConfigured(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext != nil {
		t.Fatal("expected nil extensions when rules_path is unset")
	}
}
