package main

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RuleExtensions is an optional YAML file of extra category patterns, so a
// deployment can widen a rule without rebuilding:
//
//	categories:
//	  - category: wifi_connectivity
//	    patterns:
//	      - '\bcaptive\b.*\bportal\b'
type RuleExtensions struct {
	Categories []CategoryExtension `yaml:"categories"`
}

type CategoryExtension struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

func LoadRuleExtensions(path string) (*RuleExtensions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var ext RuleExtensions
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}
	if err := ext.validate(); err != nil {
		return nil, err
	}
	return &ext, nil
}

func (e *RuleExtensions) validate() error {
	for _, ce := range e.Categories {
		if _, ok := categoryPatterns[ce.Category]; !ok {
			return fmt.Errorf("unknown category %q", ce.Category)
		}
		for _, p := range ce.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("invalid pattern %q for %s: %w", p, ce.Category, err)
			}
		}
	}
	return nil
}

// PatternsFor returns the extra patterns registered for a category.
func (e *RuleExtensions) PatternsFor(category string) []string {
	var patterns []string
	for _, ce := range e.Categories {
		if ce.Category == category {
			patterns = append(patterns, ce.Patterns...)
		}
	}
	return patterns
}

func loadRuleExtensionsIfConfigured(cfg Config) (*RuleExtensions, error) {
	if cfg.RulesPath == "" {
		return nil, nil
	}
	return LoadRuleExtensions(cfg.RulesPath)
}
