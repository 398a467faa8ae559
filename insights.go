package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const insightsSystemPrompt = `You are a QA lead reviewing a bug-triage breakdown for a mobile app
that pairs with smart glasses. Given the aggregate numbers and a sample of open bug titles,
write a short narrative (at most 200 words) recommending where to invest testing effort first.
Be concrete and refer to the numbers. Plain text only.`

// GenerateInsights asks the configured model for a short narrative over the
// aggregates. Purely additive: classification never depends on it, and any
// failure leaves the report unchanged.
func GenerateInsights(cfg Config, a *Analysis) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.LLMModel),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: insightsSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildInsightsPrompt(a))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("insights request: %w", err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	usage := message.Usage
	log.Printf("insights model=%s tokens_in=%d tokens_out=%d", cfg.LLMModel, usage.InputTokens, usage.OutputTokens)

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("insights request: empty response")
	}
	return text, nil
}

func buildInsightsPrompt(a *Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", a.Repository)
	fmt.Fprintf(&b, "Bugs: %d total, %d open, %d closed\n\n", a.TotalBugs, a.OpenBugs, a.ClosedBugs)

	b.WriteString("Testing buckets:\n")
	for _, bucket := range bucketOrder {
		count := a.BucketCounts[bucket]
		fmt.Fprintf(&b, "- %s: %d (%.1f%%)\n", humanizeTag(string(bucket)), count, a.Percent(count))
	}

	b.WriteString("\nCategories with bugs:\n")
	for _, category := range append(append([]string{}, categoryOrder...), CategoryOther) {
		if count := a.CategoryCounts[category]; count > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", humanizeTag(category), count)
		}
	}

	b.WriteString("\nSample open bug titles:\n")
	sampled := 0
	for _, bc := range a.Bugs {
		if bc.Issue.State != "open" {
			continue
		}
		fmt.Fprintf(&b, "- #%d %s\n", bc.Issue.Number, bc.Issue.Title)
		sampled++
		if sampled == 20 {
			break
		}
	}
	if sampled == 0 {
		b.WriteString("(none open)\n")
	}

	return b.String()
}
