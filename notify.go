package main

import (
	"fmt"

	"github.com/slack-go/slack"
)

// PostReportSummary posts the short report summary to the configured Slack
// channel.
func PostReportSummary(api *slack.Client, channelID, summary string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(summary, false))
	if err != nil {
		return fmt.Errorf("posting report summary: %w", err)
	}
	return nil
}

func newSlackClient(cfg Config) *slack.Client {
	return slack.New(cfg.SlackBotToken)
}
