package main

import (
	"log"

	"github.com/slack-go/slack"
)

// SlackNotifier mirrors the digest into a Slack channel for the teams that
// are not on the WhatsApp group.
type SlackNotifier struct {
	api *slack.Client
}

func NewSlackNotifier(token string) *SlackNotifier {
	return &SlackNotifier{api: slack.New(token)}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(channelID, text string) error {
	_, ts, err := s.api.PostMessage(channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return err
	}
	log.Printf("slack sent channel=%s ts=%s", channelID, ts)
	return nil
}
