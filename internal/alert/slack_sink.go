package alert

import (
	"context"
	"fmt"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/okieraised/alert-watcher/internal/infrastructure/slack_client"
)

// SlackSink posts alerts to a Slack incoming webhook. A nil webhook is
// allowed so the rest of the pipeline keeps working on installs without
// Slack; such deliveries are logged and skipped.
type SlackSink struct {
	webhook *slack_client.Webhook
	logger  *log.Logger
}

func NewSlackSink(webhook *slack_client.Webhook) *SlackSink {
	return &SlackSink{
		webhook: webhook,
		logger:  log.Default().Named("slack_sink"),
	}
}

func (s *SlackSink) Name() string {
	return "slack"
}

func (s *SlackSink) Deliver(ctx context.Context, evt common.AlertEvent) error {
	if s.webhook == nil {
		s.logger.Warn("SLACK_WEBHOOK_URL not configured, skipping alert")
		return nil
	}

	msg, err := SlackMessage(evt)
	if err != nil {
		return err
	}
	if err := s.webhook.Post(ctx, &msg); err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("Slack alert sent: %s", evt.Type))
	return nil
}
