package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/slack_client"
)

// SlackMessage renders an alert event into the Block Kit payload posted to
// the incoming webhook. The fallback text carries the one-line summary shown
// in notifications.
func SlackMessage(evt common.AlertEvent) (slack_client.Message, error) {
	switch evt.Type {
	case constants.AlertTypeFailover:
		if evt.Payload.Failover == nil {
			return slack_client.Message{}, errors.New("failover event is missing its payload")
		}
		return failoverMessage(evt), nil
	case constants.AlertTypeErrorRate:
		if evt.Payload.ErrorRate == nil {
			return slack_client.Message{}, errors.New("error rate event is missing its payload")
		}
		return errorRateMessage(evt), nil
	case constants.AlertTypeRecovery:
		if evt.Payload.Recovery == nil {
			return slack_client.Message{}, errors.New("recovery event is missing its payload")
		}
		return recoveryMessage(evt), nil
	default:
		return slack_client.Message{}, errors.Errorf("unknown alert type: %s", evt.Type)
	}
}

func failoverMessage(evt common.AlertEvent) slack_client.Message {
	p := evt.Payload.Failover
	ts := formatTimestamp(evt.Header.Timestamp)
	return slack_client.Message{
		Text: fmt.Sprintf("🔄 Failover Detected: %s → %s", p.FromPool, p.ToPool),
		Blocks: []slack_client.Block{
			slack_client.HeaderBlock("🔄 Blue-Green Failover Detected"),
			slack_client.SectionFields(
				slack_client.Mrkdwn(fmt.Sprintf("*From:* %s", p.FromPool)),
				slack_client.Mrkdwn(fmt.Sprintf("*To:* %s", p.ToPool)),
				slack_client.Mrkdwn(fmt.Sprintf("*Time:* %s", ts)),
				slack_client.Mrkdwn("*Reason:* Upstream failure detected"),
			),
			slack_client.ContextBlock(
				slack_client.Mrkdwn(fmt.Sprintf("💡 *Action:* Check health of %s pool - see RUNBOOK.md for details", p.FromPool)),
			),
		},
	}
}

func errorRateMessage(evt common.AlertEvent) slack_client.Message {
	p := evt.Payload.ErrorRate
	ts := formatTimestamp(evt.Header.Timestamp)
	return slack_client.Message{
		Text: fmt.Sprintf("⚠️ High Error Rate: %.1f%%", p.ErrorRate),
		Blocks: []slack_client.Block{
			slack_client.HeaderBlock("⚠️ High Error Rate Detected"),
			slack_client.SectionFields(
				slack_client.Mrkdwn(fmt.Sprintf("*Error Rate:* %.2f%%", p.ErrorRate)),
				slack_client.Mrkdwn(fmt.Sprintf("*Threshold:* %g%%", p.Threshold)),
				slack_client.Mrkdwn(fmt.Sprintf("*Active Pool:* %s", p.ActivePool)),
				slack_client.Mrkdwn(fmt.Sprintf("*Window:* Last %d requests", p.WindowSize)),
			),
			slack_client.SectionText(fmt.Sprintf("*Time:* %s", ts)),
			slack_client.ContextBlock(
				slack_client.Mrkdwn(fmt.Sprintf("💡 *Action:* Inspect logs with `docker-compose logs %s` - see RUNBOOK.md", composeService(p.ActivePool))),
			),
		},
	}
}

func recoveryMessage(evt common.AlertEvent) slack_client.Message {
	p := evt.Payload.Recovery
	ts := formatTimestamp(evt.Header.Timestamp)
	return slack_client.Message{
		Text: fmt.Sprintf("✅ Service Recovered: %s", p.Pool),
		Blocks: []slack_client.Block{
			slack_client.HeaderBlock("✅ Primary Pool Restored"),
			slack_client.SectionFields(
				slack_client.Mrkdwn(fmt.Sprintf("*Pool:* %s", p.Pool)),
				slack_client.Mrkdwn(fmt.Sprintf("*Time:* %s", ts)),
				slack_client.Mrkdwn(fmt.Sprintf("*Duration on backup:* %s", formatBackupDuration(p.DurationSec))),
			),
			slack_client.ContextBlock(
				slack_client.Mrkdwn("✅ Normal operation resumed"),
			),
		},
	}
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// formatBackupDuration renders whole seconds as "3m 27s", or just "27s"
// under a minute.
func formatBackupDuration(sec int64) string {
	minutes, seconds := sec/60, sec%60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// composeService maps a pool name like "Blue-v2" to the docker-compose
// service owning it.
func composeService(pool string) string {
	return strings.ToLower(strings.Split(pool, "-")[0])
}
