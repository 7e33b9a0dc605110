package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/slack_client"
)

func TestSlackMessage_Failover(t *testing.T) {
	evt := common.NewFailoverEvent("agent-1", "blue", "green")
	evt.Header.Timestamp = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	msg, err := SlackMessage(evt)
	assert.NoError(t, err)
	assert.Equal(t, "🔄 Failover Detected: blue → green", msg.Text)
	assert.Len(t, msg.Blocks, 3)

	assert.Equal(t, slack_client.BlockTypeHeader, msg.Blocks[0].Type)
	assert.Equal(t, "🔄 Blue-Green Failover Detected", msg.Blocks[0].Text.Text)

	fields := msg.Blocks[1].Fields
	assert.Len(t, fields, 4)
	assert.Equal(t, "*From:* blue", fields[0].Text)
	assert.Equal(t, "*To:* green", fields[1].Text)
	assert.Equal(t, "*Time:* 2025-03-14 09:30:00 UTC", fields[2].Text)
	assert.Equal(t, "*Reason:* Upstream failure detected", fields[3].Text)

	assert.Equal(t, slack_client.BlockTypeContext, msg.Blocks[2].Type)
	assert.Equal(t, "💡 *Action:* Check health of blue pool - see RUNBOOK.md for details", msg.Blocks[2].Elements[0].Text)
}

func TestSlackMessage_ErrorRate(t *testing.T) {
	evt := common.NewErrorRateEvent("agent-1", 5.2345, 2.0, "Green-v2.1.0", 200)
	evt.Header.Timestamp = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	msg, err := SlackMessage(evt)
	assert.NoError(t, err)
	assert.Equal(t, "⚠️ High Error Rate: 5.2%", msg.Text)
	assert.Len(t, msg.Blocks, 4)

	assert.Equal(t, "⚠️ High Error Rate Detected", msg.Blocks[0].Text.Text)

	fields := msg.Blocks[1].Fields
	assert.Len(t, fields, 4)
	assert.Equal(t, "*Error Rate:* 5.23%", fields[0].Text)
	assert.Equal(t, "*Threshold:* 2%", fields[1].Text)
	assert.Equal(t, "*Active Pool:* Green-v2.1.0", fields[2].Text)
	assert.Equal(t, "*Window:* Last 200 requests", fields[3].Text)

	assert.Equal(t, slack_client.BlockTypeSection, msg.Blocks[2].Type)
	assert.Equal(t, "*Time:* 2025-03-14 09:30:00 UTC", msg.Blocks[2].Text.Text)

	assert.Equal(t, "💡 *Action:* Inspect logs with `docker-compose logs green` - see RUNBOOK.md", msg.Blocks[3].Elements[0].Text)
}

func TestSlackMessage_Recovery(t *testing.T) {
	evt := common.NewRecoveryEvent("agent-1", "blue", 207*time.Second)
	evt.Header.Timestamp = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	msg, err := SlackMessage(evt)
	assert.NoError(t, err)
	assert.Equal(t, "✅ Service Recovered: blue", msg.Text)
	assert.Len(t, msg.Blocks, 3)

	assert.Equal(t, "✅ Primary Pool Restored", msg.Blocks[0].Text.Text)

	fields := msg.Blocks[1].Fields
	assert.Len(t, fields, 3)
	assert.Equal(t, "*Pool:* blue", fields[0].Text)
	assert.Equal(t, "*Time:* 2025-03-14 09:30:00 UTC", fields[1].Text)
	assert.Equal(t, "*Duration on backup:* 3m 27s", fields[2].Text)

	assert.Equal(t, "✅ Normal operation resumed", msg.Blocks[2].Elements[0].Text)
}

func TestSlackMessage_Rejections(t *testing.T) {
	_, err := SlackMessage(common.AlertEvent{Type: "bogus"})
	assert.Error(t, err)

	_, err = SlackMessage(common.AlertEvent{Type: constants.AlertTypeFailover})
	assert.Error(t, err)
}

func TestFormatBackupDuration(t *testing.T) {
	tests := []struct {
		sec  int64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m 0s"},
		{207, "3m 27s"},
		{3725, "62m 5s"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatBackupDuration(tc.sec))
	}
}

func TestComposeService(t *testing.T) {
	assert.Equal(t, "blue", composeService("Blue-v2"))
	assert.Equal(t, "green", composeService("green"))
	assert.Equal(t, "unknown", composeService("Unknown"))
}
