package alert

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/common"
)

// Broadcaster pushes a raw frame to every connected websocket client.
type Broadcaster interface {
	Broadcast(data []byte)
}

// HubSink forwards alerts to the websocket event hub for live dashboards.
type HubSink struct {
	hub Broadcaster
}

func NewHubSink(hub Broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Name() string {
	return "event_hub"
}

func (s *HubSink) Deliver(_ context.Context, evt common.AlertEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "failed to encode alert event")
	}
	s.hub.Broadcast(data)
	return nil
}
