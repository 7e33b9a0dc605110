package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/mqtt_client"
)

// MQTTSink publishes each alert as JSON on <topicPrefix>/<alert_type> so
// fleet dashboards can subscribe per alert type.
type MQTTSink struct {
	topicPrefix string
	publish     func(topic string, qos byte, retained bool, payload []byte) error
}

func NewMQTTSink(topicPrefix string) *MQTTSink {
	if topicPrefix == "" {
		topicPrefix = constants.MqttDefaultAlertTopicPrefix
	}
	return &MQTTSink{
		topicPrefix: topicPrefix,
		publish:     mqtt_client.Publish,
	}
}

func (s *MQTTSink) Name() string {
	return "mqtt"
}

func (s *MQTTSink) Deliver(_ context.Context, evt common.AlertEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "failed to encode alert event")
	}
	topic := fmt.Sprintf("%s/%s", s.topicPrefix, evt.Type)
	return s.publish(topic, constants.MqttDefaultPublishQoS, false, payload)
}
