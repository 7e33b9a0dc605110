package common

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/pkg/errors"
)

type AlertEvent struct {
	Header  Header              `json:"header"`
	Type    constants.AlertType `json:"type"`
	Payload AlertBody           `json:"payload"`
}

// Header carries delivery metadata shared by every alert event.
type Header struct {
	EventID   uuid.UUID `json:"event_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	Hostname  string    `json:"hostname,omitempty"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertBody holds exactly one payload, matching the event type.
type AlertBody struct {
	Failover  *FailoverPayload  `json:"failover,omitempty"`
	ErrorRate *ErrorRatePayload `json:"error_rate,omitempty"`
	Recovery  *RecoveryPayload  `json:"recovery,omitempty"`
}

type FailoverPayload struct {
	FromPool string `json:"from_pool"`
	ToPool   string `json:"to_pool"`
}

type ErrorRatePayload struct {
	ErrorRate  float64 `json:"error_rate"`
	Threshold  float64 `json:"threshold"`
	ActivePool string  `json:"active_pool"`
	WindowSize int     `json:"window_size"`
}

type RecoveryPayload struct {
	Pool        string `json:"pool"`
	DurationSec int64  `json:"duration"`
}

func newHeader(agentID string) Header {
	hostname, _ := os.Hostname()
	return Header{
		EventID:   uuid.New(),
		AgentID:   agentID,
		Hostname:  hostname,
		Version:   constants.WatcherVersion,
		Timestamp: time.Now().UTC(),
	}
}

func NewFailoverEvent(agentID, fromPool, toPool string) AlertEvent {
	return AlertEvent{
		Header: newHeader(agentID),
		Type:   constants.AlertTypeFailover,
		Payload: AlertBody{
			Failover: &FailoverPayload{FromPool: fromPool, ToPool: toPool},
		},
	}
}

func NewErrorRateEvent(agentID string, rate, threshold float64, activePool string, windowSize int) AlertEvent {
	return AlertEvent{
		Header: newHeader(agentID),
		Type:   constants.AlertTypeErrorRate,
		Payload: AlertBody{
			ErrorRate: &ErrorRatePayload{
				ErrorRate:  rate,
				Threshold:  threshold,
				ActivePool: activePool,
				WindowSize: windowSize,
			},
		},
	}
}

func NewRecoveryEvent(agentID, pool string, backupFor time.Duration) AlertEvent {
	return AlertEvent{
		Header: newHeader(agentID),
		Type:   constants.AlertTypeRecovery,
		Payload: AlertBody{
			Recovery: &RecoveryPayload{Pool: pool, DurationSec: int64(backupFor.Seconds())},
		},
	}
}

func (evt *AlertEvent) Validate() error {
	if evt.Header.EventID == uuid.Nil {
		return errors.New("invalid/missing event id")
	}

	switch evt.Type {
	case constants.AlertTypeFailover:
		if evt.Payload.Failover == nil {
			return errors.New("failover event is missing its payload")
		}
		if evt.Payload.ErrorRate != nil || evt.Payload.Recovery != nil {
			return errors.Errorf("failover event carries extra payloads")
		}
	case constants.AlertTypeErrorRate:
		if evt.Payload.ErrorRate == nil {
			return errors.New("error rate event is missing its payload")
		}
		if evt.Payload.Failover != nil || evt.Payload.Recovery != nil {
			return errors.Errorf("error rate event carries extra payloads")
		}
	case constants.AlertTypeRecovery:
		if evt.Payload.Recovery == nil {
			return errors.New("recovery event is missing its payload")
		}
		if evt.Payload.Failover != nil || evt.Payload.ErrorRate != nil {
			return errors.Errorf("recovery event carries extra payloads")
		}
	default:
		return errors.Errorf("unknown alert type: %s", evt.Type)
	}

	return nil
}
