package constants

import "time"

const (
	WatcherVersion = "1.1.0"
)

const (
	WatcherDefaultHTTPPort       = 8080
	WatcherDefaultMonitoringPort = 6060
)

const (
	DefaultHTTPRequestTimeout = 10
	GraceWaitPeriod           = 10 * time.Second
)

const (
	DefaultAccessLogPath      = "/var/log/nginx/access.log"
	DefaultPrimaryPoolPrefix  = "blue"
	DefaultErrorRateThreshold = 2.0
	DefaultWindowSize         = 200
	DefaultAlertCooldown      = 300 * time.Second
)

const (
	SlackDefaultRequestTimeout = 10 * time.Second
	AlertDefaultQueueSize      = 64
	AlertDefaultDeliverTimeout = 15 * time.Second
)

const (
	MqttDefaultAlertTopicPrefix = "alert-watcher/alerts"
	S3DefaultAlertKeyPrefix     = "alerts"
)

const (
	TailDefaultWaitInterval = 5 * time.Second
	TailDefaultPollInterval = 100 * time.Millisecond
)

const (
	PoolRegistryDefaultTTL = 15 * time.Minute
)

const (
	MqttDefaultPublishQoS           = 1
	MqttDefaultWriteTimeout         = 10 * time.Second
	MqttDefaultKeepAlive            = 30 * time.Second
	MqttDefaultPingTimeout          = 5 * time.Second
	MqttDefaultMaxReconnectInterval = 30 * time.Second
	MqttDefaultConnectTimeout       = 10 * time.Second
	MqttDefaultConnectRetryInterval = 10 * time.Second
)
