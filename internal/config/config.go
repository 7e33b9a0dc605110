package config

import "github.com/spf13/viper"

const (
	WatcherID                 = "watcher.id"
	WatcherEnableMonitoring   = "watcher.enable_monitoring"
	WatcherMonitoringPort     = "watcher.monitoring_port"
	WatcherLogLevel           = "watcher.log_level"
	WatcherHTTPPort           = "watcher.http_port"
	WatcherHTTPMode           = "watcher.http_mode"
	WatcherHTTPRequestTimeout = "watcher.http_request_timeout"
	WatcherTLSCertFile        = "watcher.tls_cert_file"
	WatcherTLSKeyFile         = "watcher.tls_key_file"
	WatcherEnableMQTT         = "watcher.enable_mqtt"
	WatcherEnableTracing      = "watcher.enable_tracing"
	WatcherEnableS3           = "watcher.enable_s3"
)

const (
	WatcherLogFilePath        = "watcher.log_file_path"
	WatcherPrimaryPoolPrefix  = "watcher.primary_pool_prefix"
	WatcherErrorRateThreshold = "watcher.error_rate_threshold"
	WatcherWindowSize         = "watcher.window_size"
	WatcherAlertCooldown      = "watcher.alert_cooldown"
	WatcherMaintenanceMode    = "watcher.maintenance_mode"
)

const (
	SlackWebhookURL     = "slack.webhook_url"
	SlackRequestTimeout = "slack.request_timeout"
)

const (
	AlertQueueSize = "alert.queue_size"
)

const (
	MqttEndpoint              = "mqtt.endpoint"
	MqttCleanSession          = "mqtt.clean_session"
	MqttClientId              = "mqtt.client_id"
	MqttAutoReconnect         = "mqtt.auto_reconnect"
	MqttConnectRetry          = "mqtt.connect_retry"
	MqttMaxConnectInterval    = "mqtt.max_connect_interval"
	MqttWriteTimeout          = "mqtt.write_timeout"
	MqttPingTimeout           = "mqtt.ping_timeout"
	MqttKeepAliveDuration     = "mqtt.keep_alive_duration"
	MqttResumeSubs            = "mqtt.resume_subs"
	MqttConnectTimeout        = "mqtt.connect_timeout"
	MqttConnectRetryInterval  = "mqtt.connect_retry_interval"
	MqttTLSInsecureSkipVerify = "mqtt.tls_insecure_skip_verify"
	MqttAlertTopicPrefix      = "mqtt.alert_topic_prefix"
)

const (
	OtlpEndpoint  = "otlp.endpoint"
	OtlpInsecure  = "otlp.insecure"
	OtlpNamespace = "otlp.namespace"
)

const (
	S3Region                = "s3.region"
	S3Endpoint              = "s3.endpoint"
	S3AccessKey             = "s3.access_key"
	S3SecretKey             = "s3.secret_key"
	S3UsePathStyle          = "s3.use_path_style"
	S3TLSInsecureSkipVerify = "s3.tls_insecure_skip_verify"
	S3AlertBucket           = "s3.alert_bucket"
	S3AlertKeyPrefix        = "s3.alert_key_prefix"
)

// BindEnvAliases keeps the flat environment names of earlier deployments
// working alongside the section__key form produced by AutomaticEnv. The
// section__key name wins when both are set.
func BindEnvAliases() {
	aliases := map[string][]string{
		WatcherLogFilePath:        {"WATCHER__LOG_FILE_PATH", "LOG_FILE_PATH"},
		WatcherPrimaryPoolPrefix:  {"WATCHER__PRIMARY_POOL_PREFIX", "PRIMARY_POOL_PREFIX"},
		WatcherErrorRateThreshold: {"WATCHER__ERROR_RATE_THRESHOLD", "ERROR_RATE_THRESHOLD"},
		WatcherWindowSize:         {"WATCHER__WINDOW_SIZE", "WINDOW_SIZE"},
		WatcherAlertCooldown:      {"WATCHER__ALERT_COOLDOWN", "ALERT_COOLDOWN_SEC"},
		WatcherMaintenanceMode:    {"WATCHER__MAINTENANCE_MODE", "MAINTENANCE_MODE"},
		SlackWebhookURL:           {"SLACK__WEBHOOK_URL", "SLACK_WEBHOOK_URL"},
	}
	for key, envs := range aliases {
		_ = viper.BindEnv(append([]string{key}, envs...)...)
	}
}
