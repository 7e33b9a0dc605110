package access_log_watcher

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/okieraised/alert-watcher/internal/config"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/utilities"
)

// Config carries the tunables of the watcher loop.
type Config struct {
	AgentID            string
	LogFilePath        string
	PrimaryPoolPrefix  string
	ErrorRateThreshold float64
	WindowSize         int
	AlertCooldown      time.Duration
	MaintenanceMode    bool
	WebhookConfigured  bool
}

// FromViper assembles a Config from the loaded configuration, falling back
// to the shipped defaults for anything unset.
func FromViper() Config {
	conf := Config{
		AgentID:            viper.GetString(config.WatcherID),
		LogFilePath:        constants.DefaultAccessLogPath,
		PrimaryPoolPrefix:  constants.DefaultPrimaryPoolPrefix,
		ErrorRateThreshold: constants.DefaultErrorRateThreshold,
		WindowSize:         constants.DefaultWindowSize,
		AlertCooldown:      utilities.ParseOrDefault(viper.GetString(config.WatcherAlertCooldown), constants.DefaultAlertCooldown),
		MaintenanceMode:    viper.GetBool(config.WatcherMaintenanceMode),
		WebhookConfigured:  viper.GetString(config.SlackWebhookURL) != "",
	}
	if v := viper.GetString(config.WatcherLogFilePath); v != "" {
		conf.LogFilePath = v
	}
	if v := viper.GetString(config.WatcherPrimaryPoolPrefix); v != "" {
		conf.PrimaryPoolPrefix = v
	}
	if viper.IsSet(config.WatcherErrorRateThreshold) {
		conf.ErrorRateThreshold = viper.GetFloat64(config.WatcherErrorRateThreshold)
	}
	if v := viper.GetInt(config.WatcherWindowSize); v > 0 {
		conf.WindowSize = v
	}
	return conf
}

func (c Config) Validate() error {
	if c.LogFilePath == "" {
		return errors.New("log file path must not be empty")
	}
	if c.WindowSize < 1 {
		return errors.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.ErrorRateThreshold < 0 {
		return errors.Errorf("error rate threshold must not be negative, got %g", c.ErrorRateThreshold)
	}
	if c.AlertCooldown < 0 {
		return errors.Errorf("alert cooldown must not be negative, got %s", c.AlertCooldown)
	}
	return nil
}
