package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/okieraised/alert-watcher/internal/agent/access_log_watcher"
	"github.com/okieraised/alert-watcher/internal/agent/pool_registry"
	"github.com/okieraised/alert-watcher/internal/alert"
	"github.com/okieraised/alert-watcher/internal/config"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/event_hub"
	"github.com/okieraised/alert-watcher/internal/infrastructure/local_cache"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log_tailer"
	"github.com/okieraised/alert-watcher/internal/infrastructure/mqtt_client"
	"github.com/okieraised/alert-watcher/internal/infrastructure/s3_client"
	"github.com/okieraised/alert-watcher/internal/infrastructure/slack_client"
	"github.com/okieraised/alert-watcher/internal/infrastructure/tracer_client"
	"github.com/okieraised/alert-watcher/internal/server/monitoring"
	"github.com/okieraised/alert-watcher/internal/server/rest_server"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/routers"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/restful"
	"github.com/okieraised/alert-watcher/internal/server/rest_server/services/v1/ws"
	"github.com/okieraised/alert-watcher/internal/utilities"
)

var once sync.Once

func mirrorEnvCase() {
	for _, kv := range os.Environ() {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		k, v := kv[:i], kv[i+1:]
		_ = os.Setenv(strings.ToUpper(k), v)
		_ = os.Setenv(strings.ToLower(k), v)
	}
}

func loadDotenvIfExists(filename string, overload bool) (bool, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if overload {
		return true, godotenv.Overload(filename)
	}
	return true, godotenv.Load(filename)
}

func readConfigIfExists(path string, merge bool) (bool, error) {
	viper.SetConfigFile(path)
	var err error
	if merge {
		err = viper.MergeInConfig()
	} else {
		err = viper.ReadInConfig()
	}
	if err == nil {
		return true, nil
	}
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) || os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func detectProfile() string {
	from := func(k string) (string, bool) {
		if v, ok := os.LookupEnv(k); ok {
			return strings.ToLower(v), true
		}
		if v, ok := os.LookupEnv(strings.ToUpper(k)); ok {
			return strings.ToLower(v), true
		}
		if v, ok := os.LookupEnv(strings.ToLower(k)); ok {
			return strings.ToLower(v), true
		}
		return "", false
	}
	if v, ok := from("APP_ENV"); ok {
		return v
	}
	return "dev"
}

// Load layers the configuration sources: .env, the profile .env, the base
// TOML file, the profile TOML file, then environment variables. Every
// source is optional so an env-only deployment starts with the shipped
// defaults.
func Load() error {
	envFound, err := loadDotenvIfExists(".env", false)
	if err != nil {
		return err
	}
	if envFound {
		mirrorEnvCase()
	}
	profile := detectProfile()

	if pfFound, err := loadDotenvIfExists("."+profile+".env", true); err != nil {
		return err
	} else if pfFound {
		mirrorEnvCase()
	}

	if _, err := readConfigIfExists("conf/config.toml", false); err != nil {
		return err
	}

	if _, err := readConfigIfExists("conf/"+profile+".config.toml", true); err != nil {
		return err
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()
	config.BindEnvAliases()

	return nil
}

func init() {
	once.Do(func() {
		err := Load()
		if err != nil {
			panic(fmt.Sprintf("Failed to setup service configuration: %v", err))
		}

		// Init default logger
		err = log.InitDefault()
		if err != nil {
			panic(err)
		}

		// Initialize websocket event hub
		eventHub := event_hub.NewEventHub()
		eventHub.Run(context.Background())

		// Initialize Slack webhook client if an URL is configured
		if webhookURL := viper.GetString(config.SlackWebhookURL); webhookURL != "" {
			log.Default().Info("Started initializing Slack webhook client")
			err = slack_client.NewSlackClient(
				webhookURL,
				slack_client.WithTimeout(utilities.ParseOrDefault(viper.GetString(config.SlackRequestTimeout), constants.SlackDefaultRequestTimeout)),
			)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize Slack webhook client: %v", err))
			}
			log.Default().Info("Finished initializing Slack webhook client")
		}

		// Initialize S3 client if enabled
		if viper.GetBool(config.WatcherEnableS3) {
			log.Default().Info("Started initializing client connection to external S3 storage")
			err = s3_client.NewS3Client(
				context.Background(),
				s3_client.WithRegion(viper.GetString(config.S3Region)),
				s3_client.WithEndpoint(viper.GetString(config.S3Endpoint), viper.GetBool(config.S3UsePathStyle)),
				s3_client.WithStaticCredentials(viper.GetString(config.S3AccessKey), viper.GetString(config.S3SecretKey), ""),
				s3_client.WithRetry(5, 30*time.Second),
				s3_client.WithHTTPClient(
					&http.Client{
						Transport: &http.Transport{
							TLSClientConfig: &tls.Config{
								InsecureSkipVerify: viper.GetBool(config.S3TLSInsecureSkipVerify),
							},
						},
					},
				),
			)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize client connection to external S3 storage: %v", err))
			}
			log.Default().Info("Finished initializing client connection to external S3 storage")
		}

		// Initialize MQTT client if enabled
		if viper.GetBool(config.WatcherEnableMQTT) {
			log.Default().Info("Started initializing client connection to MQTT broker")
			err = mqtt_client.NewMQTTClient(
				viper.GetString(config.MqttEndpoint),
				viper.GetString(config.MqttClientId),
				mqtt_client.WithAutoReconnect(viper.GetBool(config.MqttAutoReconnect)),
				mqtt_client.WithConnectTimeout(5*time.Second),
				mqtt_client.WithTLSInsecureSkipVerify(viper.GetBool(config.MqttTLSInsecureSkipVerify)),
			)
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize client connection to MQTT broker: %v", err))
			}
			log.Default().Info("Finished initializing client connection to MQTT broker")
		}

		// Initialize OTEL tracer if enabled
		if viper.GetBool(config.WatcherEnableTracing) {
			log.Default().Info("Started initializing OTEL tracer")
			_, err = tracer_client.NewTracerClient()
			if err != nil {
				log.Default().Fatal(fmt.Sprintf("Failed to initialize OTEL tracer: %v", err))
			}
			log.Default().Info("Finished initializing OTEL tracer")
		}

		// Initialize local cache
		log.Default().Info("Started initializing local cache")
		err = local_cache.NewLocalCache()
		if err != nil {
			log.Default().Fatal(fmt.Sprintf("Failed to initialize local cache: %v", err))
		}
		log.Default().Info("Finished initializing local cache")
		log.Default().Info("Finished initializing connection to external services")
	})
}

func newAlertSinks() []alert.Sink {
	var webhook *slack_client.Webhook
	if slack_client.Initialized() {
		webhook = slack_client.Client()
	}

	sinks := []alert.Sink{
		alert.NewSlackSink(webhook),
		alert.NewHubSink(event_hub.GetEventHubInstance()),
	}

	if viper.GetBool(config.WatcherEnableMQTT) {
		sinks = append(sinks, alert.NewMQTTSink(viper.GetString(config.MqttAlertTopicPrefix)))
	}

	if viper.GetBool(config.WatcherEnableS3) {
		bucket := viper.GetString(config.S3AlertBucket)
		if bucket != "" {
			sinks = append(sinks, alert.NewS3Sink(bucket, viper.GetString(config.S3AlertKeyPrefix)))
		} else {
			log.Default().Warn("S3 alert archive enabled without a bucket, skipping sink")
		}
	}

	return sinks
}

func main() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	var err error

	// Assemble the alert pipeline
	watcherConf := access_log_watcher.FromViper()
	registry := pool_registry.NewRegistry(constants.PoolRegistryDefaultTTL, pool_registry.WithPrimaryPrefix(watcherConf.PrimaryPoolPrefix))
	tailer := log_tailer.New(watcherConf.LogFilePath)
	dispatcher := alert.NewDispatcher(newAlertSinks(), alert.WithQueueSize(viper.GetInt(config.AlertQueueSize)))

	watcher, err := access_log_watcher.New(
		watcherConf,
		tailer.Lines(),
		dispatcher,
		access_log_watcher.WithPoolRecorder(registry),
	)
	if err != nil {
		log.Default().Fatal(fmt.Sprintf("Failed to initialize access log watcher: %v", err))
		return
	}

	parentCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(parentCtx)

	// Tail the access log
	g.Go(func() error {
		tErr := tailer.Run(ctx)
		if tErr != nil {
			return tErr
		}
		return ctx.Err()
	})

	// Consume log lines and raise alerts
	g.Go(func() error {
		wErr := watcher.Run(ctx)
		if wErr != nil {
			return wErr
		}
		return ctx.Err()
	})

	// Deliver alert events to the configured sinks
	g.Go(func() error {
		dErr := dispatcher.Run(ctx)
		if dErr != nil {
			return dErr
		}
		return ctx.Err()
	})

	// Init profiling
	g.Go(func() error {
		if viper.GetBool(config.WatcherEnableMonitoring) {
			mErr := monitoring.NewMonitoringServer(ctx)
			if mErr != nil {
				return mErr
			}
		}

		return ctx.Err()
	})

	// Init HTTP server
	g.Go(func() error {
		// app state
		appState := routers.NewAppState()

		// v1 restful svc
		v1RestState := routers.NewV1RestState()
		v1RestState.SetHealthcheckService(
			restful.NewHealthcheckService(),
		)
		v1RestState.SetStatusService(
			restful.NewStatusService(
				restful.WithWatcher(watcher),
				restful.WithPoolRegistry(registry),
				restful.WithDispatcher(dispatcher),
				restful.WithEventHub(event_hub.GetEventHubInstance()),
			),
		)
		appState.SetV1RestState(v1RestState)

		// websocket svc
		websocketState := routers.NewWebsocketState()
		websocketState.SetEventStreamService(
			ws.NewEventStreamService(
				ws.WithEventHub(event_hub.GetEventHubInstance()),
			),
		)
		appState.SetWebsocketState(websocketState)

		rErr := rest_server.NewHTTPServer(ctx, routers.NewRootRouter(appState).InitRouters)
		if rErr != nil {
			return rErr
		}
		return ctx.Err()
	})

	select {
	case sig := <-sigCh:
		log.Default().Debug(fmt.Sprintf("Signal received: %v", sig))
		cancel()

		done := make(chan error, 1)
		go func() {
			done <- g.Wait()
		}()

		select {
		case err = <-done:
			log.Default().Info("All tasks exited, shutting down watcher")
			return
		case sig2 := <-sigCh:
			log.Default().Debug(fmt.Sprintf("Second signal received: %v", sig2))
			return
		case <-time.After(constants.GraceWaitPeriod):
			log.Default().Info("Grace period timed out, forcing exit")
			return
		}

	case err = <-func() chan error {
		ch := make(chan error, 1)
		go func() {
			ch <- g.Wait()
		}()
		return ch
	}():
		log.Default().Info(fmt.Sprintf("Services finished early with error: %v", err))
	}
}
