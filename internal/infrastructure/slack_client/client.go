package slack_client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/utilities"
	"github.com/pkg/errors"
)

type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(o *Options) { o.HTTPClient = h }
}

func defaultOptions() Options {
	return Options{
		Timeout: constants.SlackDefaultRequestTimeout,
	}
}

// Webhook posts messages to a single incoming-webhook URL.
type Webhook struct {
	webhookURL string
	httpClient *http.Client
}

var (
	once   sync.Once
	client *Webhook
)

// NewWebhook builds a new, independent webhook client.
func NewWebhook(webhookURL string, opts ...Option) (*Webhook, error) {
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is empty")
	}
	conf := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&conf)
		}
	}
	httpClient := conf.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.Timeout}
	}
	return &Webhook{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}, nil
}

// NewSlackClient builds (or returns) the singleton webhook client.
func NewSlackClient(webhookURL string, opts ...Option) error {
	var initErr error
	once.Do(func() {
		c, err := NewWebhook(webhookURL, opts...)
		if err != nil {
			initErr = err
			return
		}
		client = c
	})
	return initErr
}

// Initialized reports whether the singleton is ready. The watcher runs
// without a webhook; callers skip delivery when this is false.
func Initialized() bool {
	return client != nil
}

func Client() *Webhook {
	if client == nil {
		panic("slack client not initialized; call NewSlackClient first")
	}
	return client
}

// Post delivers msg in a single attempt. Any non-2xx response is an error
// carrying the status and a truncated response body.
func (c *Webhook) Post(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode slack message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build slack request")
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to deliver slack message")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("slack webhook returned status %d: %s",
			resp.StatusCode, utilities.Truncate(strings.TrimSpace(string(respBody)), 512))
	}
	return nil
}
