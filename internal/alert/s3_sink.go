package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/okieraised/alert-watcher/internal/common"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/s3_client"
)

// S3Sink archives alerts as JSON objects under
// <keyPrefix>/<yyyy>/<mm>/<dd>/<event_id>.json for later audit.
type S3Sink struct {
	bucket    string
	keyPrefix string
	put       func(ctx context.Context, bucket, key string, body []byte) error
}

func NewS3Sink(bucket, keyPrefix string) *S3Sink {
	if keyPrefix == "" {
		keyPrefix = constants.S3DefaultAlertKeyPrefix
	}
	return &S3Sink{
		bucket:    bucket,
		keyPrefix: keyPrefix,
		put:       s3_client.PutJSON,
	}
}

func (s *S3Sink) Name() string {
	return "s3"
}

func (s *S3Sink) Deliver(ctx context.Context, evt common.AlertEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "failed to encode alert event")
	}
	key := fmt.Sprintf("%s/%s/%s.json",
		s.keyPrefix,
		evt.Header.Timestamp.UTC().Format("2006/01/02"),
		evt.Header.EventID,
	)
	return s.put(ctx, s.bucket, key, body)
}
