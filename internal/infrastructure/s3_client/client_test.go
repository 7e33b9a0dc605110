package s3_client

import (
	"context"
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	err := NewS3Client(
		context.Background(),
		WithRegion("us-east-1"),
		WithEndpoint("https://s3.homelab.io", true),
		WithStaticCredentials("admin", "123456aA@", ""),
		WithRetry(5, 30*time.Second),
		WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		},
		),
	)
	assert.NoError(t, err)
	assert.NotNil(t, Client())
}
