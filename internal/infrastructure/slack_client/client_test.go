package slack_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhook_Post(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		err := json.NewDecoder(r.Body).Decode(&got)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewWebhook(srv.URL)
	assert.NoError(t, err)

	msg := &Message{
		Text: "⚠️ High Error Rate: 5.0%",
		Blocks: []Block{
			HeaderBlock("⚠️ High Error Rate Detected"),
			SectionFields(
				Mrkdwn("*Error Rate:* 5.00%"),
				Mrkdwn("*Active Pool:* green-1"),
			),
		},
	}
	err = c.Post(context.Background(), msg)
	assert.NoError(t, err)

	assert.Equal(t, msg.Text, got.Text)
	assert.Len(t, got.Blocks, 2)
	assert.Equal(t, BlockTypeHeader, got.Blocks[0].Type)
	assert.Equal(t, TextTypePlainText, got.Blocks[0].Text.Type)
	assert.Len(t, got.Blocks[1].Fields, 2)
}

func TestWebhook_PostNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	c, err := NewWebhook(srv.URL)
	assert.NoError(t, err)

	err = c.Post(context.Background(), &Message{Text: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no_service")
}

func TestNewWebhook_EmptyURL(t *testing.T) {
	_, err := NewWebhook("")
	assert.Error(t, err)
}
