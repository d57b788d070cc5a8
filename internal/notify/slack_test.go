package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_Notify(t *testing.T) {
	receivedMessage := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		receivedMessage, _ = payload["text"].(string)
		assert.Equal(t, DefaultUsername, payload["username"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	require.NoError(t, notifier.Notify(context.Background(), "best: static_step.f.2"))
	assert.Equal(t, "best: static_step.f.2", receivedMessage)
}

func TestSlackNotifier_Notify_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewSlackNotifier(server.URL).Notify(context.Background(), "test")
	assert.Error(t, err, "expected error for non-OK status code")
}

func TestSlackNotifier_Notify_MissingURL(t *testing.T) {
	err := NewSlackNotifier("").Notify(context.Background(), "test")
	assert.Error(t, err)
}

type errorTransport struct{}

func (t *errorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestSlackNotifier_Notify_ClientError(t *testing.T) {
	notifier := NewSlackNotifier("http://invalid-url")
	notifier.Client = &http.Client{Transport: &errorTransport{}}

	err := notifier.Notify(context.Background(), "test")
	assert.Error(t, err)
}

func TestSlackNotifier_Notify_InvalidURL(t *testing.T) {
	err := NewSlackNotifier(":").Notify(context.Background(), "test")
	assert.Error(t, err)
}
