package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortenRetryDelays(t *testing.T) {
	original := retryDelays
	retryDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	t.Cleanup(func() { retryDelays = original })
}

func TestSend(t *testing.T) {
	shortenRetryDelays(t)

	t.Run("should sign the body and return on the first 2xx", func(t *testing.T) {
		var receivedBody []byte
		var receivedHeader http.Header
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			receivedBody, _ = io.ReadAll(r.Body)
			receivedHeader = r.Header
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewWebhookClient(server.URL, "whsec_test")

		statusCode, err := client.Send("key-1", []byte(`{"hello":"world"}`))
		require.Nil(t, err)
		assert.Equal(t, http.StatusOK, statusCode)
		assert.Equal(t, 1, requests)

		assert.Equal(t, `{"hello":"world"}`, string(receivedBody))
		assert.Equal(t, "key-1", receivedHeader.Get("X-Webhook-Idempotency-Key"))

		mac := hmac.New(sha256.New, []byte("whsec_test"))
		mac.Write(receivedBody)
		assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), receivedHeader.Get("X-Webhook-Signature"))
	})

	t.Run("should retry until the subscriber accepts", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewWebhookClient(server.URL, "whsec_test")

		statusCode, err := client.Send("key-1", []byte(`{}`))
		require.Nil(t, err)
		assert.Equal(t, http.StatusNoContent, statusCode)
		assert.Equal(t, 3, requests)
	})

	t.Run("should give up with the last status code", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewWebhookClient(server.URL, "whsec_test")

		statusCode, err := client.Send("key-1", []byte(`{}`))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.Equal(t, http.StatusNotFound, statusCode)
		assert.Equal(t, 3, requests)
	})

	t.Run("should report when no response ever arrived", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewWebhookClient(server.URL, "whsec_test")

		statusCode, err := client.Send("key-1", []byte(`{}`))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "no response")
		assert.Equal(t, 0, statusCode)
	})
}
