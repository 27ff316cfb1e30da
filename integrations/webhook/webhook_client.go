// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

const (
	signatureHeader      = "X-Webhook-Signature"
	idempotencyKeyHeader = "X-Webhook-Idempotency-Key"
)

// delays between send attempts within a single task execution
var retryDelays = []time.Duration{1 * time.Second, 5 * time.Second, 10 * time.Second}

type webhookClient struct {
	url    string
	secret string
}

func NewWebhookClient(url string, secret string) *webhookClient {
	return &webhookClient{
		url:    url,
		secret: secret,
	}
}

// Send posts the body to the subscriber endpoint. It returns the status
// code of the last response it got, 0 when no response ever arrived, and a
// nil error only for a 2xx. Receivers deduplicate on the idempotency key
// header, so retrying here is safe.
func (c *webhookClient) Send(idempotencyKey string, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	signature := c.sign(body)

	lastStatusCode := 0

	for i, delay := range retryDelays {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(signatureHeader, signature)
		req.Header.Set(idempotencyKeyHeader, idempotencyKey)

		resp, err := http.DefaultClient.Do(req)

		if err == nil && resp != nil {
			lastStatusCode = resp.StatusCode
			resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp.StatusCode, nil
			}
		}

		if i == len(retryDelays)-1 {
			if lastStatusCode == 0 {
				return 0, fmt.Errorf("webhook request failed with no response")
			}
			return lastStatusCode, fmt.Errorf("webhook request failed with status %d", lastStatusCode)
		}

		time.Sleep(delay)
	}

	// This should never be reached due to the return on the last attempt
	return lastStatusCode, fmt.Errorf("unexpected end of retry loop")
}

func (c *webhookClient) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
