// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package zoomint

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

const (
	WebhookEventURLValidation   = "endpoint.url_validation"
	WebhookEventAppDeauthorized = "app_deauthorized"

	// SignatureHeader and TimestampHeader are the request headers Zoom
	// signs its webhook deliveries with.
	SignatureHeader = "x-zm-signature"
	TimestampHeader = "x-zm-request-timestamp"

	signatureTolerance = 5 * time.Minute
)

type WebhookEvent struct {
	Event   string          `json:"event"`
	EventTS int64           `json:"event_ts"`
	Payload json.RawMessage `json:"payload"`
}

type URLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

type DeauthorizationPayload struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id"`
}

// VerifyWebhookSignature checks Zoom's v0 signature scheme: the signature
// header carries "v0=" followed by the hex HMAC-SHA256 of
// "v0:{timestamp}:{body}" keyed with the app's webhook secret. Timestamps
// further than five minutes from now are rejected to block replays.
func VerifyWebhookSignature(webhookSecret string, timestamp string, body []byte, signature string) bool {
	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := time.Since(time.Unix(seconds, 0))
	if skew > signatureTolerance || skew < -signatureTolerance {
		return false
	}

	message := "v0:" + timestamp + ":" + string(body)
	expected := "v0=" + hmacSHA256Hex(webhookSecret, message)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ChallengeResponse answers an endpoint.url_validation event: the plain
// token hashed with the webhook secret, hex encoded.
func ChallengeResponse(webhookSecret string, plainToken string) string {
	return hmacSHA256Hex(webhookSecret, plainToken)
}

func hmacSHA256Hex(secret string, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
