// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/integrations/webhook"
	"github.com/attendee-dev/attendee/monitoring"
	"github.com/attendee-dev/attendee/shared"
	"github.com/attendee-dev/attendee/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// webhookEnvelope is the body subscribers receive. Data carries the
// connection payload exactly as it was frozen into the attempt row at
// dispatch time.
type webhookEnvelope struct {
	IdempotencyKey string                `json:"idempotency_key"`
	Trigger        models.WebhookTrigger `json:"trigger"`
	Data           json.RawMessage       `json:"data"`
}

type WebhookDeliveryService struct {
	attemptRepository shared.WebhookDeliveryAttemptRepository
}

func NewWebhookDeliveryService(attemptRepository shared.WebhookDeliveryAttemptRepository) *WebhookDeliveryService {
	return &WebhookDeliveryService{
		attemptRepository: attemptRepository,
	}
}

// DeliverAttempt posts one delivery attempt to its subscriber endpoint and
// records the outcome on the attempt row. A non-2xx outcome returns an
// error so the task queue retries it; isFinalAttempt marks the row failed
// when the queue will not.
func (s *WebhookDeliveryService) DeliverAttempt(attemptID uuid.UUID, isFinalAttempt bool) error {
	attempt, err := s.attemptRepository.ReadWithSubscription(attemptID)
	if err != nil {
		return errors.Wrap(err, "could not load webhook delivery attempt")
	}

	if attempt.Status == models.WebhookDeliveryStatusSucceeded {
		// already delivered, e.g. by a racing task runner
		return nil
	}

	body, err := json.Marshal(webhookEnvelope{
		IdempotencyKey: attempt.IdempotencyKey.String(),
		Trigger:        attempt.Trigger,
		Data:           json.RawMessage(attempt.Payload),
	})
	if err != nil {
		return errors.Wrap(err, "could not marshal webhook envelope")
	}

	client := webhook.NewWebhookClient(attempt.WebhookSubscription.URL, string(attempt.WebhookSubscription.Secret))
	statusCode, sendErr := client.Send(attempt.IdempotencyKey.String(), body)

	now := time.Now()
	attempt.AttemptCount++
	attempt.LastAttemptedAt = &now
	if statusCode != 0 {
		attempt.ResponseStatusCode = utils.Ptr(statusCode)
	}

	if sendErr == nil {
		attempt.Status = models.WebhookDeliveryStatusSucceeded
		monitoring.WebhookDeliverySucceededAmount.Inc()

		if err := s.attemptRepository.Save(nil, &attempt); err != nil {
			return errors.Wrap(err, "could not save webhook delivery attempt")
		}

		slog.Info("delivered webhook", "attemptId", attempt.ID, "statusCode", statusCode)
		return nil
	}

	if isFinalAttempt {
		attempt.Status = models.WebhookDeliveryStatusFailed
		monitoring.WebhookDeliveryFailedAmount.Inc()
	}

	if err := s.attemptRepository.Save(nil, &attempt); err != nil {
		return errors.Wrap(err, "could not save webhook delivery attempt")
	}

	slog.Warn("webhook delivery failed", "attemptId", attempt.ID, "statusCode", statusCode, "finalAttempt", isFinalAttempt, "err", sendErr)
	return sendErr
}
