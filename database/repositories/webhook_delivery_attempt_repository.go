// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type webhookDeliveryAttemptRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.WebhookDeliveryAttempt, shared.DB]
}

func NewWebhookDeliveryAttemptRepository(db shared.DB) *webhookDeliveryAttemptRepository {
	return &webhookDeliveryAttemptRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.WebhookDeliveryAttempt](db),
	}
}

func (r *webhookDeliveryAttemptRepository) ReadWithSubscription(id uuid.UUID) (models.WebhookDeliveryAttempt, error) {
	var attempt models.WebhookDeliveryAttempt
	err := r.db.Preload("WebhookSubscription").First(&attempt, "id = ?", id).Error
	return attempt, err
}
