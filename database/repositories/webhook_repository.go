// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type webhookRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.WebhookSubscription, shared.DB]
}

func NewWebhookRepository(db shared.DB) *webhookRepository {
	return &webhookRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.WebhookSubscription](db),
	}
}

func (r *webhookRepository) GetProjectWebhooks(projectID uuid.UUID) ([]models.WebhookSubscription, error) {
	var subscriptions []models.WebhookSubscription

	if err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&subscriptions).Error; err != nil {
		return nil, err
	}

	return subscriptions, nil
}

func (r *webhookRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.WebhookSubscription, error) {
	var subscription models.WebhookSubscription
	if err := r.db.First(&subscription, "project_id = ? AND object_id = ?", projectID, objectID).Error; err != nil {
		return models.WebhookSubscription{}, err
	}
	return subscription, nil
}
