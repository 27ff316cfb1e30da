// Copyright (C) 2025 Attendee Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package dtos

import (
	"strings"
	"time"

	"github.com/attendee-dev/attendee/database/models"
)

type WebhookSubscriptionCreateRequest struct {
	URL      string   `json:"url" validate:"required,url"`
	Triggers []string `json:"triggers" validate:"required,min=1,dive,oneof=zoom_oauth_connection.state_change"`
}

type WebhookSubscriptionDTO struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Triggers  []string  `json:"triggers"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WebhookSubscriptionWithSecretDTO is only returned on create. The secret
// is shown exactly once.
type WebhookSubscriptionWithSecretDTO struct {
	WebhookSubscriptionDTO
	Secret string `json:"secret"`
}

func NewWebhookSubscriptionDTO(subscription models.WebhookSubscription) WebhookSubscriptionDTO {
	triggers := strings.Fields(subscription.Triggers)
	if triggers == nil {
		triggers = []string{}
	}

	return WebhookSubscriptionDTO{
		ID:        subscription.ObjectID,
		URL:       subscription.URL,
		Triggers:  triggers,
		IsActive:  subscription.IsActive,
		CreatedAt: subscription.CreatedAt,
		UpdatedAt: subscription.UpdatedAt,
	}
}
