// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookTrigger names an event a webhook subscription can listen for.
// Triggers are stored as a whitespace separated list on the subscription.
type WebhookTrigger string

const (
	WebhookTriggerZoomOAuthConnectionStateChange WebhookTrigger = "zoom_oauth_connection.state_change"
)

type WebhookDeliveryStatus string

const (
	WebhookDeliveryStatusPending   WebhookDeliveryStatus = "pending"
	WebhookDeliveryStatusSucceeded WebhookDeliveryStatus = "succeeded"
	WebhookDeliveryStatusFailed    WebhookDeliveryStatus = "failed"
)

// WebhookSubscription is a project scoped endpoint we post event
// notifications to. The secret signs every delivery and is encrypted at
// rest.
type WebhookSubscription struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ObjectID string `json:"objectId" gorm:"type:text;uniqueIndex;not null"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	URL    string                        `json:"url" gorm:"type:text;not null"`
	Secret databasetypes.EncryptedString `json:"-" gorm:"type:text;not null"`

	// whitespace separated list of WebhookTrigger values
	Triggers string `json:"triggers" gorm:"type:text;not null;default:''"`

	IsActive bool `json:"isActive" gorm:"not null;default:true"`
}

func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

func (w *WebhookSubscription) BeforeCreate(tx *gorm.DB) error {
	if w.ObjectID == "" {
		w.ObjectID = NewObjectID(ObjectIDPrefixWebhookSubscription)
	}
	return nil
}

// NewWebhookSecret generates the signing secret for a new subscription. It
// is returned to the caller exactly once, on create.
func NewWebhookSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "whsec_" + hex.EncodeToString(buf)
}

// WebhookDeliveryAttempt records a single event notification destined for
// one subscription. Delivery happens asynchronously through the task
// queue, the row carries the outcome.
type WebhookDeliveryAttempt struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	WebhookSubscriptionID uuid.UUID           `json:"webhookSubscriptionId" gorm:"type:uuid;not null;index"`
	WebhookSubscription   WebhookSubscription `json:"-" gorm:"foreignKey:WebhookSubscriptionID;constraint:OnDelete:CASCADE;"`

	Trigger WebhookTrigger `json:"trigger" gorm:"type:text;not null"`
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	Status             WebhookDeliveryStatus `json:"status" gorm:"type:text;not null;default:'pending'"`
	AttemptCount       int                   `json:"attemptCount" gorm:"not null;default:0"`
	LastAttemptedAt    *time.Time            `json:"lastAttemptedAt" gorm:"default:null"`
	ResponseStatusCode *int                  `json:"responseStatusCode" gorm:"default:null"`

	IdempotencyKey uuid.UUID `json:"idempotencyKey" gorm:"type:uuid;default:gen_random_uuid();not null"`
}

func (WebhookDeliveryAttempt) TableName() string {
	return "webhook_delivery_attempts"
}
