// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TaskType string

const (
	TaskTypeSyncZoomOAuthConnection      TaskType = "sync_zoom_oauth_connection"
	TaskTypeValidateZoomOAuthConnections TaskType = "validate_zoom_oauth_connections"
	TaskTypeDeliverWebhook               TaskType = "deliver_webhook"
)

// MaxAttempts returns how often a task of this type may run before it is
// marked failed for good. Validation sweeps never retry - the next sweep
// covers the same ground anyway.
func (t TaskType) MaxAttempts() int {
	switch t {
	case TaskTypeValidateZoomOAuthConnections:
		return 1
	default:
		return 6
	}
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a unit of background work persisted in postgres. Workers claim
// due tasks with FOR UPDATE SKIP LOCKED, so multiple instances can drain
// the same queue without double execution.
type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Type    TaskType       `json:"type" gorm:"type:text;not null;index:idx_tasks_status_next_attempt,priority:3"`
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	Status        TaskStatus `json:"status" gorm:"type:text;not null;default:'pending';index:idx_tasks_status_next_attempt,priority:1"`
	Attempts      int        `json:"attempts" gorm:"not null;default:0"`
	MaxAttempts   int        `json:"maxAttempts" gorm:"not null;default:1"`
	NextAttemptAt time.Time  `json:"nextAttemptAt" gorm:"not null;default:now();index:idx_tasks_status_next_attempt,priority:2"`

	LastError string `json:"lastError" gorm:"type:text;not null;default:''"`
}

func (Task) TableName() string {
	return "tasks"
}

type SyncZoomOAuthConnectionPayload struct {
	ZoomOAuthConnectionID uuid.UUID `json:"zoom_oauth_connection_id"`
}

type ValidateZoomOAuthConnectionsPayload struct {
	ZoomOAuthAppID uuid.UUID `json:"zoom_oauth_app_id"`
}

type DeliverWebhookPayload struct {
	WebhookDeliveryAttemptID uuid.UUID `json:"webhook_delivery_attempt_id"`
}
