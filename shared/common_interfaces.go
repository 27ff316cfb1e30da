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

package shared

import (
	"context"
	"time"

	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/google/uuid"
)

type DaemonRunner interface {
	Start()
}

type LeaderElector interface {
	IsLeader() bool
}

type ConfigService interface {
	GetJSONConfig(key string, v any) error
	SetJSONConfig(key string, v any) error
	RemoveConfig(key string) error
}

type ConfigRepository interface {
	common.Repository[string, models.Config, DB]
}

type OrganizationRepository interface {
	common.Repository[uuid.UUID, models.Org, DB]
	ReadBySlug(slug string) (models.Org, error)
}

type ProjectRepository interface {
	common.Repository[uuid.UUID, models.Project, DB]
	ReadByObjectID(objectID string) (models.Project, error)
}

type APIKeyRepository interface {
	common.Repository[uuid.UUID, models.APIKey, DB]
	// FindByKeyHash returns the key with its project preloaded.
	FindByKeyHash(keyHash string) (models.APIKey, error)
	MarkAsLastUsedNow(id uuid.UUID) error
}

type ZoomOAuthAppRepository interface {
	common.Repository[uuid.UUID, models.ZoomOAuthApp, DB]
	FindByProjectID(projectID uuid.UUID) (models.ZoomOAuthApp, error)
	FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthApp, error)
	// ReadByObjectID is unscoped - it backs the inbound webhook route, which
	// authenticates via the webhook secret instead of an api key.
	ReadByObjectID(objectID string) (models.ZoomOAuthApp, error)
}

type ZoomOAuthConnectionRepository interface {
	common.Repository[uuid.UUID, models.ZoomOAuthConnection, DB]
	FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthConnection, error)
	// ListPage returns one page in -created_at order plus whether more rows
	// exist beyond it in scan direction.
	ListPage(projectID uuid.UUID, cursor *PageCursor, pageSize int) ([]models.ZoomOAuthConnection, bool, error)
	FindByAppAndUserID(appID uuid.UUID, userID string) (models.ZoomOAuthConnection, error)
	FindDisconnectedByAppID(appID uuid.UUID) ([]models.ZoomOAuthConnection, error)
	FindConnectedSyncStaleSince(cutoff time.Time) ([]models.ZoomOAuthConnection, error)
	CountByAppID(appID uuid.UUID) (int64, error)
}

type ZoomMeetingMappingRepository interface {
	common.Repository[uuid.UUID, models.ZoomMeetingToConnectionMapping, DB]
	// UpsertMeetingIDs repoints existing (app, meeting) rows to the given
	// connection and inserts the rest. CreatedAt of existing rows survives.
	UpsertMeetingIDs(tx DB, appID uuid.UUID, connectionID uuid.UUID, meetingIDs []string) error
}

type WebhookRepository interface {
	common.Repository[uuid.UUID, models.WebhookSubscription, DB]
	GetProjectWebhooks(projectID uuid.UUID) ([]models.WebhookSubscription, error)
	FindByObjectID(projectID uuid.UUID, objectID string) (models.WebhookSubscription, error)
}

type WebhookDeliveryAttemptRepository interface {
	common.Repository[uuid.UUID, models.WebhookDeliveryAttempt, DB]
	ReadWithSubscription(id uuid.UUID) (models.WebhookDeliveryAttempt, error)
}

type TaskRepository interface {
	common.Repository[uuid.UUID, models.Task, DB]
	// ClaimDue marks up to limit due pending tasks as running and returns
	// them. FOR UPDATE SKIP LOCKED keeps concurrent workers from claiming
	// the same task twice.
	ClaimDue(limit int) ([]models.Task, error)
}

type TaskService interface {
	Enqueue(taskType models.TaskType, payload any) error
	EnqueueAt(taskType models.TaskType, payload any, runAt time.Time) error
}

type ZoomOAuthConnectionService interface {
	Disconnect(connection *models.ZoomOAuthConnection, reason string) error
	Reconnect(connection *models.ZoomOAuthConnection) error
}

type WebhookDispatcher interface {
	DispatchConnectionStateChange(connection models.ZoomOAuthConnection) error
}

// ZoomClientFacade wraps the outbound calls to the Zoom API so services and
// controllers can be tested without network access.
type ZoomClientFacade interface {
	ExchangeAuthorizationCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (zoomint.TokenResponse, error)
	RefreshAccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (zoomint.TokenResponse, error)
	ValidateClientCredentials(ctx context.Context, clientID, clientSecret string) (bool, error)
	GetMe(ctx context.Context, accessToken string) (zoomint.User, error)
	ListMeetingIDs(ctx context.Context, accessToken string) ([]string, error)
}
