// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"slices"
	"time"

	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type zoomOAuthConnectionRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.ZoomOAuthConnection, shared.DB]
}

func NewZoomOAuthConnectionRepository(db shared.DB) *zoomOAuthConnectionRepository {
	return &zoomOAuthConnectionRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ZoomOAuthConnection](db),
	}
}

// projectScoped joins the owning app so a query can never cross project
// boundaries.
func (r *zoomOAuthConnectionRepository) projectScoped(projectID uuid.UUID) shared.DB {
	return r.db.Model(&models.ZoomOAuthConnection{}).
		Joins("JOIN zoom_oauth_apps ON zoom_oauth_apps.id = zoom_oauth_connections.zoom_oauth_app_id").
		Where("zoom_oauth_apps.project_id = ?", projectID)
}

func (r *zoomOAuthConnectionRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthConnection, error) {
	var connection models.ZoomOAuthConnection
	err := r.projectScoped(projectID).
		Preload("ZoomOAuthApp").
		Where("zoom_oauth_connections.object_id = ?", objectID).
		First(&connection).Error
	return connection, err
}

func (r *zoomOAuthConnectionRepository) ListPage(projectID uuid.UUID, cursor *shared.PageCursor, pageSize int) ([]models.ZoomOAuthConnection, bool, error) {
	query := r.projectScoped(projectID).Preload("ZoomOAuthApp")

	reverse := cursor != nil && cursor.Reverse
	if cursor != nil {
		// tuple comparison against the (created_at, id) sort key
		if reverse {
			query = query.Where("(zoom_oauth_connections.created_at, zoom_oauth_connections.id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(zoom_oauth_connections.created_at, zoom_oauth_connections.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	if reverse {
		query = query.Order("zoom_oauth_connections.created_at ASC").Order("zoom_oauth_connections.id ASC")
	} else {
		query = query.Order("zoom_oauth_connections.created_at DESC").Order("zoom_oauth_connections.id DESC")
	}

	var connections []models.ZoomOAuthConnection
	if err := query.Limit(pageSize + 1).Find(&connections).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(connections) > pageSize
	if hasMore {
		connections = connections[:pageSize]
	}
	if reverse {
		slices.Reverse(connections)
	}
	return connections, hasMore, nil
}

func (r *zoomOAuthConnectionRepository) FindByAppAndUserID(appID uuid.UUID, userID string) (models.ZoomOAuthConnection, error) {
	var connection models.ZoomOAuthConnection
	err := r.db.Preload("ZoomOAuthApp").
		First(&connection, "zoom_oauth_app_id = ? AND user_id = ?", appID, userID).Error
	return connection, err
}

func (r *zoomOAuthConnectionRepository) FindDisconnectedByAppID(appID uuid.UUID) ([]models.ZoomOAuthConnection, error) {
	var connections []models.ZoomOAuthConnection
	err := r.db.Preload("ZoomOAuthApp").
		Where("zoom_oauth_app_id = ? AND state = ?", appID, models.ZoomOAuthConnectionStateDisconnected).
		Find(&connections).Error
	return connections, err
}

func (r *zoomOAuthConnectionRepository) FindConnectedSyncStaleSince(cutoff time.Time) ([]models.ZoomOAuthConnection, error) {
	var connections []models.ZoomOAuthConnection
	err := r.db.
		Where("state = ? AND (last_attempted_sync_at IS NULL OR last_attempted_sync_at < ?)", models.ZoomOAuthConnectionStateConnected, cutoff).
		Find(&connections).Error
	return connections, err
}

func (r *zoomOAuthConnectionRepository) CountByAppID(appID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.ZoomOAuthConnection{}).
		Where("zoom_oauth_app_id = ?", appID).
		Count(&count).Error
	return count, err
}
