// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type zoomOAuthAppRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.ZoomOAuthApp, shared.DB]
}

func NewZoomOAuthAppRepository(db shared.DB) *zoomOAuthAppRepository {
	return &zoomOAuthAppRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ZoomOAuthApp](db),
	}
}

func (r *zoomOAuthAppRepository) FindByProjectID(projectID uuid.UUID) (models.ZoomOAuthApp, error) {
	var app models.ZoomOAuthApp
	err := r.db.First(&app, "project_id = ?", projectID).Error
	return app, err
}

func (r *zoomOAuthAppRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthApp, error) {
	var app models.ZoomOAuthApp
	err := r.db.First(&app, "project_id = ? AND object_id = ?", projectID, objectID).Error
	return app, err
}

func (r *zoomOAuthAppRepository) ReadByObjectID(objectID string) (models.ZoomOAuthApp, error) {
	var app models.ZoomOAuthApp
	err := r.db.First(&app, "object_id = ?", objectID).Error
	return app, err
}
