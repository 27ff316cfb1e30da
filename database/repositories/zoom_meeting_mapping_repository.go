// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type zoomMeetingMappingRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.ZoomMeetingToConnectionMapping, shared.DB]
}

func NewZoomMeetingMappingRepository(db shared.DB) *zoomMeetingMappingRepository {
	return &zoomMeetingMappingRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ZoomMeetingToConnectionMapping](db),
	}
}

func (r *zoomMeetingMappingRepository) UpsertMeetingIDs(tx shared.DB, appID uuid.UUID, connectionID uuid.UUID, meetingIDs []string) error {
	if len(meetingIDs) == 0 {
		return nil
	}

	mappings := make([]models.ZoomMeetingToConnectionMapping, 0, len(meetingIDs))
	for _, meetingID := range meetingIDs {
		if meetingID == "" {
			continue
		}
		mappings = append(mappings, models.ZoomMeetingToConnectionMapping{
			ZoomOAuthAppID:        appID,
			ZoomOAuthConnectionID: connectionID,
			MeetingID:             meetingID,
		})
	}
	if len(mappings) == 0 {
		return nil
	}

	// repoint existing rows to this connection, keep their created_at
	return r.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zoom_oauth_app_id"}, {Name: "meeting_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"zoom_oauth_connection_id", "updated_at"}),
	}).Create(&mappings).Error
}
