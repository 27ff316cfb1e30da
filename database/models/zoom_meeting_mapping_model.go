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

package models

import (
	"time"

	"github.com/google/uuid"
)

// ZoomMeetingToConnectionMapping maps a Zoom meeting id to the connection
// whose user owns that meeting. A meeting id is unique within an app -
// when a second user of the same app claims it, the row gets repointed
// to the newer connection.
type ZoomMeetingToConnectionMapping struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ZoomOAuthAppID uuid.UUID    `json:"zoomOauthAppId" gorm:"type:uuid;not null;uniqueIndex:idx_zoom_meeting_mappings_app_meeting"`
	ZoomOAuthApp   ZoomOAuthApp `json:"-" gorm:"foreignKey:ZoomOAuthAppID;constraint:OnDelete:CASCADE;"`

	ZoomOAuthConnectionID uuid.UUID           `json:"zoomOauthConnectionId" gorm:"type:uuid;not null;index"`
	ZoomOAuthConnection   ZoomOAuthConnection `json:"-" gorm:"foreignKey:ZoomOAuthConnectionID;constraint:OnDelete:CASCADE;"`

	MeetingID string `json:"meetingId" gorm:"type:text;not null;uniqueIndex:idx_zoom_meeting_mappings_app_meeting"`
}

func (ZoomMeetingToConnectionMapping) TableName() string {
	return "zoom_meeting_to_connection_mappings"
}
