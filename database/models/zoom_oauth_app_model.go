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

	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ZoomOAuthApp holds the Zoom marketplace app credentials of a project.
// There is exactly one per project. The credential columns are encrypted
// at rest, in memory they behave like plain strings.
type ZoomOAuthApp struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ObjectID string `json:"objectId" gorm:"type:text;uniqueIndex;not null"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;uniqueIndex;not null"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	ClientID      databasetypes.EncryptedString `json:"-" gorm:"type:text;not null"`
	ClientSecret  databasetypes.EncryptedString `json:"-" gorm:"type:text;not null"`
	WebhookSecret databasetypes.EncryptedString `json:"-" gorm:"type:text;not null;default:''"`
}

func (ZoomOAuthApp) TableName() string {
	return "zoom_oauth_apps"
}

func (a *ZoomOAuthApp) BeforeCreate(tx *gorm.DB) error {
	if a.ObjectID == "" {
		a.ObjectID = NewObjectID(ObjectIDPrefixZoomOAuthApp)
	}
	return nil
}
