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

type ZoomOAuthConnectionState string

const (
	ZoomOAuthConnectionStateConnected    ZoomOAuthConnectionState = "connected"
	ZoomOAuthConnectionStateDisconnected ZoomOAuthConnectionState = "disconnected"
)

// credential keys inside the encrypted credentials blob
const (
	CredentialKeyRefreshToken = "refresh_token"
)

// ZoomOAuthConnection is a single Zoom user's authorization against a
// project's ZoomOAuthApp. The refresh token lives inside Credentials and
// never leaves the database layer unencrypted on disk or in API responses.
type ZoomOAuthConnection struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ObjectID string `json:"objectId" gorm:"type:text;uniqueIndex;not null"`

	ZoomOAuthAppID uuid.UUID    `json:"zoomOauthAppId" gorm:"type:uuid;not null;index:idx_zoom_oauth_connections_app_state;index:idx_zoom_oauth_connections_app_user"`
	ZoomOAuthApp   ZoomOAuthApp `json:"-" gorm:"foreignKey:ZoomOAuthAppID;constraint:OnDelete:RESTRICT;"`

	State ZoomOAuthConnectionState `json:"state" gorm:"type:text;not null;default:'connected';index:idx_zoom_oauth_connections_app_state"`

	Credentials databasetypes.EncryptedJSONB `json:"-" gorm:"type:text"`

	UserID    string `json:"userId" gorm:"type:text;not null;default:'';index:idx_zoom_oauth_connections_app_user"`
	AccountID string `json:"accountId" gorm:"type:text;not null;default:''"`

	Metadata              databasetypes.JSONB `json:"metadata" gorm:"type:jsonb"`
	ConnectionFailureData databasetypes.JSONB `json:"connectionFailureData" gorm:"type:jsonb"`

	LastSuccessfulSyncStartedAt *time.Time `json:"lastSuccessfulSyncStartedAt" gorm:"default:null"`
	LastSuccessfulSyncAt        *time.Time `json:"lastSuccessfulSyncAt" gorm:"default:null"`
	LastAttemptedSyncAt         *time.Time `json:"lastAttemptedSyncAt" gorm:"default:null"`
}

func (ZoomOAuthConnection) TableName() string {
	return "zoom_oauth_connections"
}

func (c *ZoomOAuthConnection) BeforeCreate(tx *gorm.DB) error {
	if c.ObjectID == "" {
		c.ObjectID = NewObjectID(ObjectIDPrefixZoomOAuthConnection)
	}
	return nil
}

// RefreshToken returns the stored refresh token or the empty string if
// none is present.
func (c *ZoomOAuthConnection) RefreshToken() string {
	if c.Credentials == nil {
		return ""
	}
	token, _ := c.Credentials[CredentialKeyRefreshToken].(string)
	return token
}

func (c *ZoomOAuthConnection) SetRefreshToken(token string) {
	if c.Credentials == nil {
		c.Credentials = databasetypes.EncryptedJSONB{}
	}
	c.Credentials[CredentialKeyRefreshToken] = token
}

// MarkDisconnected flips the connection into the disconnected state and
// records why. The reason ends up in the api response verbatim.
func (c *ZoomOAuthConnection) MarkDisconnected(reason string) {
	c.State = ZoomOAuthConnectionStateDisconnected
	c.ConnectionFailureData = databasetypes.JSONB{"error": reason}
}

// MarkConnected flips the connection back into the connected state and
// clears any recorded failure.
func (c *ZoomOAuthConnection) MarkConnected() {
	c.State = ZoomOAuthConnectionStateConnected
	c.ConnectionFailureData = nil
}

// FailureReason returns the recorded failure message or the empty string.
func (c *ZoomOAuthConnection) FailureReason() string {
	if c.ConnectionFailureData == nil {
		return ""
	}
	reason, _ := c.ConnectionFailureData["error"].(string)
	return reason
}
