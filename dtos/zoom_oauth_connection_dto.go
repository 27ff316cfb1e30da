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
	"time"

	"github.com/attendee-dev/attendee/database/models"
)

type ZoomOAuthConnectionCreateRequest struct {
	ZoomOAuthAppID    string         `json:"zoom_oauth_app_id" validate:"required"`
	AuthorizationCode string         `json:"authorization_code" validate:"required"`
	RedirectURI       string         `json:"redirect_uri"`
	Metadata          map[string]any `json:"metadata"`
}

type ZoomOAuthConnectionPatchRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// ZoomOAuthConnectionDTO is the public shape of a connection. IDs are the
// object ids, never the database uuids, and credentials are omitted
// entirely.
type ZoomOAuthConnectionDTO struct {
	ID                    string                          `json:"id"`
	ZoomOAuthApp          string                          `json:"zoom_oauth_app"`
	State                 models.ZoomOAuthConnectionState `json:"state"`
	Metadata              map[string]any                  `json:"metadata"`
	UserID                string                          `json:"user_id"`
	AccountID             string                          `json:"account_id"`
	ConnectionFailureData map[string]any                  `json:"connection_failure_data"`
	CreatedAt             time.Time                       `json:"created_at"`
	UpdatedAt             time.Time                       `json:"updated_at"`
}

func NewZoomOAuthConnectionDTO(connection models.ZoomOAuthConnection, app models.ZoomOAuthApp) ZoomOAuthConnectionDTO {
	metadata := map[string]any(connection.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	return ZoomOAuthConnectionDTO{
		ID:                    connection.ObjectID,
		ZoomOAuthApp:          app.ObjectID,
		State:                 connection.State,
		Metadata:              metadata,
		UserID:                connection.UserID,
		AccountID:             connection.AccountID,
		ConnectionFailureData: map[string]any(connection.ConnectionFailureData),
		CreatedAt:             connection.CreatedAt,
		UpdatedAt:             connection.UpdatedAt,
	}
}
