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

// ZoomOAuthAppUpsertRequest creates or updates the project's app. On
// update, blank credential fields keep the stored values, so none of them
// carry a required tag. The handler enforces what a create needs.
type ZoomOAuthAppUpsertRequest struct {
	ClientID      string `json:"client_id"`
	ClientSecret  string `json:"client_secret"`
	WebhookSecret string `json:"webhook_secret"`
}

// ZoomOAuthAppDTO exposes the client id so callers can build the Zoom
// consent url. The secrets stay server side.
type ZoomOAuthAppDTO struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewZoomOAuthAppDTO(app models.ZoomOAuthApp) ZoomOAuthAppDTO {
	return ZoomOAuthAppDTO{
		ID:        app.ObjectID,
		ClientID:  string(app.ClientID),
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
}
