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

package controllers

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/shared"
)

// ZoomWebhookController receives Zoom's marketplace webhooks. The route is
// unauthenticated - the request is trusted based on the signature Zoom
// computes with the app's webhook secret.
type ZoomWebhookController struct {
	appRepository        shared.ZoomOAuthAppRepository
	connectionRepository shared.ZoomOAuthConnectionRepository
	connectionService    shared.ZoomOAuthConnectionService
}

func NewZoomWebhookController(appRepository shared.ZoomOAuthAppRepository, connectionRepository shared.ZoomOAuthConnectionRepository, connectionService shared.ZoomOAuthConnectionService) *ZoomWebhookController {
	return &ZoomWebhookController{
		appRepository:        appRepository,
		connectionRepository: connectionRepository,
		connectionService:    connectionService,
	}
}

func (c *ZoomWebhookController) HandleEvent(ctx shared.Context) error {
	app, err := c.appRepository.ReadByObjectID(shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth app not found"})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "could not read request body"})
	}

	timestamp := ctx.Request().Header.Get(zoomint.TimestampHeader)
	signature := ctx.Request().Header.Get(zoomint.SignatureHeader)
	if !zoomint.VerifyWebhookSignature(string(app.WebhookSecret), timestamp, body, signature) {
		return ctx.JSON(401, map[string]string{"error": "Invalid signature"})
	}

	var event zoomint.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid request data"})
	}

	switch event.Event {
	case zoomint.WebhookEventURLValidation:
		var payload zoomint.URLValidationPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return ctx.JSON(400, map[string]string{"error": "invalid request data"})
		}
		return ctx.JSON(200, map[string]string{
			"plainToken":     payload.PlainToken,
			"encryptedToken": zoomint.ChallengeResponse(string(app.WebhookSecret), payload.PlainToken),
		})

	case zoomint.WebhookEventAppDeauthorized:
		var payload zoomint.DeauthorizationPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return ctx.JSON(400, map[string]string{"error": "invalid request data"})
		}

		connection, err := c.connectionRepository.FindByAppAndUserID(app.ID, payload.UserID)
		if err != nil {
			// nothing to disconnect, but acknowledge so Zoom stops retrying
			slog.Info("deauthorization for unknown zoom user", "zoomOAuthAppId", app.ObjectID, "userId", payload.UserID)
			return ctx.NoContent(200)
		}

		if err := c.connectionService.Disconnect(&connection, "User deauthorized the app"); err != nil {
			slog.Error("could not disconnect zoom oauth connection", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
			return ctx.JSON(500, map[string]string{"error": "could not disconnect zoom oauth connection"})
		}
		return ctx.NoContent(200)

	default:
		// unhandled event types are acknowledged and dropped
		return ctx.NoContent(200)
	}
}
