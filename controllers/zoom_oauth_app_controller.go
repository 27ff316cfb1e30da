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
	"log/slog"
	"strings"

	"github.com/attendee-dev/attendee/database/models"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/dtos"
	"github.com/attendee-dev/attendee/shared"
)

type ZoomOAuthAppController struct {
	appRepository        shared.ZoomOAuthAppRepository
	connectionRepository shared.ZoomOAuthConnectionRepository
	taskService          shared.TaskService
	zoomClient           shared.ZoomClientFacade
}

func NewZoomOAuthAppController(appRepository shared.ZoomOAuthAppRepository, connectionRepository shared.ZoomOAuthConnectionRepository, taskService shared.TaskService, zoomClient shared.ZoomClientFacade) *ZoomOAuthAppController {
	return &ZoomOAuthAppController{
		appRepository:        appRepository,
		connectionRepository: connectionRepository,
		taskService:          taskService,
		zoomClient:           zoomClient,
	}
}

// Upsert creates or updates the project's single Zoom OAuth app. Blank
// credential fields on update keep the stored values, so callers can rotate
// the webhook secret without resending the client secret. The client id is
// fixed once the app exists.
func (c *ZoomOAuthAppController) Upsert(ctx shared.Context) error {
	var req dtos.ZoomOAuthAppUpsertRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid request data"})
	}

	clientID := strings.TrimSpace(req.ClientID)
	clientSecret := strings.TrimSpace(req.ClientSecret)
	webhookSecret := strings.TrimSpace(req.WebhookSecret)

	project := shared.GetProject(ctx)
	requestCtx := ctx.Request().Context()

	app, err := c.appRepository.FindByProjectID(project.ID)
	if err != nil {
		// no app yet for this project, create one
		if clientID == "" || clientSecret == "" {
			return ctx.JSON(400, map[string]string{"error": "client_id and client_secret are required when creating a new Zoom OAuth app"})
		}

		valid, err := c.zoomClient.ValidateClientCredentials(requestCtx, clientID, clientSecret)
		if err != nil {
			slog.Error("could not validate zoom client credentials", "err", err)
			return ctx.JSON(500, map[string]string{"error": "could not validate client credentials"})
		}
		if !valid {
			return ctx.JSON(400, map[string]string{"error": "Invalid client id or client secret"})
		}

		app = models.ZoomOAuthApp{
			ProjectID:     project.ID,
			ClientID:      databasetypes.EncryptedString(clientID),
			ClientSecret:  databasetypes.EncryptedString(clientSecret),
			WebhookSecret: databasetypes.EncryptedString(webhookSecret),
		}
		if err := c.appRepository.Create(nil, &app); err != nil {
			slog.Error("could not create zoom oauth app", "err", err)
			return ctx.JSON(500, map[string]string{"error": "could not create zoom oauth app"})
		}
		return ctx.JSON(201, dtos.NewZoomOAuthAppDTO(app))
	}

	secretChanged := clientSecret != "" && clientSecret != string(app.ClientSecret)
	if secretChanged {
		valid, err := c.zoomClient.ValidateClientCredentials(requestCtx, string(app.ClientID), clientSecret)
		if err != nil {
			slog.Error("could not validate zoom client credentials", "err", err)
			return ctx.JSON(500, map[string]string{"error": "could not validate client credentials"})
		}
		if !valid {
			return ctx.JSON(400, map[string]string{"error": "Invalid client secret"})
		}
		app.ClientSecret = databasetypes.EncryptedString(clientSecret)
	}
	if webhookSecret != "" {
		app.WebhookSecret = databasetypes.EncryptedString(webhookSecret)
	}

	if err := c.appRepository.Save(nil, &app); err != nil {
		slog.Error("could not update zoom oauth app", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not update zoom oauth app"})
	}

	// a rotated client secret may fix connections which got disconnected
	// under the previous one, so recheck them
	if secretChanged {
		if err := c.taskService.Enqueue(models.TaskTypeValidateZoomOAuthConnections, models.ValidateZoomOAuthConnectionsPayload{
			ZoomOAuthAppID: app.ID,
		}); err != nil {
			slog.Error("could not enqueue validate task", "zoomOAuthAppId", app.ObjectID, "err", err)
		}
	}

	return ctx.JSON(200, dtos.NewZoomOAuthAppDTO(app))
}

func (c *ZoomOAuthAppController) Read(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	app, err := c.appRepository.FindByProjectID(project.ID)
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth app not found"})
	}

	return ctx.JSON(200, dtos.NewZoomOAuthAppDTO(app))
}

func (c *ZoomOAuthAppController) Delete(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	app, err := c.appRepository.FindByObjectID(project.ID, shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth app not found"})
	}

	count, err := c.connectionRepository.CountByAppID(app.ID)
	if err != nil {
		slog.Error("could not count zoom oauth connections", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not delete zoom oauth app"})
	}
	if count > 0 {
		return ctx.JSON(409, map[string]string{"error": "Zoom OAuth app has existing connections"})
	}

	if err := c.appRepository.Delete(nil, app.ID); err != nil {
		slog.Error("could not delete zoom oauth app", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not delete zoom oauth app"})
	}

	return ctx.JSON(200, dtos.NewZoomOAuthAppDTO(app))
}
