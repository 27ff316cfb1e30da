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
	"fmt"
	"log/slog"
	"strings"

	"github.com/attendee-dev/attendee/database/models"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/dtos"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/shared"
	"github.com/attendee-dev/attendee/utils"
)

type ZoomOAuthConnectionController struct {
	connectionRepository shared.ZoomOAuthConnectionRepository
	appRepository        shared.ZoomOAuthAppRepository
	taskService          shared.TaskService
	zoomClient           shared.ZoomClientFacade
}

func NewZoomOAuthConnectionController(connectionRepository shared.ZoomOAuthConnectionRepository, appRepository shared.ZoomOAuthAppRepository, taskService shared.TaskService, zoomClient shared.ZoomClientFacade) *ZoomOAuthConnectionController {
	return &ZoomOAuthConnectionController{
		connectionRepository: connectionRepository,
		appRepository:        appRepository,
		taskService:          taskService,
		zoomClient:           zoomClient,
	}
}

func (c *ZoomOAuthConnectionController) List(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	cursor, err := shared.GetCursor(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid cursor"})
	}

	connections, hasMore, err := c.connectionRepository.ListPage(project.ID, cursor, shared.DefaultPageSize)
	if err != nil {
		slog.Error("could not list zoom oauth connections", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not list zoom oauth connections"})
	}

	next, previous := shared.CursorsForPage(connections, cursor, hasMore, func(connection models.ZoomOAuthConnection) shared.PageCursor {
		return shared.PageCursor{CreatedAt: connection.CreatedAt, ID: connection.ID}
	})

	results := utils.Map(connections, func(connection models.ZoomOAuthConnection) dtos.ZoomOAuthConnectionDTO {
		return dtos.NewZoomOAuthConnectionDTO(connection, connection.ZoomOAuthApp)
	})

	return ctx.JSON(200, shared.NewCursorPage(ctx, results, next, previous))
}

// Create exchanges the authorization code the caller obtained from Zoom's
// consent flow for tokens and stores the resulting connection. The access
// token is thrown away - only the refresh token is persisted, the sync task
// mints fresh access tokens on demand.
func (c *ZoomOAuthConnectionController) Create(ctx shared.Context) error {
	var req dtos.ZoomOAuthConnectionCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid request data"})
	}
	if err := shared.V.Struct(req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	project := shared.GetProject(ctx)

	app, err := c.appRepository.FindByObjectID(project.ID, req.ZoomOAuthAppID)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": fmt.Sprintf("Zoom OAuth app %s does not exist in this project", req.ZoomOAuthAppID)})
	}

	requestCtx := ctx.Request().Context()

	token, err := c.zoomClient.ExchangeAuthorizationCode(requestCtx, string(app.ClientID), string(app.ClientSecret), req.AuthorizationCode, req.RedirectURI)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "Error exchanging access code for tokens: " + err.Error()})
	}

	if missing := zoomint.MissingScopes(token.Scope); len(missing) > 0 {
		return ctx.JSON(400, map[string]string{"error": "Zoom OAuth token is missing the following required scopes: " + strings.Join(missing, ", ")})
	}

	user, err := c.zoomClient.GetMe(requestCtx, token.AccessToken)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "Error fetching Zoom user info: " + err.Error()})
	}
	if user.Status != "active" {
		return ctx.JSON(400, map[string]string{"error": "Zoom user is not active"})
	}

	connection := models.ZoomOAuthConnection{
		ZoomOAuthAppID: app.ID,
		State:          models.ZoomOAuthConnectionStateConnected,
		UserID:         user.ID,
		AccountID:      user.AccountID,
		Metadata:       databasetypes.JSONB(req.Metadata),
	}
	connection.SetRefreshToken(token.RefreshToken)

	if err := c.connectionRepository.Create(nil, &connection); err != nil {
		slog.Error("could not create zoom oauth connection", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not create zoom oauth connection"})
	}

	// sync right away so meeting mappings show up without waiting for the
	// scheduler. If the enqueue fails the scheduler catches up within the
	// sync interval.
	if err := c.taskService.Enqueue(models.TaskTypeSyncZoomOAuthConnection, models.SyncZoomOAuthConnectionPayload{
		ZoomOAuthConnectionID: connection.ID,
	}); err != nil {
		slog.Error("could not enqueue initial sync task", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
	}

	return ctx.JSON(201, dtos.NewZoomOAuthConnectionDTO(connection, app))
}

func (c *ZoomOAuthConnectionController) Read(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	connection, err := c.connectionRepository.FindByObjectID(project.ID, shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth Connection not found"})
	}

	return ctx.JSON(200, dtos.NewZoomOAuthConnectionDTO(connection, connection.ZoomOAuthApp))
}

// Patch replaces the caller supplied metadata. Everything else on the
// connection is server managed.
func (c *ZoomOAuthConnectionController) Patch(ctx shared.Context) error {
	var req dtos.ZoomOAuthConnectionPatchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid request data"})
	}

	project := shared.GetProject(ctx)

	connection, err := c.connectionRepository.FindByObjectID(project.ID, shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth Connection not found"})
	}

	connection.Metadata = databasetypes.JSONB(req.Metadata)
	if err := c.connectionRepository.Save(nil, &connection); err != nil {
		slog.Error("could not update zoom oauth connection", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not update zoom oauth connection"})
	}

	return ctx.JSON(200, dtos.NewZoomOAuthConnectionDTO(connection, connection.ZoomOAuthApp))
}

func (c *ZoomOAuthConnectionController) Delete(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	connection, err := c.connectionRepository.FindByObjectID(project.ID, shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Zoom OAuth Connection not found"})
	}

	if err := c.connectionRepository.Delete(nil, connection.ID); err != nil {
		slog.Error("could not delete zoom oauth connection", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not delete zoom oauth connection"})
	}

	return ctx.JSON(200, dtos.NewZoomOAuthConnectionDTO(connection, connection.ZoomOAuthApp))
}
