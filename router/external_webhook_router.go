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

package router

import (
	"github.com/attendee-dev/attendee/cmd/attendee/api"
	"github.com/attendee-dev/attendee/controllers"
	"github.com/labstack/echo/v4"
)

// ExternalWebhookRouter receives webhooks from outside services. The routes
// sit outside /api/v1 and are not protected by api keys - each handler
// authenticates the sender itself.
type ExternalWebhookRouter struct {
	*echo.Group
}

func NewExternalWebhookRouter(
	srv api.Server,
	zoomWebhookController *controllers.ZoomWebhookController,
) ExternalWebhookRouter {
	externalWebhookRouter := srv.Echo.Group("/external_webhooks")
	externalWebhookRouter.POST("/zoom/oauth_apps/:objectID", zoomWebhookController.HandleEvent)

	return ExternalWebhookRouter{Group: externalWebhookRouter}
}
