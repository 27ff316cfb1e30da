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
	"github.com/attendee-dev/attendee/controllers"
	"github.com/labstack/echo/v4"
)

type ZoomOAuthConnectionRouter struct {
	*echo.Group
}

func NewZoomOAuthConnectionRouter(
	projectRouter ProjectRouter,
	connectionController *controllers.ZoomOAuthConnectionController,
) ZoomOAuthConnectionRouter {
	connectionRouter := projectRouter.Group.Group("/zoom_oauth_connections")
	connectionRouter.GET("", connectionController.List)
	connectionRouter.POST("", connectionController.Create)
	connectionRouter.GET("/:objectID", connectionController.Read)
	connectionRouter.PATCH("/:objectID", connectionController.Patch)
	connectionRouter.DELETE("/:objectID", connectionController.Delete)

	return ZoomOAuthConnectionRouter{Group: connectionRouter}
}
