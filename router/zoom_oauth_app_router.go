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

type ZoomOAuthAppRouter struct {
	*echo.Group
}

func NewZoomOAuthAppRouter(
	projectRouter ProjectRouter,
	appController *controllers.ZoomOAuthAppController,
) ZoomOAuthAppRouter {
	// a project has at most one app, so the collection routes operate on it
	// directly
	appRouter := projectRouter.Group.Group("/zoom_oauth_apps")
	appRouter.PUT("", appController.Upsert)
	appRouter.GET("", appController.Read)
	appRouter.DELETE("/:objectID", appController.Delete)

	return ZoomOAuthAppRouter{Group: appRouter}
}
