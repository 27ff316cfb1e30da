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
	"github.com/attendee-dev/attendee/middlewares"
	"github.com/attendee-dev/attendee/shared"
	"github.com/labstack/echo/v4"
)

// ProjectRouter is the api key protected group. Every route registered on
// it runs with the key's project resolved on the context.
type ProjectRouter struct {
	*echo.Group
}

func NewProjectRouter(
	apiV1Router APIV1Router,
	apiKeyRepository shared.APIKeyRepository,
) ProjectRouter {
	projectRouter := apiV1Router.Group.Group("", middlewares.APIKeyMiddleware(apiKeyRepository))

	return ProjectRouter{Group: projectRouter}
}
