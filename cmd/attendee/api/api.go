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

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/attendee-dev/attendee/middlewares"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StartedAt is the process start time, reported by the info endpoint.
var StartedAt = time.Now()

// Server wraps the shared echo instance the routers register their routes
// on.
type Server struct {
	Echo *echo.Echo
}

// NewServer builds the echo instance and ties its lifecycle to the fx app.
// The listener only starts once every router had its chance to register.
func NewServer(lc fx.Lifecycle) (Server, *echo.Echo) {
	e := middlewares.Server()

	if os.Getenv("ENABLE_PROFILING") == "true" {
		middlewares.AddProfileEndpoints(e)
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("failed to start server", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})

	return Server{Echo: e}, e
}
