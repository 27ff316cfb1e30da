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

package middlewares

import (
	"log/slog"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// AddProfileEndpoints mounts the net/http/pprof handlers under
// /debug/pprof. The routes are unauthenticated, so they stay behind an
// explicit env flag.
func AddProfileEndpoints(e *echo.Echo) {
	slog.Warn("Adding profile debug endpoints")

	g := e.Group("/debug/pprof")
	g.GET("", func(ctx echo.Context) error {
		pprof.Index(ctx.Response().Writer, ctx.Request())
		return nil
	})
	g.GET("/heap", profileHandler("heap"))
	g.GET("/goroutine", profileHandler("goroutine"))
	g.GET("/block", profileHandler("block"))
	g.GET("/threadcreate", profileHandler("threadcreate"))
	g.GET("/mutex", profileHandler("mutex"))
	g.GET("/allocs", profileHandler("allocs"))
	g.GET("/cmdline", func(ctx echo.Context) error {
		pprof.Cmdline(ctx.Response().Writer, ctx.Request())
		return nil
	})
	g.GET("/profile", func(ctx echo.Context) error {
		pprof.Profile(ctx.Response().Writer, ctx.Request())
		return nil
	})
	g.GET("/symbol", func(ctx echo.Context) error {
		pprof.Symbol(ctx.Response().Writer, ctx.Request())
		return nil
	})
	g.POST("/symbol", func(ctx echo.Context) error {
		pprof.Symbol(ctx.Response().Writer, ctx.Request())
		return nil
	})
	g.GET("/trace", func(ctx echo.Context) error {
		pprof.Trace(ctx.Response().Writer, ctx.Request())
		return nil
	})
}

func profileHandler(name string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		pprof.Handler(name).ServeHTTP(ctx.Response().Writer, ctx.Request())
		return nil
	}
}
