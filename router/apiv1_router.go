package router

import (
	"os"
	"runtime"
	"time"

	"github.com/attendee-dev/attendee/cmd/attendee/api"
	"github.com/attendee-dev/attendee/config"
	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/shared"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

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

type APIV1Router struct {
	*echo.Group
}

// NewAPIV1Router mounts the /api/v1 group with the unauthenticated
// operational endpoints. The resource routers build their authenticated
// groups on top of it.
func NewAPIV1Router(srv api.Server,
	db shared.DB,
	pool *pgxpool.Pool,
) APIV1Router {
	apiV1Router := srv.Echo.Group("/api/v1")

	apiV1Router.GET("/info", func(c echo.Context) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		// Build the response with typed structs
		resp := InfoResponse{
			Build: BuildInfo{
				Version:   config.Version,
				Commit:    config.Commit,
				Branch:    config.Branch,
				BuildDate: config.BuildDate,
			},
			Runtime: RuntimeInfo{
				GoVersion:     runtime.Version(),
				NumGoroutines: runtime.NumGoroutine(),
				Mem: MemStats{
					Alloc:      mem.Alloc,
					TotalAlloc: mem.TotalAlloc,
					Sys:        mem.Sys,
					HeapAlloc:  mem.HeapAlloc,
				},
			},
			Process: ProcessInfo{
				PID:           os.Getpid(),
				UptimeSeconds: int(time.Since(api.StartedAt).Seconds()),
			},
		}

		host, _ := os.Hostname()
		if host != "" {
			resp.Process.Hostname = host
		}

		// DB connectivity & migration info
		poolCfg := database.GetPoolConfigFromEnv()
		poolInfo := PoolInfo{
			DBName:          poolCfg.DBName,
			MaxOpenConns:    poolCfg.MaxOpenConns,
			ConnMaxLifetime: poolCfg.ConnMaxLifetime.String(),
			ConnMaxIdleTime: poolCfg.ConnMaxIdleTime.String(),
		}

		dbInfo := DatabaseInfo{Status: "unknown"}
		sqlDB, err := db.DB()
		if err != nil {
			errMsg := "failed to get database instance"
			dbInfo.Status = "unhealthy"
			dbInfo.Error = &errMsg
		} else {
			if err := sqlDB.Ping(); err != nil {
				errMsg := "database ping failed"
				dbInfo.Status = "unhealthy"
				dbInfo.Error = &errMsg
			} else {
				dbInfo.Status = "healthy"

				// Prefer runtime stats from the underlying pgx pool which backs the sql.DB
				if pool != nil {
					stats := pool.Stat()
					dbInfo.OpenConnections = int(stats.TotalConns())
					dbInfo.InUse = int(stats.AcquiredConns())
					dbInfo.Idle = int(stats.IdleConns())
					dbInfo.MaxOpenConnections = int(stats.MaxConns())

					poolInfo.TotalConns = int(stats.TotalConns())
					poolInfo.IdleConns = int(stats.IdleConns())
					poolInfo.AcquiredConns = int(stats.AcquiredConns())
					poolInfo.MaxConns = int(stats.MaxConns())
				} else {
					// Fallback to sql DB stats if pool isn't available
					dbInfo.DBStats = sqlDB.Stats()
				}

				if ver, dirty, err := database.GetMigrationVersionWithDB(db); err == nil {
					v := ver
					dbInfo.MigrationVersion = &v
					dbInfo.MigrationDirty = &dirty
				} else {
					errStr := err.Error()
					dbInfo.MigrationError = &errStr
				}
			}
		}
		dbInfo.Pool = &poolInfo
		resp.Database = dbInfo

		return c.JSON(200, resp)
	})

	apiV1Router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	apiV1Router.GET("/health", func(ctx echo.Context) error {
		// Check database connectivity
		sqlDB, err := db.DB()
		if err != nil {
			return ctx.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  "failed to get database instance",
			})
		}

		if err := sqlDB.Ping(); err != nil {
			return ctx.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  "database ping failed",
			})
		}

		return ctx.JSON(200, map[string]string{
			"status": "healthy",
		})
	})

	return APIV1Router{
		Group: apiV1Router,
	}
}
