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

package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/attendee-dev/attendee/cmd/attendee/api"
	"github.com/attendee-dev/attendee/controllers"
	"github.com/attendee-dev/attendee/daemons"
	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/database/repositories"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/integrations"
	"github.com/attendee-dev/attendee/router"
	"github.com/attendee-dev/attendee/services"
	"github.com/attendee-dev/attendee/shared"

	_ "github.com/lib/pq"
)

var release string // Will be filled at build time

func main() {
	shared.LoadConfig() // nolint: errcheck
	shared.InitLogger()

	if os.Getenv("ERROR_TRACKING_DSN") != "" {
		initSentry()

		// Catch panics
		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				// Wait for events to be send to server
				sentry.Flush(time.Second * 5)
			}
		}()
	}

	// column encryption has to be ready before anything touches the
	// credential models
	if err := databasetypes.EncryptionKeyFromEnv(); err != nil {
		slog.Error("failed to load credentials encryption key", "err", err)
		panic(errors.New("failed to load credentials encryption key"))
	}

	// Initialize database connection first
	pool := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
	db := database.NewGormDB(pool)

	// Run database migrations using the existing database connection
	disableAutoMigrate := os.Getenv("DISABLE_AUTOMIGRATE")
	if disableAutoMigrate != "true" {
		slog.Info("running database migrations...")
		if err := database.RunMigrationsWithDB(db); err != nil {
			slog.Error("failed to run database migrations", "error", err)
			panic(errors.New("failed to run database migrations"))
		}
	} else {
		slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
	}

	fx.New(
		fx.Supply(db),
		fx.Supply(pool),
		fx.Provide(database.BrokerFactory),
		fx.Provide(api.NewServer),
		repositories.Module,
		controllers.ControllerModule,
		services.Module,
		router.RouterModule,
		integrations.Module,
		daemons.Module,

		// we need to invoke all routers to register their routes
		fx.Invoke(func(zoomOAuthConnectionRouter router.ZoomOAuthConnectionRouter) {}),
		fx.Invoke(func(zoomOAuthAppRouter router.ZoomOAuthAppRouter) {}),
		fx.Invoke(func(webhookRouter router.WebhookRouter) {}),
		fx.Invoke(func(externalWebhookRouter router.ExternalWebhookRouter) {}),
		fx.Invoke(func(server *echo.Echo) {}),
	).Run()
}

func initSentry() {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "dev"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         os.Getenv("ERROR_TRACKING_DSN"),
		Environment: environment,
		Release:     release,

		// In debug mode, the debug information is printed to stdout to help you
		// understand what Sentry is doing.
		Debug: environment == "dev",

		// Configures whether SDK should generate and attach stack traces to pure
		// capture message calls.
		AttachStacktrace: true,

		// If this flag is enabled, certain personally identifiable information (PII) is added by active integrations.
		// By default, no such data is sent.
		SendDefaultPII: false,
	})
	if err != nil {
		slog.Error("Failed to init logger", "err", err)
	}
}
