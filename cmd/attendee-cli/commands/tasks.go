package commands

import (
	"log/slog"
	"time"

	"github.com/attendee-dev/attendee/daemons"
	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/database/repositories"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/integrations/webhook"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/services"
	"github.com/attendee-dev/attendee/shared"
	"github.com/spf13/cobra"
)

func NewTasksCommand() *cobra.Command {
	tasks := cobra.Command{
		Use:   "tasks",
		Short: "Work the background task queue",
	}

	tasks.AddCommand(newRunDueCommand())
	return &tasks
}

func newRunDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run-due",
		Short: "Claim and execute everything currently due, then exit",
		Long: `Runs the same handlers as the server's task runner, but exactly once.
Useful when the server is down and the queue needs to be worked manually.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			if err := databasetypes.EncryptionKeyFromEnv(); err != nil {
				slog.Error("could not load credentials encryption key", "err", err)
				return err
			}

			pool := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
			db := database.NewGormDB(pool)

			broker, err := database.BrokerFactory(pool)
			if err != nil {
				slog.Error("could not create broker", "err", err)
				return err
			}

			taskRepository := repositories.NewTaskRepository(db)
			connectionRepository := repositories.NewZoomOAuthConnectionRepository(db)
			appRepository := repositories.NewZoomOAuthAppRepository(db)

			taskService := services.NewTaskService(taskRepository, broker)
			webhookIntegration := webhook.NewWebhookIntegration(db, taskService)
			connectionService := services.NewZoomOAuthConnectionService(connectionRepository, webhookIntegration)
			zoomClient := zoomint.NewClient()

			runner := daemons.NewTaskRunner(
				taskService,
				taskRepository,
				broker,
				services.NewZoomSyncService(connectionRepository, appRepository, repositories.NewZoomMeetingMappingRepository(db), connectionService, zoomClient),
				services.NewZoomValidationService(connectionRepository, appRepository, connectionService, zoomClient),
				services.NewWebhookDeliveryService(repositories.NewWebhookDeliveryAttemptRepository(db)),
			)

			start := time.Now()
			runner.DrainOnce()
			slog.Info("due tasks drained", "duration", time.Since(start))
			return nil
		},
	}
}
