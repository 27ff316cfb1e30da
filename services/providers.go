package services

import (
	"github.com/attendee-dev/attendee/shared"
	"go.uber.org/fx"
)

// Module provides all service-layer constructors
var Module = fx.Options(
	// the task runner daemon needs the concrete type for MarkSucceeded and
	// MarkFailed, everything else only enqueues through the interface
	fx.Provide(NewTaskService),
	fx.Provide(func(taskService *TaskService) shared.TaskService { return taskService }),

	fx.Provide(fx.Annotate(
		NewConfigService,
		fx.As(new(shared.ConfigService)),
	)),
	fx.Provide(fx.Annotate(
		NewDatabaseLeaderElector,
		fx.As(new(shared.LeaderElector)),
	)),
	fx.Provide(fx.Annotate(
		NewZoomOAuthConnectionService,
		fx.As(new(shared.ZoomOAuthConnectionService)),
	)),

	fx.Provide(NewZoomSyncService),
	fx.Provide(NewZoomValidationService),
	fx.Provide(NewWebhookDeliveryService),
)
