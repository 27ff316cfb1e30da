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

package daemons

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/monitoring"
	"github.com/attendee-dev/attendee/services"
	"github.com/attendee-dev/attendee/shared"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	claimBatchSize = 10
	claimInterval  = 30 * time.Second
)

type taskHandler func(ctx context.Context, task models.Task) error

// TaskRunner drains the persisted task queue. Every instance runs one, the
// SKIP LOCKED claim in the repository keeps them from stepping on each
// other. Claims happen on a fixed interval and immediately after a task
// enqueue notification arrives through the postgres broker.
type TaskRunner struct {
	taskService    *services.TaskService
	taskRepository shared.TaskRepository
	broker         database.Broker

	handlers  map[models.TaskType]taskHandler
	durations map[models.TaskType]prometheus.Observer
}

func NewTaskRunner(
	taskService *services.TaskService,
	taskRepository shared.TaskRepository,
	broker database.Broker,
	syncService *services.ZoomSyncService,
	validationService *services.ZoomValidationService,
	deliveryService *services.WebhookDeliveryService,
) *TaskRunner {
	runner := &TaskRunner{
		taskService:    taskService,
		taskRepository: taskRepository,
		broker:         broker,
	}

	runner.handlers = map[models.TaskType]taskHandler{
		models.TaskTypeSyncZoomOAuthConnection: func(ctx context.Context, task models.Task) error {
			var payload models.SyncZoomOAuthConnectionPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return errors.Wrap(err, "could not unmarshal sync payload")
			}
			return syncService.SyncConnection(ctx, payload.ZoomOAuthConnectionID)
		},
		models.TaskTypeValidateZoomOAuthConnections: func(ctx context.Context, task models.Task) error {
			var payload models.ValidateZoomOAuthConnectionsPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return errors.Wrap(err, "could not unmarshal validate payload")
			}
			return validationService.ValidateConnections(ctx, payload.ZoomOAuthAppID)
		},
		models.TaskTypeDeliverWebhook: func(ctx context.Context, task models.Task) error {
			var payload models.DeliverWebhookPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return errors.Wrap(err, "could not unmarshal webhook payload")
			}
			// attempts was already incremented when the task got claimed
			isFinalAttempt := task.Attempts >= task.MaxAttempts
			return deliveryService.DeliverAttempt(payload.WebhookDeliveryAttemptID, isFinalAttempt)
		},
	}

	runner.durations = map[models.TaskType]prometheus.Observer{
		models.TaskTypeSyncZoomOAuthConnection:      monitoring.SyncZoomOAuthConnectionDuration,
		models.TaskTypeValidateZoomOAuthConnections: monitoring.ValidateZoomOAuthConnectionsDuration,
		models.TaskTypeDeliverWebhook:               monitoring.DeliverWebhookDuration,
	}

	return runner
}

// Start launches the claim loop in the background.
func (runner *TaskRunner) Start() {
	go runner.run()
}

// DrainOnce claims and executes everything currently due, then returns.
// Used by the ops cli to work the queue without starting the daemon loop.
func (runner *TaskRunner) DrainOnce() {
	runner.drain()
}

func (runner *TaskRunner) run() {
	wake, err := runner.broker.Subscribe(database.TaskEnqueued)
	if err != nil {
		// without the broker the runner still works, just with up to one
		// claim interval of latency
		slog.Error("could not subscribe to task notifications, falling back to polling", "err", err)
		wake = nil
	}

	ticker := time.NewTicker(claimInterval)
	defer ticker.Stop()

	runner.drain()
	for {
		select {
		case <-ticker.C:
		case _, ok := <-wake:
			if !ok {
				slog.Error("task notification channel closed, falling back to polling")
				wake = nil
				continue
			}
		}
		runner.drain()
	}
}

// drain claims and executes due tasks until the queue is empty.
func (runner *TaskRunner) drain() {
	for {
		tasks, err := runner.taskRepository.ClaimDue(claimBatchSize)
		if err != nil {
			monitoring.Alert("could not claim due tasks", err)
			return
		}
		if len(tasks) == 0 {
			return
		}

		for i := range tasks {
			runner.execute(&tasks[i])
		}

		if len(tasks) < claimBatchSize {
			return
		}
	}
}

func (runner *TaskRunner) execute(task *models.Task) {
	start := time.Now()
	err := runner.runHandler(context.Background(), task)
	if observer, ok := runner.durations[task.Type]; ok {
		observer.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		slog.Error("task failed", "taskId", task.ID, "type", task.Type, "attempt", task.Attempts, "maxAttempts", task.MaxAttempts, "err", err)
		if markErr := runner.taskService.MarkFailed(task, err); markErr != nil {
			slog.Error("could not mark task as failed", "taskId", task.ID, "err", markErr)
		}
		return
	}

	slog.Info("task succeeded", "taskId", task.ID, "type", task.Type, "duration", time.Since(start))
	if markErr := runner.taskService.MarkSucceeded(task); markErr != nil {
		slog.Error("could not mark task as succeeded", "taskId", task.ID, "err", markErr)
	}
}

// runHandler dispatches to the registered handler and converts panics into
// errors so a broken handler burns its attempts instead of the process.
func (runner *TaskRunner) runHandler(ctx context.Context, task *models.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr, ok := r.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", r)
			}
			monitoring.RecoverAndAlert("panic in task handler", panicErr)
			err = panicErr
		}
	}()

	handler, ok := runner.handlers[task.Type]
	if !ok {
		return errors.Errorf("no handler registered for task type %s", task.Type)
	}
	return handler(ctx, *task)
}
