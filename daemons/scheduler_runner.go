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
	"log/slog"
	"os"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/monitoring"
	"github.com/attendee-dev/attendee/shared"
)

const defaultSyncInterval = time.Hour

// SchedulerRunner periodically enqueues sync tasks for connected
// connections whose last sync attempt is older than the sync interval. Only
// the leader schedules - the enqueued tasks are then drained by the task
// runners on every instance.
type SchedulerRunner struct {
	connectionRepository shared.ZoomOAuthConnectionRepository
	taskService          shared.TaskService
	leaderElector        shared.LeaderElector
	syncInterval         time.Duration
}

func NewSchedulerRunner(
	connectionRepository shared.ZoomOAuthConnectionRepository,
	taskService shared.TaskService,
	leaderElector shared.LeaderElector,
) *SchedulerRunner {
	return &SchedulerRunner{
		connectionRepository: connectionRepository,
		taskService:          taskService,
		leaderElector:        leaderElector,
		syncInterval:         syncIntervalFromEnv(),
	}
}

func syncIntervalFromEnv() time.Duration {
	raw := os.Getenv("ZOOM_SYNC_INTERVAL")
	if raw == "" {
		return defaultSyncInterval
	}

	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		slog.Warn("invalid ZOOM_SYNC_INTERVAL, using default", "value", raw, "default", defaultSyncInterval)
		return defaultSyncInterval
	}
	return interval
}

// Start initiates the scheduling loop
func (runner *SchedulerRunner) Start() {
	go func() {
		runner.tick()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			runner.tick()
		}
	}()
}

func (runner *SchedulerRunner) tick() {
	if !runner.leaderElector.IsLeader() {
		slog.Debug("not the leader - skipping sync scheduling")
		return
	}

	cutoff := time.Now().Add(-runner.syncInterval)
	connections, err := runner.connectionRepository.FindConnectedSyncStaleSince(cutoff)
	if err != nil {
		monitoring.Alert("could not load stale zoom oauth connections", err)
		return
	}
	if len(connections) == 0 {
		return
	}

	enqueued := 0
	for _, connection := range connections {
		if err := runner.taskService.Enqueue(models.TaskTypeSyncZoomOAuthConnection, models.SyncZoomOAuthConnectionPayload{
			ZoomOAuthConnectionID: connection.ID,
		}); err != nil {
			slog.Error("could not enqueue sync task", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
			continue
		}
		monitoring.SyncEnqueuedAmount.Inc()
		enqueued++
	}

	slog.Info("scheduled zoom oauth connection syncs", "amount", enqueued, "staleSince", cutoff)
}
