package daemons

import (
	"fmt"
	"testing"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSchedulerTick(t *testing.T) {
	t.Run("should do nothing on followers", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		taskService := mocks.NewTaskService(t)
		leaderElector := mocks.NewLeaderElector(t)

		leaderElector.On("IsLeader").Return(false)

		runner := NewSchedulerRunner(connectionRepository, taskService, leaderElector)
		runner.tick()

		connectionRepository.AssertNotCalled(t, "FindConnectedSyncStaleSince", mock.Anything)
	})

	t.Run("should enqueue a sync task for every stale connection", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		taskService := mocks.NewTaskService(t)
		leaderElector := mocks.NewLeaderElector(t)

		leaderElector.On("IsLeader").Return(true)

		firstID := uuid.New()
		secondID := uuid.New()
		connectionRepository.On("FindConnectedSyncStaleSince", mock.Anything).Return([]models.ZoomOAuthConnection{
			{ID: firstID, ObjectID: "zoc_1"},
			{ID: secondID, ObjectID: "zoc_2"},
		}, nil)

		var enqueued []uuid.UUID
		taskService.On("Enqueue", models.TaskTypeSyncZoomOAuthConnection, mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(1).(models.SyncZoomOAuthConnectionPayload)
			enqueued = append(enqueued, payload.ZoomOAuthConnectionID)
		}).Return(nil)

		runner := NewSchedulerRunner(connectionRepository, taskService, leaderElector)
		runner.tick()

		assert.Equal(t, []uuid.UUID{firstID, secondID}, enqueued)
	})

	t.Run("should derive the cutoff from the configured sync interval", func(t *testing.T) {
		t.Setenv("ZOOM_SYNC_INTERVAL", "30m")

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		taskService := mocks.NewTaskService(t)
		leaderElector := mocks.NewLeaderElector(t)

		leaderElector.On("IsLeader").Return(true)

		var cutoff time.Time
		connectionRepository.On("FindConnectedSyncStaleSince", mock.Anything).Run(func(args mock.Arguments) {
			cutoff = args.Get(0).(time.Time)
		}).Return([]models.ZoomOAuthConnection{}, nil)

		runner := NewSchedulerRunner(connectionRepository, taskService, leaderElector)
		runner.tick()

		assert.WithinDuration(t, time.Now().Add(-30*time.Minute), cutoff, time.Minute)
	})

	t.Run("should keep scheduling when one enqueue fails", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		taskService := mocks.NewTaskService(t)
		leaderElector := mocks.NewLeaderElector(t)

		leaderElector.On("IsLeader").Return(true)

		firstID := uuid.New()
		secondID := uuid.New()
		connectionRepository.On("FindConnectedSyncStaleSince", mock.Anything).Return([]models.ZoomOAuthConnection{
			{ID: firstID, ObjectID: "zoc_1"},
			{ID: secondID, ObjectID: "zoc_2"},
		}, nil)

		taskService.On("Enqueue", models.TaskTypeSyncZoomOAuthConnection, models.SyncZoomOAuthConnectionPayload{ZoomOAuthConnectionID: firstID}).Return(fmt.Errorf("database down"))
		taskService.On("Enqueue", models.TaskTypeSyncZoomOAuthConnection, models.SyncZoomOAuthConnectionPayload{ZoomOAuthConnectionID: secondID}).Return(nil)

		runner := NewSchedulerRunner(connectionRepository, taskService, leaderElector)
		runner.tick()

		taskService.AssertNumberOfCalls(t, "Enqueue", 2)
	})

	t.Run("should survive a failing connection query", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		taskService := mocks.NewTaskService(t)
		leaderElector := mocks.NewLeaderElector(t)

		leaderElector.On("IsLeader").Return(true)
		connectionRepository.On("FindConnectedSyncStaleSince", mock.Anything).Return(nil, fmt.Errorf("connection refused"))

		runner := NewSchedulerRunner(connectionRepository, taskService, leaderElector)
		runner.tick()

		taskService.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})
}

func TestSyncIntervalFromEnv(t *testing.T) {
	t.Run("should fall back to the default when unset", func(t *testing.T) {
		t.Setenv("ZOOM_SYNC_INTERVAL", "")
		require.Equal(t, defaultSyncInterval, syncIntervalFromEnv())
	})

	t.Run("should parse go duration strings", func(t *testing.T) {
		t.Setenv("ZOOM_SYNC_INTERVAL", "90m")
		require.Equal(t, 90*time.Minute, syncIntervalFromEnv())
	})

	t.Run("should reject garbage and non positive intervals", func(t *testing.T) {
		t.Setenv("ZOOM_SYNC_INTERVAL", "often")
		require.Equal(t, defaultSyncInterval, syncIntervalFromEnv())

		t.Setenv("ZOOM_SYNC_INTERVAL", "-1h")
		require.Equal(t, defaultSyncInterval, syncIntervalFromEnv())
	})
}
