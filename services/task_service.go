// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/monitoring"
	"github.com/attendee-dev/attendee/shared"
	"github.com/pkg/errors"
)

const maxBackoff = 600 * time.Second

type TaskService struct {
	repository shared.TaskRepository
	broker     database.Broker
}

func NewTaskService(repository shared.TaskRepository, broker database.Broker) *TaskService {
	return &TaskService{
		repository: repository,
		broker:     broker,
	}
}

func (s *TaskService) Enqueue(taskType models.TaskType, payload any) error {
	return s.EnqueueAt(taskType, payload, time.Now())
}

func (s *TaskService) EnqueueAt(taskType models.TaskType, payload any, runAt time.Time) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "could not marshal task payload")
	}

	task := models.Task{
		Type:          taskType,
		Status:        models.TaskStatusPending,
		Payload:       payloadJSON,
		NextAttemptAt: runAt,
		MaxAttempts:   taskType.MaxAttempts(),
	}

	if err := s.repository.Create(nil, &task); err != nil {
		return err
	}

	// wake the task runners on all instances. Failing to notify is fine,
	// the next tick picks the task up anyway.
	err = s.broker.Publish(context.Background(), database.NewSimpleMessage(database.TaskEnqueued, map[string]any{
		"taskId": task.ID.String(),
		"type":   string(taskType),
	}))
	if err != nil {
		slog.Warn("could not publish task enqueued message", "err", err)
	}

	return nil
}

// MarkSucceeded finishes a claimed task.
func (s *TaskService) MarkSucceeded(task *models.Task) error {
	task.Status = models.TaskStatusSucceeded
	task.LastError = ""
	monitoring.TaskSucceededAmount.Inc()
	return s.repository.Save(nil, task)
}

// MarkFailed reschedules a claimed task with exponential backoff, or marks
// it failed for good once its attempts are used up.
func (s *TaskService) MarkFailed(task *models.Task, taskErr error) error {
	task.LastError = taskErr.Error()

	if task.Attempts >= task.MaxAttempts {
		task.Status = models.TaskStatusFailed
		monitoring.TaskFailedAmount.Inc()
		return s.repository.Save(nil, task)
	}

	task.Status = models.TaskStatusPending
	task.NextAttemptAt = time.Now().Add(backoffDelay(task.Attempts))
	return s.repository.Save(nil, task)
}

func backoffDelay(attempts int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempts))) * time.Second
	if delay > maxBackoff {
		delay = maxBackoff
	}
	// jitter keeps tasks enqueued in the same moment from retrying in
	// lockstep
	return delay + time.Duration(rand.Intn(1000))*time.Millisecond // #nosec
}
