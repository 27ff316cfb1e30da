// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskRepository struct {
	db shared.DB
	common.Repository[uuid.UUID, models.Task, shared.DB]
}

func NewTaskRepository(db shared.DB) *taskRepository {
	return &taskRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Task](db),
	}
}

// ClaimDue selects due pending tasks with FOR UPDATE SKIP LOCKED and marks
// them running inside the same transaction. Rows locked by another worker
// are skipped, so every due task is handed to exactly one worker.
func (r *taskRepository) ClaimDue(limit int) ([]models.Task, error) {
	var tasks []models.Task

	err := r.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_attempt_at <= now()", models.TaskStatusPending).
			Order("next_attempt_at ASC").
			Limit(limit).
			Find(&tasks).Error; err != nil {
			return err
		}

		if len(tasks) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(tasks))
		for i := range tasks {
			tasks[i].Status = models.TaskStatusRunning
			tasks[i].Attempts++
			ids = append(ids, tasks[i].ID)
		}

		return tx.Model(&models.Task{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":   models.TaskStatusRunning,
				"attempts": gorm.Expr("attempts + 1"),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}
