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

package repositories

import (
	"time"

	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type apiKeyRepository struct {
	common.Repository[uuid.UUID, models.APIKey, *gorm.DB]
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *apiKeyRepository {
	return &apiKeyRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.APIKey](db),
	}
}

func (g *apiKeyRepository) FindByKeyHash(keyHash string) (models.APIKey, error) {
	var key models.APIKey
	err := g.db.Preload("Project").First(&key, "key_hash = ?", keyHash).Error
	return key, err
}

func (g *apiKeyRepository) MarkAsLastUsedNow(id uuid.UUID) error {
	return g.db.Model(&models.APIKey{}).Where("id = ?", id).Update("last_used_at", time.Now()).Error
}

func (g *apiKeyRepository) ListByProjectID(projectID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := g.db.Where("project_id = ?", projectID).Find(&keys).Error
	return keys, err
}
