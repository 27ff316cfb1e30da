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
	"fmt"

	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type orgRepository struct {
	db *gorm.DB
	common.Repository[uuid.UUID, models.Org, *gorm.DB]
}

func NewOrgRepository(db *gorm.DB) *orgRepository {
	return &orgRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Org](db),
	}
}

func (g *orgRepository) Create(tx *gorm.DB, org *models.Org) error {
	if org.Slug == "" {
		org.Slug = slug.Make(org.Name)
	}

	firstFreeSlug, err := g.firstFreeSlug(org.Slug)
	if err != nil {
		return fmt.Errorf("could not generate next slug: %w", err)
	}
	org.Slug = firstFreeSlug

	return g.GetDB(tx).Create(org).Error
}

func (g *orgRepository) ReadBySlug(slug string) (models.Org, error) {
	var t models.Org
	err := g.db.Model(models.Org{}).Where("slug = ?", slug).First(&t).Error
	return t, err
}

func (g *orgRepository) firstFreeSlug(organizationSlug string) (string, error) {
	var slugs []string
	err := g.db.Model(&models.Org{}).
		Where("slug LIKE ?", organizationSlug+"%").
		Pluck("slug", &slugs).Error
	if err != nil {
		return "", err
	}

	baseTaken := false
	existing := make(map[string]bool)
	for _, s := range slugs {
		existing[s] = true
		if s == organizationSlug {
			baseTaken = true
		}
	}

	if !baseTaken {
		return organizationSlug, nil
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", organizationSlug, i)
		if !existing[candidate] {
			return candidate, nil
		}
	}
}
