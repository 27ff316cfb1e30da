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

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ObjectID string `json:"objectId" gorm:"type:text;uniqueIndex;not null"`

	OrganizationID uuid.UUID `json:"organizationId" gorm:"type:uuid;uniqueIndex:idx_projects_org_slug;not null"`
	Organization   Org       `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE;"`

	Name string `json:"name" gorm:"type:text;not null"`
	Slug string `json:"slug" gorm:"type:text;uniqueIndex:idx_projects_org_slug;not null"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ObjectID == "" {
		p.ObjectID = NewObjectID(ObjectIDPrefixProject)
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}
