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
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKey struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ObjectID string `json:"objectId" gorm:"type:text;uniqueIndex;not null"`

	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;index;not null"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	Name string `json:"name" gorm:"type:text;not null"`
	// sha256 of the plaintext key, base64 encoded. the plaintext is only
	// ever shown once, right after creation.
	KeyHash string `json:"-" gorm:"type:text;uniqueIndex;not null"`

	LastUsedAt *time.Time `json:"lastUsedAt" gorm:"default:null"`
	DisabledAt *time.Time `json:"disabledAt" gorm:"default:null"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ObjectID == "" {
		k.ObjectID = NewObjectID(ObjectIDPrefixAPIKey)
	}
	return nil
}

// HashToken hashes a plaintext api key the way KeyHash stores it.
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	// make it base64
	return base64.StdEncoding.EncodeToString(hasher.Sum(nil))
}

// NewAPIKeyToken generates a fresh plaintext key. The caller hashes it via
// HashToken before persisting.
func NewAPIKeyToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "att_" + hex.EncodeToString(buf)
}
