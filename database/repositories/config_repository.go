package repositories

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
)

type configRepository struct {
	common.Repository[string, models.Config, shared.DB]
	db shared.DB
}

func NewConfigRepository(db shared.DB) *configRepository {
	return &configRepository{
		db:         db,
		Repository: newGormRepository[string, models.Config](db),
	}
}
