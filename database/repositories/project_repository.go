package repositories

import (
	"fmt"

	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
	common.Repository[uuid.UUID, models.Project, *gorm.DB]
}

func NewProjectRepository(db *gorm.DB) *projectRepository {
	return &projectRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Project](db),
	}
}

func (g *projectRepository) Create(tx *gorm.DB, project *models.Project) error {
	if project.Slug == "" {
		project.Slug = slug.Make(project.Name)
	}

	firstFreeSlug, err := g.firstFreeSlug(project.OrganizationID, project.Slug)
	if err != nil {
		return fmt.Errorf("could not generate next slug: %w", err)
	}
	project.Slug = firstFreeSlug

	return g.GetDB(tx).Create(project).Error
}

func (g *projectRepository) ReadByObjectID(objectID string) (models.Project, error) {
	var project models.Project
	err := g.db.First(&project, "object_id = ?", objectID).Error
	return project, err
}

func (g *projectRepository) ReadBySlug(orgID uuid.UUID, slug string) (models.Project, error) {
	var project models.Project
	err := g.db.First(&project, "organization_id = ? AND slug = ?", orgID, slug).Error
	return project, err
}

func (g *projectRepository) GetByOrgID(organizationID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := g.db.Where("organization_id = ?", organizationID).Find(&projects).Error
	return projects, err
}

// slug uniqueness is per organization
func (g *projectRepository) firstFreeSlug(orgID uuid.UUID, projectSlug string) (string, error) {
	var slugs []string
	err := g.db.Model(&models.Project{}).
		Where("organization_id = ? AND slug LIKE ?", orgID, projectSlug+"%").
		Pluck("slug", &slugs).Error
	if err != nil {
		return "", err
	}

	baseTaken := false
	existing := make(map[string]bool)
	for _, s := range slugs {
		existing[s] = true
		if s == projectSlug {
			baseTaken = true
		}
	}

	if !baseTaken {
		return projectSlug, nil
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", projectSlug, i)
		if !existing[candidate] {
			return candidate, nil
		}
	}
}
