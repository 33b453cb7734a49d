package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Project, error) {
	var project catalog.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByExactName finds projects by case-insensitive name equality
func (r *GormProjectRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Project, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return []catalog.Project{}, nil
	}
	var projects []catalog.Project
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", lowered).
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// SearchByName is a substring search over project names
func (r *GormProjectRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Project, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	if limit <= 0 {
		limit = 20
	}
	var projects []catalog.Project
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *catalog.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Ensure GormProjectRepository implements ProjectRepository
var _ catalog.ProjectRepository = (*GormProjectRepository)(nil)
