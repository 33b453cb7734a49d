package catalog

import (
	"strings"
	"time"

	"github.com/vendorcat/backend/internal/domain/shared"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusPlanned ProjectStatus = "planned"
	ProjectStatusActive  ProjectStatus = "active"
	ProjectStatusClosed  ProjectStatus = "closed"
)

// Project is an internal initiative that contracts and invoices reference
type Project struct {
	shared.BaseAggregateRoot
	Name     string        `gorm:"type:varchar(300);not null;index"`
	Code     string        `gorm:"type:varchar(100);index"`
	OwnerOrg string        `gorm:"type:varchar(200)"`
	Status   ProjectStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes    string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project
func NewProject(name, code, ownerOrg string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		OwnerOrg:          strings.TrimSpace(ownerOrg),
		Status:            ProjectStatusActive,
	}, nil
}

// Update updates the project's mutable fields
func (p *Project) Update(name, ownerOrg string) error {
	if name != "" {
		p.Name = strings.TrimSpace(name)
	}
	if ownerOrg != "" {
		p.OwnerOrg = strings.TrimSpace(ownerOrg)
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
