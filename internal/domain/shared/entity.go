package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is what every persisted domain object can tell about itself
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries identity and timestamps for persisted domain objects.
// IDs are minted in the application, never by the database, so an entity is
// addressable before its first save.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity mints an identity with both timestamps set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

// GetUpdatedAt returns the last modification timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch marks the entity as modified
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
