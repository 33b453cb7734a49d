package persistence

import (
	"context"

	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"gorm.io/gorm"
)

// GormSchemaIntrospector lists live table columns through the GORM migrator
// so the field catalog picks up columns added by later migrations
type GormSchemaIntrospector struct {
	db *gorm.DB
}

// NewGormSchemaIntrospector creates a new GormSchemaIntrospector
func NewGormSchemaIntrospector(db *gorm.DB) *GormSchemaIntrospector {
	return &GormSchemaIntrospector{db: db}
}

// TableColumns returns the column names of a table
func (i *GormSchemaIntrospector) TableColumns(ctx context.Context, table string) ([]string, error) {
	columnTypes, err := i.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		names = append(names, ct.Name())
	}
	return names, nil
}

// Ensure GormSchemaIntrospector implements SchemaIntrospector
var _ reconapp.SchemaIntrospector = (*GormSchemaIntrospector)(nil)
