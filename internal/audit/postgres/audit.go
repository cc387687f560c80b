package postgres

import (
	"context"

	"github.com/equiptrack/inventory-management/internal/audit"
	auditDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one trail row. There is deliberately no update or delete
// path on this table.
func (r *Repository) Insert(ctx context.Context, event audit.Event) error {
	row := auditDatamodel.Entry{
		ActorID:    event.ActorID,
		ModuleID:   event.ModuleID,
		ActionID:   event.ActionID,
		Details:    event.Details,
		OccurredAt: event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}
