package postgres

import (
	"context"
	"errors"

	profileDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/profile"
	"github.com/equiptrack/inventory-management/internal/profile"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) profile.RepositoryAPI {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetAll(ctx context.Context) ([]*profileDatamodel.EquipmentProfile, error) {
	var rows []*profileDatamodel.EquipmentProfile
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*profileDatamodel.EquipmentProfile, error) {
	var row profileDatamodel.EquipmentProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*profileDatamodel.EquipmentProfile, error) {
	var row profileDatamodel.EquipmentProfile
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProfileRepository) Create(ctx context.Context, row *profileDatamodel.EquipmentProfile) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *ProfileRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&profileDatamodel.EquipmentProfile{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
