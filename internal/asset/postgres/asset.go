package postgres

import (
	"context"
	"errors"

	"github.com/equiptrack/inventory-management/internal/asset"
	assetDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/asset"
	"gorm.io/gorm"
)

// AssetRepository implements the asset.Repository interface using GORM
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	row := asset.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	a.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	var row assetDatamodel.Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, asset.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return asset.FromDataModel(&row), nil
}

func (r *AssetRepository) GetByTag(ctx context.Context, tag string) (*asset.Asset, error) {
	var row assetDatamodel.Asset
	err := r.db.WithContext(ctx).Where("tag = ?", tag).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, asset.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return asset.FromDataModel(&row), nil
}

func (r *AssetRepository) List(ctx context.Context, filter asset.ListFilter) ([]*asset.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&assetDatamodel.Asset{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo > 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.DepartmentID > 0 {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []assetDatamodel.Asset
	err := query.
		Order("tag asc").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	assets := make([]*asset.Asset, 0, len(rows))
	for i := range rows {
		assets = append(assets, asset.FromDataModel(&rows[i]))
	}
	return assets, total, nil
}

func (r *AssetRepository) Update(ctx context.Context, a *asset.Asset) error {
	row := asset.ToDataModel(a)
	result := r.db.WithContext(ctx).
		Model(&assetDatamodel.Asset{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"name":          row.Name,
			"serial_number": row.SerialNumber,
			"profile_id":    row.ProfileID,
			"department_id": row.DepartmentID,
			"status":        row.Status,
			"assigned_to":   row.AssignedTo,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return asset.ErrNotFound
	}
	return nil
}
