package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/user"
	"github.com/equiptrack/inventory-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userDatamodel.User
	err := r.db.WithContext(ctx).
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]user.User, 0, len(rows))
	for i := range rows {
		users = append(users, *user.FromDataModel(&rows[i]))
	}
	return users, total, nil
}

func (r *Repository) SetActive(ctx context.Context, userID int64, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
