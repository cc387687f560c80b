package postgres

import (
	"context"
	"errors"

	permissionDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/permission"
	"github.com/equiptrack/inventory-management/internal/permissions"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetPermissionSet loads the single flags row for the user. A missing row
// is reported through found=false, not as an error.
func (r *Repository) GetPermissionSet(ctx context.Context, userID int64) (permissions.Set, bool, error) {
	var row permissionDatamodel.UserPermissionSet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return permissions.Set{}, false, nil
	}
	if err != nil {
		return permissions.Set{}, false, err
	}
	return fromDataModel(row), true, nil
}

// SavePermissionSet upserts the flags row for the user, creating it lazily
// for users that never had one.
func (r *Repository) SavePermissionSet(ctx context.Context, userID int64, set permissions.Set) error {
	row := toDataModel(userID, set)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func fromDataModel(row permissionDatamodel.UserPermissionSet) permissions.Set {
	return permissions.Set{
		AccessAll:               row.AccessAll,
		ViewEmployees:           row.ViewEmployees,
		ViewUsers:               row.ViewUsers,
		ViewReports:             row.ViewReports,
		ViewAssignments:         row.ViewAssignments,
		ViewMaintenance:         row.ViewMaintenance,
		ModifyAssets:            row.ModifyAssets,
		ModifyMaintenance:       row.ModifyMaintenance,
		ModifyEquipmentProfiles: row.ModifyEquipmentProfiles,
		ModifyDepartments:       row.ModifyDepartments,
		ModifyUsers:             row.ModifyUsers,
		ModifyAssignments:       row.ModifyAssignments,
	}
}

func toDataModel(userID int64, set permissions.Set) permissionDatamodel.UserPermissionSet {
	return permissionDatamodel.UserPermissionSet{
		UserID:                  userID,
		AccessAll:               set.AccessAll,
		ViewEmployees:           set.ViewEmployees,
		ViewUsers:               set.ViewUsers,
		ViewReports:             set.ViewReports,
		ViewAssignments:         set.ViewAssignments,
		ViewMaintenance:         set.ViewMaintenance,
		ModifyAssets:            set.ModifyAssets,
		ModifyMaintenance:       set.ModifyMaintenance,
		ModifyEquipmentProfiles: set.ModifyEquipmentProfiles,
		ModifyDepartments:       set.ModifyDepartments,
		ModifyUsers:             set.ModifyUsers,
		ModifyAssignments:       set.ModifyAssignments,
	}
}
