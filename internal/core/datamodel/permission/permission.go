package permission

import "time"

// UserPermissionSet is a single denormalized row of boolean capability flags
// per user. Absence of a row means the user has no permissions yet.
type UserPermissionSet struct {
	UserID                  int64     `gorm:"primaryKey;column:user_id"`
	AccessAll               bool      `gorm:"column:access_all;default:false"`
	ViewEmployees           bool      `gorm:"column:view_employees;default:false"`
	ViewUsers               bool      `gorm:"column:view_users;default:false"`
	ViewReports             bool      `gorm:"column:view_reports;default:false"`
	ViewAssignments         bool      `gorm:"column:view_assignments;default:false"`
	ViewMaintenance         bool      `gorm:"column:view_maintenance;default:false"`
	ModifyAssets            bool      `gorm:"column:modify_assets;default:false"`
	ModifyMaintenance       bool      `gorm:"column:modify_maintenance;default:false"`
	ModifyEquipmentProfiles bool      `gorm:"column:modify_equipment_profiles;default:false"`
	ModifyDepartments       bool      `gorm:"column:modify_departments;default:false"`
	ModifyUsers             bool      `gorm:"column:modify_users;default:false"`
	ModifyAssignments       bool      `gorm:"column:modify_assignments;default:false"`
	UpdatedAt               time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserPermissionSet) TableName() string {
	return "user_permissions"
}
