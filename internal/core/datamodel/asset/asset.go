package asset

import "time"

type Asset struct {
	ID           int64      `gorm:"primaryKey"`
	Tag          string     `gorm:"column:tag;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	SerialNumber string     `gorm:"column:serial_number"`
	ProfileID    *int64     `gorm:"column:profile_id"`
	DepartmentID *int64     `gorm:"column:department_id"`
	Status       string     `gorm:"column:status;default:in_stock"`
	AssignedTo   *int64     `gorm:"column:assigned_to"`
	PurchasedAt  *time.Time `gorm:"column:purchased_at;type:date"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
