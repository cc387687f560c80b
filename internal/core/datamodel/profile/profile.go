package profile

import "time"

// EquipmentProfile is reference data describing a hardware model; assets
// point at a profile through profile_id.
type EquipmentProfile struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;uniqueIndex;not null"`
	Manufacturer string    `gorm:"column:manufacturer"`
	Category     string    `gorm:"column:category"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (EquipmentProfile) TableName() string {
	return "equipment_profiles"
}
