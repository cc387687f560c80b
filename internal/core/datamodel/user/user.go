package user

import "time"

type User struct {
	ID                int64      `gorm:"primaryKey"`
	Email             string     `gorm:"column:email;uniqueIndex;not null"`
	Name              string     `gorm:"column:name;not null"`
	Role              string     `gorm:"column:role"`
	PasswordHash      string     `gorm:"column:password_hash;not null"`
	Department        string     `gorm:"column:department"`
	IsActive          bool       `gorm:"column:is_active;default:true"`
	PasswordChangedAt *time.Time `gorm:"column:password_changed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
