package audit

import "time"

// Entry is append-only; rows are never updated or deleted.
type Entry struct {
	ID         int64     `gorm:"primaryKey"`
	ActorID    int64     `gorm:"column:actor_id;not null"`
	ModuleID   int       `gorm:"column:module_id;not null"`
	ActionID   int       `gorm:"column:action_id;not null"`
	Details    string    `gorm:"column:details"`
	OccurredAt time.Time `gorm:"column:occurred_at;autoCreateTime"`
}

func (Entry) TableName() string {
	return "audit_log"
}
