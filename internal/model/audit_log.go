package model

import "time"

// AuditLog is a change-history entry. Nothing writes these implicitly;
// callers post them like any other resource.
type AuditLog struct {
	BaseModel
	UserID       string    `gorm:"type:varchar(100)" json:"user_id"`
	Action       string    `gorm:"type:varchar(50)" json:"action" validate:"required"`
	ResourceType string    `gorm:"type:varchar(50)" json:"resource_type"`
	ResourceID   string    `gorm:"type:varchar(100)" json:"resource_id"`
	Details      string    `gorm:"type:text" json:"details"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Tables returns the models backing the six resources, in migration order.
func Tables() []interface{} {
	return []interface{}{
		&Product{},
		&WarehouseItem{},
		&Stock{},
		&Supplier{},
		&Order{},
		&AuditLog{},
	}
}
