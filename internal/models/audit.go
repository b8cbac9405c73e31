package models

import "time"

// AuditLog records lifecycle events and per-line generation failures so
// admins can inspect why a line is missing a commission record or why a
// vendor was refused.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EntityType string    `json:"entity_type" gorm:"not null;index:idx_audit_entity"`
	EntityID   uint      `json:"entity_id" gorm:"not null;index:idx_audit_entity"`
	Event      string    `json:"event" gorm:"not null"`
	Detail     string    `json:"detail" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	AuditEntityVendor     = "vendor"
	AuditEntityOrder      = "order"
	AuditEntityCommission = "commission"
	AuditEntityPayout     = "payout"
)
