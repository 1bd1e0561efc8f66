package models

import (
	"time"

	"gorm.io/datatypes"
)

// StatusRecord is one immutable observation of a service's status. Every
// poll appends one; records are never updated and are deleted only when the
// owning service is deleted. Consecutive identical statuses are kept as-is,
// the table is an observation log rather than a compressed state trace.
type StatusRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ServiceID uint           `gorm:"not null;index:ix_status_records_service_checked" json:"service_id"`
	Status    ServiceStatus  `gorm:"size:20;not null;index" json:"status"`
	CheckedAt time.Time      `gorm:"not null;index:ix_status_records_service_checked" json:"checked_at"`
	Raw       datatypes.JSON `gorm:"type:jsonb" json:"raw,omitempty"`
}
