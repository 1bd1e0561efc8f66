package models

import "time"

// BaseModel is embedded by entities that carry creation/update timestamps.
// Unlike gorm.Model there is no DeletedAt: rows are removed for real, and
// Service deactivation is an explicit flag instead of a soft delete.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
