package models

import "time"

// Incident is a provider-reported event affecting one service. The
// (ServiceID, ExternalID) pair is the dedup key: a report carrying a known
// external id updates the existing row instead of creating a new one.
//
// UpdatedAt carries the reportedAt of the last applied report, not the wall
// clock of the write; the correlator's stale-report guard compares against
// it, so redelivered or out-of-order reports cannot roll state backward.
type Incident struct {
	BaseModel

	ServiceID   uint           `gorm:"not null;uniqueIndex:uq_incidents_service_external;index:ix_incidents_service_status" json:"service_id"`
	ExternalID  string         `gorm:"size:100;not null;uniqueIndex:uq_incidents_service_external" json:"external_id"`
	Title       string         `gorm:"size:500;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      IncidentStatus `gorm:"size:20;not null;index:ix_incidents_service_status" json:"status"`
	Impact      IncidentImpact `gorm:"size:20;not null;index" json:"impact"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
}

// Resolved reports whether the incident has reached a closed status.
func (i *Incident) Resolved() bool {
	return i.Status.Closed()
}
