package models

// Service is a monitored third-party endpoint (an AWS component, a GCP
// product, etc.) whose public status page we poll.
//
// Children (StatusRecord, Incident) reference the service by stored id only;
// cascade on delete is handled inside the store so it behaves the same on
// every driver.
type Service struct {
	BaseModel

	Name      string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Provider  string `gorm:"size:50;not null;index:ix_services_provider_active" json:"provider"`
	StatusURL string `gorm:"size:500;not null" json:"status_url"`
	IsActive  bool   `gorm:"not null;default:true;index:ix_services_provider_active" json:"is_active"`
}
