package store

import (
	"github.com/status-beacon/beacon/db"
	"github.com/status-beacon/beacon/internal/models"
	"gorm.io/gorm"
)

// FindIncidentByExternalID looks up the incident keyed by the correlation
// pair (service id, provider-assigned external id).
func FindIncidentByExternalID(serviceID uint, externalID string) (*models.Incident, error) {
	var incident models.Incident

	err := db.DB.Where("service_id = ? AND external_id = ?", serviceID, externalID).
		First(&incident).Error

	if err != nil {
		return nil, translate(err)
	}

	return &incident, nil
}

// CreateIncident inserts a new incident row. The owning service is verified
// in the same transaction; a duplicate (service, external_id) pair surfaces
// as ErrUniqueConflict for the correlator to retry as an update.
func CreateIncident(incident *models.Incident) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Service{}).Where("id = ?", incident.ServiceID).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return ErrConstraintViolation
		}

		return translate(tx.Create(incident).Error)
	})
}

// UpdateIncidentReport overwrites the report-supplied fields of an incident.
// UpdateColumns bypasses gorm's automatic timestamping: UpdatedAt is written
// from the struct because it carries the report's reportedAt, which the
// correlator's stale guard compares against.
func UpdateIncidentReport(incident *models.Incident) error {
	err := db.DB.Model(&models.Incident{}).
		Where("id = ?", incident.ID).
		UpdateColumns(map[string]interface{}{
			"title":       incident.Title,
			"description": incident.Description,
			"status":      incident.Status,
			"impact":      incident.Impact,
			"resolved_at": incident.ResolvedAt,
			"updated_at":  incident.UpdatedAt,
		}).Error

	return translate(err)
}

// OpenIncidents returns unresolved incidents (status outside resolved and
// postmortem), most severe impact first, newest first within an impact.
// serviceID 0 means all services.
func OpenIncidents(serviceID uint) ([]models.Incident, error) {
	query := db.DB.Where("status NOT IN ?", []models.IncidentStatus{
		models.IncidentResolved,
		models.IncidentPostmortem,
	})

	if serviceID != 0 {
		query = query.Where("service_id = ?", serviceID)
	}

	query = query.Order("CASE impact WHEN 'critical' THEN 0 WHEN 'major' THEN 1 WHEN 'minor' THEN 2 ELSE 3 END, created_at DESC")

	var incidents []models.Incident

	if err := query.Find(&incidents).Error; err != nil {
		return nil, translate(err)
	}

	return incidents, nil
}
