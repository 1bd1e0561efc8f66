package ingest

import (
	"time"

	"github.com/status-beacon/beacon/internal/correlator"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/stream"
	"gorm.io/datatypes"
)

// IncidentOutcome pairs a correlated incident with the stale flag for its
// report, so the transport can surface which reports were no-ops.
type IncidentOutcome struct {
	Incident *models.Incident `json:"incident"`
	Stale    bool             `json:"stale"`
}

// RecordStatus appends exactly one status record for the service.
//
// The observed status is normalized at this boundary: a value outside the
// known enumeration is stored as "unknown" instead of failing, so a parsing
// surprise upstream never loses an observation. Consecutive identical
// statuses are not deduplicated.
func RecordStatus(serviceID uint, observed string, checkedAt time.Time, raw []byte) (*models.StatusRecord, error) {
	if _, err := store.GetService(serviceID); err != nil {
		return nil, err
	}

	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}

	record := &models.StatusRecord{
		ServiceID: serviceID,
		Status:    models.NormalizeServiceStatus(observed),
		CheckedAt: checkedAt,
		Raw:       datatypes.JSON(raw),
	}

	if err := store.CreateStatusRecord(record); err != nil {
		return nil, err
	}

	stream.BroadcastRecord(record)

	return record, nil
}

// RecordObservation is the poller boundary: it writes the status record and
// then forwards each incident descriptor to the correlator. The record and
// the reports are separate bounded transactions; a failing report leaves the
// already-appended record in place, which is safe because the status log is
// append-only and pollers retry whole observations.
func RecordObservation(serviceID uint, observed string, checkedAt time.Time, raw []byte, reports []correlator.Report) (*models.StatusRecord, []IncidentOutcome, error) {
	record, err := RecordStatus(serviceID, observed, checkedAt, raw)

	if err != nil {
		return nil, nil, err
	}

	outcomes := make([]IncidentOutcome, 0, len(reports))

	for _, report := range reports {
		incident, stale, err := correlator.Apply(serviceID, report)

		if err != nil {
			return record, outcomes, err
		}

		outcomes = append(outcomes, IncidentOutcome{Incident: incident, Stale: stale})
	}

	return record, outcomes, nil
}
