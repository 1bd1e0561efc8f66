package correlator

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/services"
	"github.com/status-beacon/beacon/internal/store"
)

// Report is one incident descriptor as delivered by a provider's status
// page. Status and impact are taken as given; impact is never derived from
// status, even for combinations that look unusual.
type Report struct {
	ExternalID  string
	Title       string
	Description string
	Status      models.IncidentStatus
	Impact      models.IncidentImpact
	ReportedAt  time.Time
}

// Striped locks over (service, external id). The lookup-then-create-or-update
// below is a read-modify-write; two concurrent reports for the same pair must
// not both take the create path. Distinct pairs may hash to the same stripe,
// which only costs an occasional extra serialization, and the table stays a
// fixed size no matter how many incidents pass through.
var locks [64]sync.Mutex

func lockPair(serviceID uint, externalID string) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", serviceID, externalID)

	mu := &locks[h.Sum32()%uint32(len(locks))]
	mu.Lock()
	return mu
}

// Apply correlates one incident report into the local incident table.
//
// An unknown (service, external id) pair creates a new incident; a known
// pair updates the existing row in place. The returned stale flag is true
// when the report's time is strictly older than the incident's last applied
// report, in which case nothing changes: providers redeliver events, so an
// out-of-order report is an idempotent no-op rather than an error.
func Apply(serviceID uint, report Report) (*models.Incident, bool, error) {
	service, err := store.GetService(serviceID)

	if err != nil {
		return nil, false, err
	}

	mu := lockPair(serviceID, report.ExternalID)
	defer mu.Unlock()

	incident, err := store.FindIncidentByExternalID(serviceID, report.ExternalID)

	if errors.Is(err, store.ErrNotFound) {
		incident = &models.Incident{
			ServiceID:   serviceID,
			ExternalID:  report.ExternalID,
			Title:       report.Title,
			Description: report.Description,
			Status:      report.Status,
			Impact:      report.Impact,
		}

		if report.Status.Closed() {
			resolvedAt := report.ReportedAt
			incident.ResolvedAt = &resolvedAt
		}

		// gorm keeps a pre-set UpdatedAt, so the row records the report
		// time rather than the write time.
		incident.UpdatedAt = report.ReportedAt

		err = store.CreateIncident(incident)

		if err == nil {
			notifyCreated(service, incident)
			return incident, false, nil
		}

		if !errors.Is(err, store.ErrUniqueConflict) {
			return nil, false, err
		}

		// A concurrent report for the same pair won the create; fall
		// through and apply ours as an update of that row.
		incident, err = store.FindIncidentByExternalID(serviceID, report.ExternalID)
		if err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}

	if report.ReportedAt.Before(incident.UpdatedAt) {
		log.Printf("Stale incident report for service %d external %s: reported %s, last applied %s",
			serviceID, report.ExternalID, report.ReportedAt.Format(time.RFC3339), incident.UpdatedAt.Format(time.RFC3339))
		return incident, true, nil
	}

	wasClosed := incident.Status.Closed()

	incident.Title = report.Title
	incident.Description = report.Description
	incident.Status = report.Status
	incident.Impact = report.Impact
	incident.UpdatedAt = report.ReportedAt

	if report.Status.Closed() {
		if incident.ResolvedAt == nil {
			resolvedAt := report.ReportedAt
			incident.ResolvedAt = &resolvedAt
		}
	} else {
		// Re-opened (e.g. resolved -> monitoring); the resolution time no
		// longer holds.
		incident.ResolvedAt = nil
	}

	if err := store.UpdateIncidentReport(incident); err != nil {
		return nil, false, err
	}

	if !wasClosed && incident.Status.Closed() {
		notifyResolved(service, incident)
	}

	return incident, false, nil
}

func notifyCreated(service *models.Service, incident *models.Incident) {
	go func() {
		if err := services.SendIncidentCreatedNotification(*service, *incident); err != nil {
			log.Printf("Failed to send incident created notification for %s: %v", service.Name, err)
		}
	}()
}

func notifyResolved(service *models.Service, incident *models.Incident) {
	go func() {
		if err := services.SendIncidentResolvedNotification(*service, *incident); err != nil {
			log.Printf("Failed to send incident resolved notification for %s: %v", service.Name, err)
		}
	}()
}
