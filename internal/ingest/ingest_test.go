package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/status-beacon/beacon/internal/correlator"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/testdb"
)

func seedService(t *testing.T, name string) *models.Service {
	t.Helper()

	service := &models.Service{
		Name:      name,
		Provider:  "aws",
		StatusURL: "https://status.aws.amazon.com/",
		IsActive:  true,
	}

	if err := store.CreateService(service); err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	return service
}

func TestRecordStatus_MissingService(t *testing.T) {
	testdb.Setup(t)

	if _, err := RecordStatus(999, "operational", time.Now().UTC(), nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordStatus_ThenCurrent(t *testing.T) {
	testdb.Setup(t)

	service := seedService(t, "aws-s3")

	record, err := RecordStatus(service.ID, "degraded", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), []byte(`{"page":"ok"}`))
	if err != nil {
		t.Fatalf("RecordStatus failed: %v", err)
	}

	current, err := store.CurrentStatus(service.ID)
	if err != nil {
		t.Fatalf("CurrentStatus failed: %v", err)
	}

	if current == nil || current.ID != record.ID {
		t.Fatalf("CurrentStatus must return the just-recorded value, got %+v", current)
	}
	if current.Status != models.StatusDegraded {
		t.Fatalf("Expected degraded, got %s", current.Status)
	}
}

func TestRecordStatus_NormalizesUnknown(t *testing.T) {
	testdb.Setup(t)

	service := seedService(t, "aws-s3")

	record, err := RecordStatus(service.ID, "exploded", time.Now().UTC(), nil)
	if err != nil {
		t.Fatalf("RecordStatus must not fail on unrecognized status: %v", err)
	}

	if record.Status != models.StatusUnknown {
		t.Fatalf("Expected unknown, got %s", record.Status)
	}
}

func TestRecordStatus_KeepsDuplicateObservations(t *testing.T) {
	testdb.Setup(t)

	service := seedService(t, "aws-s3")

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Polls legitimately repeat a status; both observations must be kept
	for i := 0; i < 2; i++ {
		if _, err := RecordStatus(service.ID, "operational", at, nil); err != nil {
			t.Fatalf("RecordStatus %d failed: %v", i, err)
		}
	}

	page, err := store.StatusHistory(service.ID, time.Time{}, time.Time{}, 0, "")
	if err != nil {
		t.Fatalf("StatusHistory failed: %v", err)
	}

	if len(page.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page.Records))
	}
}

func TestScenario_StatusSequence(t *testing.T) {
	testdb.Setup(t)

	service := seedService(t, "aws-s3")

	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)

	if _, err := RecordStatus(service.ID, "degraded", t1, nil); err != nil {
		t.Fatalf("RecordStatus t1 failed: %v", err)
	}
	if _, err := RecordStatus(service.ID, "operational", t2, nil); err != nil {
		t.Fatalf("RecordStatus t2 failed: %v", err)
	}

	current, err := store.CurrentStatus(service.ID)
	if err != nil {
		t.Fatalf("CurrentStatus failed: %v", err)
	}
	if current.Status != models.StatusOperational || !current.CheckedAt.Equal(t2) {
		t.Fatalf("Expected operational at t2, got %s at %v", current.Status, current.CheckedAt)
	}

	page, err := store.StatusHistory(service.ID, time.Time{}, time.Time{}, 0, "")
	if err != nil {
		t.Fatalf("StatusHistory failed: %v", err)
	}

	if len(page.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page.Records))
	}
	if page.Records[0].Status != models.StatusOperational || page.Records[1].Status != models.StatusDegraded {
		t.Fatalf("Expected [operational, degraded], got [%s, %s]", page.Records[0].Status, page.Records[1].Status)
	}
}

func TestRecordObservation_ForwardsIncidents(t *testing.T) {
	testdb.Setup(t)

	service := seedService(t, "aws-s3")

	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_, outcomes, err := RecordObservation(service.ID, "partial_outage", t1, nil, []correlator.Report{
		{
			ExternalID:  "ext-42",
			Title:       "S3 elevated errors",
			Description: "Elevated error rates",
			Status:      models.IncidentInvestigating,
			Impact:      models.ImpactMajor,
			ReportedAt:  t1,
		},
	})

	if err != nil {
		t.Fatalf("RecordObservation failed: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Stale {
		t.Fatalf("Expected one fresh outcome, got %+v", outcomes)
	}

	firstID := outcomes[0].Incident.ID

	// Second poll resolves the incident and redelivers the original report
	_, outcomes, err = RecordObservation(service.ID, "operational", t2, nil, []correlator.Report{
		{
			ExternalID: "ext-42",
			Title:      "S3 elevated errors",
			Status:     models.IncidentResolved,
			Impact:     models.ImpactMajor,
			ReportedAt: t2,
		},
		{
			ExternalID: "ext-42",
			Title:      "S3 elevated errors",
			Status:     models.IncidentInvestigating,
			Impact:     models.ImpactMajor,
			ReportedAt: t1,
		},
	})

	if err != nil {
		t.Fatalf("RecordObservation failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("Expected two outcomes, got %d", len(outcomes))
	}

	if outcomes[0].Stale {
		t.Fatal("Resolving report must not be stale")
	}
	if !outcomes[1].Stale {
		t.Fatal("Redelivered report must be stale")
	}
	if outcomes[0].Incident.ID != firstID {
		t.Fatalf("Correlation must reuse the incident row: %d vs %d", outcomes[0].Incident.ID, firstID)
	}
	if outcomes[1].Incident.Status != models.IncidentResolved {
		t.Fatalf("Stale report must not roll status back, got %s", outcomes[1].Incident.Status)
	}
	if outcomes[0].Incident.ResolvedAt == nil || !outcomes[0].Incident.ResolvedAt.Equal(t2) {
		t.Fatalf("Expected ResolvedAt %v, got %v", t2, outcomes[0].Incident.ResolvedAt)
	}
}
