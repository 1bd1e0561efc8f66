package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/auth"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/router"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/testdb"
)

func setupAPI(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testdb.Setup(t)

	t.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret failed: %v", err)
	}

	token, err := auth.GenerateJWT("admin")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	return router.NewRouter(), token
}

func seedService(t *testing.T) *models.Service {
	t.Helper()

	service := &models.Service{
		Name:      "aws-s3",
		Provider:  "aws",
		StatusURL: "https://status.aws.amazon.com/",
		IsActive:  true,
	}

	if err := store.CreateService(service); err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	return service
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer = bytes.NewBuffer(nil)

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReportStatus_RequiresAuth(t *testing.T) {
	r, _ := setupAPI(t)
	service := seedService(t)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/services/%d/status", service.ID), "", gin.H{"status": "operational"})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}

func TestReportStatus_UnknownService(t *testing.T) {
	r, token := setupAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/services/999/status", token, gin.H{"status": "operational"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown service, got %d", w.Code)
	}
}

func TestReportStatus_WithIncidents(t *testing.T) {
	r, token := setupAPI(t)
	service := seedService(t)

	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/services/%d/status", service.ID), token, gin.H{
		"status":     "partial_outage",
		"checked_at": t1.Format(time.RFC3339),
		"incidents": []gin.H{
			{
				"external_id": "ext-42",
				"title":       "S3 elevated errors",
				"status":      "investigating",
				"impact":      "major",
				"reported_at": t1.Format(time.RFC3339),
			},
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Record struct {
			Status string `json:"status"`
		} `json:"record"`
		Incidents []struct {
			Stale bool `json:"stale"`
		} `json:"incidents"`
		Stale bool `json:"stale"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Record.Status != "partial_outage" {
		t.Fatalf("Expected partial_outage, got %s", resp.Record.Status)
	}
	if resp.Stale || len(resp.Incidents) != 1 || resp.Incidents[0].Stale {
		t.Fatalf("Fresh report must not be stale: %+v", resp)
	}

	// Redelivery with an older reported_at succeeds but is flagged stale
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/services/%d/status", service.ID), token, gin.H{
		"status": "operational",
		"incidents": []gin.H{
			{
				"external_id": "ext-42",
				"title":       "S3 elevated errors",
				"status":      "identified",
				"impact":      "major",
				"reported_at": t1.Add(-time.Hour).Format(time.RFC3339),
			},
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Stale redelivery must still succeed, got %d: %s", w.Code, w.Body.String())
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Stale {
		t.Fatal("Expected stale flag on redelivery")
	}
}

func TestReportStatus_RejectsUnknownIncidentEnum(t *testing.T) {
	r, token := setupAPI(t)
	service := seedService(t)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/services/%d/status", service.ID), token, gin.H{
		"status": "operational",
		"incidents": []gin.H{
			{
				"external_id": "ext-1",
				"title":       "weird",
				"status":      "escalated",
				"impact":      "major",
				"reported_at": time.Now().UTC().Format(time.RFC3339),
			},
		},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown incident status, got %d", w.Code)
	}
}

func TestCurrentStatusEndpoint(t *testing.T) {
	r, token := setupAPI(t)
	service := seedService(t)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/services/%d/status", service.ID), "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Record *models.StatusRecord `json:"record"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Record != nil {
		t.Fatalf("Expected null record for fresh service, got %+v", resp.Record)
	}

	doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/services/%d/status", service.ID), token, gin.H{"status": "degraded"})

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/services/%d/status", service.ID), "", nil)

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Record == nil || resp.Record.Status != models.StatusDegraded {
		t.Fatalf("Expected degraded record, got %+v", resp.Record)
	}
}
