package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/correlator"
	"github.com/status-beacon/beacon/internal/ingest"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/utils"
)

type IncidentReportPayload struct {
	ExternalID  string    `json:"external_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status" binding:"required"`
	Impact      string    `json:"impact" binding:"required"`
	ReportedAt  time.Time `json:"reported_at" binding:"required"`
}

type ReportStatusRequest struct {
	Status    string                  `json:"status" binding:"required"`
	CheckedAt time.Time               `json:"checked_at"`
	Raw       json.RawMessage         `json:"raw"`
	Incidents []IncidentReportPayload `json:"incidents"`
}

// ReportStatus is the ingestion endpoint for external pollers: one status
// observation plus any incident descriptors seen on the same poll. The
// observed status is normalized rather than validated, but incident status
// and impact are members of closed enumerations and must parse.
func ReportStatus(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ReportStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports := make([]correlator.Report, 0, len(req.Incidents))

	for _, payload := range req.Incidents {
		status := models.IncidentStatus(payload.Status)
		impact := models.IncidentImpact(payload.Impact)

		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown incident status: " + payload.Status})
			return
		}

		if !impact.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown incident impact: " + payload.Impact})
			return
		}

		reports = append(reports, correlator.Report{
			ExternalID:  payload.ExternalID,
			Title:       payload.Title,
			Description: payload.Description,
			Status:      status,
			Impact:      impact,
			ReportedAt:  payload.ReportedAt,
		})
	}

	record, outcomes, err := ingest.RecordObservation(uint(serviceID), req.Status, req.CheckedAt, req.Raw, reports)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		if errors.Is(err, store.ErrConstraintViolation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Observation references a missing service"})
			return
		}

		log.Printf("Failed to record observation for service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record observation"})
		return
	}

	stale := false

	for _, outcome := range outcomes {
		if outcome.Stale {
			stale = true
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"record":    record,
		"incidents": outcomes,
		"stale":     stale,
	})
}

func GetCurrentStatus(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := store.CurrentStatus(uint(serviceID))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		log.Printf("Failed to get current status for service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get current status"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"record": record})
}

func GetStatusHistory(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var from, to time.Time

	if raw := ctx.Query("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
	}

	if raw := ctx.Query("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return
		}
	}

	limit := 0

	if raw := ctx.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit'"})
			return
		}
	}

	page, err := store.StatusHistory(uint(serviceID), from, to, limit, ctx.Query("cursor"))

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		case errors.Is(err, store.ErrInvalidCursor):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		default:
			log.Printf("Failed to get status history for service %d: %v", serviceID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status history"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"records":     page.Records,
		"next_cursor": page.NextCursor,
	})
}
