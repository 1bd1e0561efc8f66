package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/store"
)

type ServiceSummary struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Provider      string               `json:"provider"`
	IsActive      bool                 `json:"is_active"`
	CurrentStatus models.ServiceStatus `json:"current_status"`
	LastCheckedAt *time.Time           `json:"last_checked_at"`
	OpenIncidents int                  `json:"open_incidents"`
}

type DashboardResponse struct {
	Services      []ServiceSummary  `json:"services"`
	StatusCounts  map[string]int    `json:"status_counts"`
	OpenIncidents []models.Incident `json:"open_incidents"`
}

// GetDashboard builds the status-page overview: every service with its
// latest observation, plus all open incidents ordered by severity.
func GetDashboard(ctx *gin.Context) {
	services, err := store.ListServices("", false)

	if err != nil {
		log.Printf("Failed to list services for dashboard: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	openIncidents, err := store.OpenIncidents(0)

	if err != nil {
		log.Printf("Failed to list open incidents for dashboard: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	openByService := make(map[uint]int, len(openIncidents))

	for _, incident := range openIncidents {
		openByService[incident.ServiceID]++
	}

	summaries := make([]ServiceSummary, 0, len(services))
	statusCounts := make(map[string]int)

	for _, service := range services {
		summary := ServiceSummary{
			ID:            service.ID,
			Name:          service.Name,
			Provider:      service.Provider,
			IsActive:      service.IsActive,
			CurrentStatus: models.StatusUnknown,
			OpenIncidents: openByService[service.ID],
		}

		record, err := store.CurrentStatus(service.ID)

		if err != nil {
			log.Printf("Failed to get current status for service %d: %v", service.ID, err)
		} else if record != nil {
			summary.CurrentStatus = record.Status
			summary.LastCheckedAt = &record.CheckedAt
		}

		statusCounts[string(summary.CurrentStatus)]++
		summaries = append(summaries, summary)
	}

	ctx.JSON(http.StatusOK, DashboardResponse{
		Services:      summaries,
		StatusCounts:  statusCounts,
		OpenIncidents: openIncidents,
	})
}
