package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/utils"
)

// ListOpenIncidents returns unresolved incidents across all services,
// highest impact first.
func ListOpenIncidents(ctx *gin.Context) {
	incidents, err := store.OpenIncidents(0)

	if err != nil {
		log.Printf("Failed to list open incidents: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list open incidents"})
		return
	}

	ctx.JSON(http.StatusOK, incidents)
}

// ListServiceIncidents returns unresolved incidents for one service.
func ListServiceIncidents(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := store.GetService(uint(serviceID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		log.Printf("Failed to retrieve service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		return
	}

	incidents, err := store.OpenIncidents(uint(serviceID))

	if err != nil {
		log.Printf("Failed to list incidents for service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list incidents"})
		return
	}

	ctx.JSON(http.StatusOK, incidents)
}
