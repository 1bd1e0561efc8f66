package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/scheduler"
	"github.com/status-beacon/beacon/internal/store"
	"github.com/status-beacon/beacon/internal/utils"
)

type CreateServiceRequest struct {
	Name      string `json:"name" binding:"required"`
	Provider  string `json:"provider" binding:"required"`
	StatusURL string `json:"status_url" binding:"required,url"`
	IsActive  *bool  `json:"is_active"`
}

func CreateService(ctx *gin.Context) {
	var req CreateServiceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := models.Service{
		Name:      req.Name,
		Provider:  req.Provider,
		StatusURL: req.StatusURL,
		IsActive:  true,
	}

	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := store.CreateService(&service); err != nil {
		if errors.Is(err, store.ErrUniqueConflict) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Service name already exists"})
			return
		}

		log.Printf("Failed to create service: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	if service.IsActive {
		scheduler.AddService(service)
	}

	ctx.JSON(http.StatusCreated, service)
}

func ListServices(ctx *gin.Context) {
	provider := ctx.Query("provider")
	activeOnly := ctx.Query("active") == "true"

	services, err := store.ListServices(provider, activeOnly)

	if err != nil {
		log.Printf("Failed to list services: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}

	ctx.JSON(http.StatusOK, services)
}

func GetService(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service, err := store.GetService(uint(serviceID))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		log.Printf("Failed to retrieve service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		return
	}

	ctx.JSON(http.StatusOK, service)
}

// DeactivateService soft-disables polling while keeping the service and all
// of its history queryable.
func DeactivateService(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service, err := store.DeactivateService(uint(serviceID))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		log.Printf("Failed to deactivate service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate service"})
		return
	}

	scheduler.RemoveService(service.ID)

	ctx.JSON(http.StatusOK, service)
}

// DeleteService hard-deletes the service and cascades to its status records
// and incidents.
func DeleteService(ctx *gin.Context) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.DeleteService(uint(serviceID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		log.Printf("Failed to delete service %d: %v", serviceID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	scheduler.RemoveService(uint(serviceID))

	ctx.Status(http.StatusNoContent)
}
