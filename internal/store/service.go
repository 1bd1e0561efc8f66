package store

import (
	"errors"

	"github.com/status-beacon/beacon/db"
	"github.com/status-beacon/beacon/internal/models"
	"gorm.io/gorm"
)

func CreateService(service *models.Service) error {
	return translate(db.DB.Create(service).Error)
}

func GetService(id uint) (*models.Service, error) {
	var service models.Service

	if err := db.DB.First(&service, id).Error; err != nil {
		return nil, translate(err)
	}

	return &service, nil
}

func GetServiceByName(name string) (*models.Service, error) {
	var service models.Service

	if err := db.DB.Where("name = ?", name).First(&service).Error; err != nil {
		return nil, translate(err)
	}

	return &service, nil
}

// ListServices returns services ordered by name. Provider narrows to one
// provider tag; activeOnly drops deactivated services. Both filters are
// backed by the composite provider+is_active index.
func ListServices(provider string, activeOnly bool) ([]models.Service, error) {
	query := db.DB.Order("name ASC")

	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service

	if err := query.Find(&services).Error; err != nil {
		return nil, translate(err)
	}

	return services, nil
}

// DeactivateService clears the active flag. The service and its history stay
// queryable; only the poller stops visiting it.
func DeactivateService(id uint) (*models.Service, error) {
	service, err := GetService(id)

	if err != nil {
		return nil, err
	}

	if err := db.DB.Model(service).Update("is_active", false).Error; err != nil {
		return nil, translate(err)
	}

	return service, nil
}

// DeleteService removes the service together with all of its status records
// and incidents in one transaction. The cascade is explicit so it holds
// regardless of whether the underlying database enforces foreign keys.
func DeleteService(id uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var service models.Service

		if err := tx.First(&service, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("service_id = ?", id).Delete(&models.StatusRecord{}).Error; err != nil {
			return err
		}

		if err := tx.Where("service_id = ?", id).Delete(&models.Incident{}).Error; err != nil {
			return err
		}

		return tx.Delete(&service).Error
	})
}
