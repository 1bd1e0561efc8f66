package store

import (
	"errors"
	"time"

	"github.com/status-beacon/beacon/db"
	"github.com/status-beacon/beacon/internal/models"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// CreateStatusRecord appends one observation. The owning service is checked
// inside the same transaction so a record can never be written against a
// service that a concurrent delete is removing.
func CreateStatusRecord(record *models.StatusRecord) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Service{}).Where("id = ?", record.ServiceID).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return ErrConstraintViolation
		}

		return translate(tx.Create(record).Error)
	})
}

// CurrentStatus returns the most recent status record for a service, ties on
// checked_at broken by the highest id so the result is deterministic.
// Returns (nil, nil) when the service exists but has no records yet.
func CurrentStatus(serviceID uint) (*models.StatusRecord, error) {
	if _, err := GetService(serviceID); err != nil {
		return nil, err
	}

	var record models.StatusRecord

	err := db.DB.Where("service_id = ?", serviceID).
		Order("checked_at DESC, id DESC").
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &record, nil
}

// HistoryPage is one page of status history, newest first. NextCursor is
// empty when the page is the last one.
type HistoryPage struct {
	Records    []models.StatusRecord
	NextCursor string
}

// StatusHistory returns status records for a service within [from, to],
// newest first (checked_at DESC, id DESC). Paging is cursor-based: a record
// is on the next page when its checked_at is strictly older than the
// cursor's, or equal with a lower id, so concurrent appends never cause
// duplicates or omissions in an in-progress walk.
func StatusHistory(serviceID uint, from, to time.Time, limit int, cursor string) (*HistoryPage, error) {
	if _, err := GetService(serviceID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	query := db.DB.Where("service_id = ?", serviceID)

	if !from.IsZero() {
		query = query.Where("checked_at >= ?", from)
	}

	if !to.IsZero() {
		query = query.Where("checked_at <= ?", to)
	}

	if cursor != "" {
		checkedAt, id, err := decodeCursor(cursor)

		if err != nil {
			return nil, err
		}

		query = query.Where("checked_at < ? OR (checked_at = ? AND id < ?)", checkedAt, checkedAt, id)
	}

	var records []models.StatusRecord

	if err := query.Order("checked_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}

	page := &HistoryPage{Records: records}

	if len(records) == limit {
		last := records[len(records)-1]
		page.NextCursor = encodeCursor(last.CheckedAt, last.ID)
	}

	return page, nil
}
