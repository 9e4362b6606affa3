package plant

import (
	"errors"
	"fmt"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"gorm.io/gorm"
)

// ProgressOpts carries the actual times reported from the shop floor.
type ProgressOpts struct {
	Start *time.Time
	End   *time.Time
}

// RecordProgress stores actual start and/or end times on a schedule item.
// A start marks the item in-progress and an end marks it completed; both
// survive regeneration. When every item of the order is completed the order
// is completed too.
func RecordProgress(db *gorm.DB, itemID string, opts ProgressOpts) (*models.ScheduleItem, error) {
	if opts.Start == nil && opts.End == nil {
		return nil, fmt.Errorf("plant: progress for %s needs a start or end time", itemID)
	}

	var item models.ScheduleItem
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("plant: schedule item %w: %s", ErrNotFound, itemID)
			}
			return fmt.Errorf("plant: get schedule item %s: %w", itemID, err)
		}

		if opts.Start != nil {
			start := *opts.Start
			item.ActualStartTime = &start
		}
		if opts.End != nil {
			if item.ActualStartTime == nil {
				return fmt.Errorf("plant: item %s has no actual start time", itemID)
			}
			if opts.End.Before(*item.ActualStartTime) {
				return fmt.Errorf("plant: item %s end %s is before start %s", itemID,
					opts.End.Format(time.RFC3339), item.ActualStartTime.Format(time.RFC3339))
			}
			end := *opts.End
			item.ActualEndTime = &end
		}
		item.Status = models.ScheduleInProgress
		if item.ActualEndTime != nil {
			item.Status = models.ScheduleCompleted
		}

		if err := tx.Model(&models.ScheduleItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
			"actual_start_time": item.ActualStartTime,
			"actual_end_time":   item.ActualEndTime,
			"status":            item.Status,
		}).Error; err != nil {
			return fmt.Errorf("plant: record progress on %s: %w", itemID, err)
		}

		if item.Status != models.ScheduleCompleted {
			return nil
		}
		var open int64
		if err := tx.Model(&models.ScheduleItem{}).
			Where("order_id = ? AND status <> ?", item.OrderID, models.ScheduleCompleted).
			Count(&open).Error; err != nil {
			return fmt.Errorf("plant: check order %s completion: %w", item.OrderID, err)
		}
		if open > 0 {
			return nil
		}
		if err := tx.Model(&models.PurchaseOrder{}).
			Where("id = ? AND status NOT IN ?", item.OrderID, []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
			Update("status", models.OrderCompleted).Error; err != nil {
			return fmt.Errorf("plant: complete order %s: %w", item.OrderID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
