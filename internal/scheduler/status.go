package scheduler

import (
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

// AutoStatus derives an item's live status from now versus its actual
// (falling back to planned) start and end. It is authoritative over the
// stored Status except for items completed with an actual end time.
func AutoStatus(it models.ScheduleItem, now time.Time) models.ScheduleStatus {
	if it.Status == models.ScheduleCompleted && it.ActualEndTime != nil {
		return models.ScheduleCompleted
	}
	start, end := it.StartDate, it.EndDate
	if it.ActualStartTime != nil {
		start = *it.ActualStartTime
	}
	if it.ActualEndTime != nil {
		end = *it.ActualEndTime
	}
	switch {
	case now.Before(start):
		return models.ScheduleScheduled
	case !now.After(end):
		return models.ScheduleInProgress
	default:
		return models.ScheduleDelayed
	}
}

// AutoOrderStatus rolls the derived statuses of an order's items up into an
// order status. Orders without items keep their stored status.
func AutoOrderStatus(order models.PurchaseOrder, items []models.ScheduleItem, now time.Time) models.OrderStatus {
	if order.Status == models.OrderCancelled {
		return models.OrderCancelled
	}
	var total, completed, delayed, running int
	for _, it := range items {
		if it.OrderID != order.ID {
			continue
		}
		total++
		switch AutoStatus(it, now) {
		case models.ScheduleCompleted:
			completed++
		case models.ScheduleDelayed:
			delayed++
		case models.ScheduleInProgress:
			running++
		case models.ScheduleScheduled:
		}
	}
	switch {
	case total == 0:
		return order.Status
	case completed == total:
		return models.OrderCompleted
	case delayed > 0:
		return models.OrderDelayed
	case running > 0:
		return models.OrderInProgress
	default:
		return models.OrderPending
	}
}
