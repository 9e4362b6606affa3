package scheduler

import (
	"testing"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

func planned(orderID string, start, end time.Time) models.ScheduleItem {
	return models.ScheduleItem{
		ID:        ItemID(orderID, "M1", 1),
		OrderID:   orderID,
		MachineID: "M1",
		Sequence:  1,
		StartDate: start,
		EndDate:   end,
		Status:    models.ScheduleScheduled,
	}
}

func TestAutoStatus(t *testing.T) {
	it := planned("PO-1", monday(9, 0), monday(15, 30))
	tests := []struct {
		name string
		now  time.Time
		want models.ScheduleStatus
	}{
		{"before start", monday(8, 0), models.ScheduleScheduled},
		{"at start", monday(9, 0), models.ScheduleInProgress},
		{"at end", monday(15, 30), models.ScheduleInProgress},
		{"after end", monday(15, 31), models.ScheduleDelayed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoStatus(it, tt.now); got != tt.want {
				t.Errorf("AutoStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAutoStatus_ActualTimes(t *testing.T) {
	it := planned("PO-1", monday(9, 0), monday(15, 30))
	late := monday(10, 0)
	it.ActualStartTime = &late
	if got := AutoStatus(it, monday(9, 30)); got != models.ScheduleScheduled {
		t.Errorf("actual start later than plan: got %q, want scheduled", got)
	}

	done := planned("PO-2", monday(9, 0), monday(15, 30))
	end := monday(11, 0)
	done.ActualStartTime = &late
	done.ActualEndTime = &end
	done.Status = models.ScheduleCompleted
	if got := AutoStatus(done, day(3, 0, 0)); got != models.ScheduleCompleted {
		t.Errorf("completed item: got %q, want completed", got)
	}

	stale := planned("PO-3", monday(9, 0), monday(15, 30))
	stale.Status = models.ScheduleCompleted
	if got := AutoStatus(stale, monday(10, 0)); got != models.ScheduleInProgress {
		t.Errorf("completed without actual end: got %q, want in-progress", got)
	}
}

func TestAutoStatus_Monotonic(t *testing.T) {
	rank := map[models.ScheduleStatus]int{
		models.ScheduleScheduled:  0,
		models.ScheduleInProgress: 1,
		models.ScheduleDelayed:    2,
	}
	it := planned("PO-1", monday(9, 0), monday(15, 30))
	prev := -1
	for now := monday(6, 0); now.Before(monday(20, 0)); now = now.Add(15 * time.Minute) {
		r := rank[AutoStatus(it, now)]
		if r < prev {
			t.Fatalf("status went backwards at %s", now.Format(time.RFC3339))
		}
		prev = r
	}
}

func TestAutoOrderStatus(t *testing.T) {
	first := planned("PO-1", monday(9, 0), monday(12, 0))
	second := planned("PO-1", monday(12, 0), monday(15, 0))
	second.ID = ItemID("PO-1", "M2", 2)
	other := planned("PO-9", monday(6, 0), monday(7, 0))

	pending := models.PurchaseOrder{ID: "PO-1", Status: models.OrderPending}
	cancelled := models.PurchaseOrder{ID: "PO-1", Status: models.OrderCancelled}

	end := monday(11, 0)
	completedFirst := first
	completedFirst.Status = models.ScheduleCompleted
	completedFirst.ActualEndTime = &end
	completedSecond := second
	completedSecond.Status = models.ScheduleCompleted
	completedSecond.ActualEndTime = &end

	tests := []struct {
		name  string
		order models.PurchaseOrder
		items []models.ScheduleItem
		now   time.Time
		want  models.OrderStatus
	}{
		{"cancelled stays cancelled", cancelled, []models.ScheduleItem{first}, monday(10, 0), models.OrderCancelled},
		{"no items keeps stored status", pending, []models.ScheduleItem{other}, monday(10, 0), models.OrderPending},
		{"nothing started", pending, []models.ScheduleItem{first, second}, monday(8, 0), models.OrderPending},
		{"one running", pending, []models.ScheduleItem{first, second}, monday(10, 0), models.OrderInProgress},
		{"delayed wins over running", pending, []models.ScheduleItem{first, second}, monday(14, 0), models.OrderDelayed},
		{"all completed", pending, []models.ScheduleItem{completedFirst, completedSecond}, monday(16, 0), models.OrderCompleted},
		{"partly completed", pending, []models.ScheduleItem{completedFirst, second}, monday(13, 0), models.OrderInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoOrderStatus(tt.order, tt.items, tt.now); got != tt.want {
				t.Errorf("AutoOrderStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
