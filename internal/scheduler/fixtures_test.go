package scheduler

import (
	"testing"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// monday is 2026-10-19, a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, time.October, 19, hour, min, 0, 0, time.UTC)
}

// day returns 2026-10-19 shifted by offset days at hour:min.
func day(offset, hour, min int) time.Time {
	return time.Date(2026, time.October, 19+offset, hour, min, 0, 0, time.UTC)
}

func dayShift() models.Shift {
	return models.Shift{
		ID:          "day",
		Name:        "Day",
		Timing:      models.ShiftWindow{StartTime: "09:00", EndTime: "17:00"},
		WorkingDays: weekdays,
		IsActive:    true,
	}
}

func nightShift() models.Shift {
	return models.Shift{
		ID:          "night",
		Name:        "Night",
		Timing:      models.ShiftWindow{StartTime: "22:00", EndTime: "06:00"},
		WorkingDays: weekdays,
		IsActive:    true,
	}
}

func machine(id string) models.Machine {
	return models.Machine{ID: id, Name: "Machine " + id, Status: models.MachineActive, Efficiency: 100}
}

func singleStepProduct(id, machineID string, cycle, setup float64) models.Product {
	return models.Product{
		ID:   id,
		Name: "Product " + id,
		ProcessFlow: []models.ProcessStep{
			{ID: 1, ProductID: id, MachineID: machineID, Sequence: 1, CycleTimePerPart: cycle, SetupTime: setup},
		},
	}
}

func order(id, productID string, qty int, prio models.Priority, due string) models.PurchaseOrder {
	return models.PurchaseOrder{
		ID:           id,
		ProductID:    productID,
		Quantity:     qty,
		PODate:       "2026-10-16",
		DeliveryDate: due,
		Priority:     prio,
		Status:       models.OrderPending,
	}
}

func assertTime(t *testing.T, name string, got, want time.Time) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}
