package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
	"gorm.io/gorm"
)

// OrderView is an order with its status derived from the live schedule.
type OrderView struct {
	models.PurchaseOrder
	DerivedStatus models.OrderStatus `json:"derived_status"`
	Items         int                `json:"items"`
}

// CapacityReport summarizes one machine's load between two dates.
type CapacityReport struct {
	MachineID             string  `json:"machine_id"`
	From                  string  `json:"from"`
	To                    string  `json:"to"`
	DailyCapacity         float64 `json:"daily_capacity"`
	WorkingDays           int     `json:"working_days"`
	TotalMinutes          float64 `json:"total_minutes"`
	AvailableMinutes      float64 `json:"available_minutes"`
	AllocatedMinutes      float64 `json:"allocated_minutes"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
}

// CurrentSchedule returns the applied schedule with each item's status
// derived from now.
func CurrentSchedule(db *gorm.DB, loc *time.Location, now time.Time) ([]models.ScheduleItem, error) {
	items, err := plant.LoadSchedule(db, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	for i := range items {
		items[i].Status = scheduler.AutoStatus(items[i], now)
	}
	return items, nil
}

// CurrentConflicts returns the conflicts recorded by the latest applied run.
func CurrentConflicts(db *gorm.DB) ([]models.ScheduleConflict, error) {
	var conflicts []models.ScheduleConflict
	if err := db.Order("id ASC").Find(&conflicts).Error; err != nil {
		return nil, fmt.Errorf("schedule: list conflicts: %w", err)
	}
	return conflicts, nil
}

// CurrentOrders lists orders matching filters together with the status
// their schedule items imply at now.
func CurrentOrders(db *gorm.DB, filters plant.OrderFilters, loc *time.Location, now time.Time) ([]OrderView, error) {
	orders, err := plant.ListOrders(db, filters)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	items, err := plant.LoadSchedule(db, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	byOrder := make(map[string][]models.ScheduleItem)
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		own := byOrder[o.ID]
		views = append(views, OrderView{
			PurchaseOrder: o,
			DerivedStatus: scheduler.AutoOrderStatus(o, own, now),
			Items:         len(own),
		})
	}
	return views, nil
}

// CheckOrder runs a feasibility check for order against the stored plant
// state. The order need not exist; if it does, its own scheduled items are
// not counted against capacity.
func CheckOrder(db *gorm.DB, order models.PurchaseOrder, opts scheduler.FeasibilityOpts) (*scheduler.FeasibilityResult, error) {
	snap, err := plant.LoadSnapshot(db, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	res := scheduler.CheckFeasibility(snap.FeasibilityRequest(order), opts)
	return &res, nil
}

// MachineLoad reports capacity and allocation for machineID over the
// working days strictly between from and to (YYYY-MM-DD).
func MachineLoad(db *gorm.DB, machineID, from, to string, loc *time.Location) (*CapacityReport, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(models.DateLayout, from, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: invalid from date %q: %w", from, err)
	}
	end, err := time.ParseInLocation(models.DateLayout, to, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: invalid to date %q: %w", to, err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("schedule: to date %s must be after from date %s", to, from)
	}

	var m models.Machine
	if err := db.Where("id = ?", machineID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule: machine %w: %s", plant.ErrNotFound, machineID)
		}
		return nil, fmt.Errorf("schedule: get machine %s: %w", machineID, err)
	}
	snap, err := plant.LoadSnapshot(db, loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	holidays := scheduler.NewHolidaySet(snap.HolidayDates()...)
	daily := scheduler.MachineCapacity(&m, snap.Shifts)
	days := scheduler.WorkingDays(start, end, holidays)
	total := daily * float64(days)
	available := scheduler.AvailableMinutes(&m, snap.Shifts, holidays, start, end, snap.Schedule)

	rep := &CapacityReport{
		MachineID:        m.ID,
		From:             from,
		To:               to,
		DailyCapacity:    round2(daily),
		WorkingDays:      days,
		TotalMinutes:     round2(total),
		AvailableMinutes: round2(available),
		AllocatedMinutes: round2(total - available),
	}
	if total > 0 {
		rep.UtilizationPercentage = round2((total - available) / total * 100)
	}
	return rep, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// SyncOrderStatuses stores each order's derived status where the order
// lifecycle allows the move, and returns how many orders changed.
func SyncOrderStatuses(db *gorm.DB, loc *time.Location, now time.Time) (int, error) {
	views, err := CurrentOrders(db, plant.OrderFilters{}, loc, now)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, v := range views {
		if v.Items == 0 || v.DerivedStatus == v.Status {
			continue
		}
		if !plant.CanTransition(v.Status, v.DerivedStatus) {
			continue
		}
		if err := plant.UpdateOrderStatus(db, v.ID, v.DerivedStatus); err != nil {
			return changed, fmt.Errorf("schedule: sync order %s: %w", v.ID, err)
		}
		changed++
	}
	return changed, nil
}
