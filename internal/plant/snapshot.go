package plant

import (
	"fmt"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
	"gorm.io/gorm"
)

// Snapshot is an in-memory copy of everything a scheduling pass reads.
type Snapshot struct {
	Machines []models.Machine
	Products []models.Product
	Orders   []models.PurchaseOrder
	Shifts   []models.Shift
	Holidays []models.Holiday
	Schedule []models.ScheduleItem
}

// LoadSnapshot reads the full plant state. Schedule times are converted to
// loc so calendar arithmetic happens in plant-local time.
func LoadSnapshot(db *gorm.DB, loc *time.Location) (*Snapshot, error) {
	if loc == nil {
		loc = time.Local
	}
	var s Snapshot
	if err := db.Order("id ASC").Find(&s.Machines).Error; err != nil {
		return nil, fmt.Errorf("plant: load machines: %w", err)
	}
	if err := db.Preload("ProcessFlow", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sequence ASC, id ASC")
	}).Order("id ASC").Find(&s.Products).Error; err != nil {
		return nil, fmt.Errorf("plant: load products: %w", err)
	}
	if err := db.Order("id ASC").Find(&s.Orders).Error; err != nil {
		return nil, fmt.Errorf("plant: load orders: %w", err)
	}
	if err := db.Order("id ASC").Find(&s.Shifts).Error; err != nil {
		return nil, fmt.Errorf("plant: load shifts: %w", err)
	}
	if err := db.Order("date ASC").Find(&s.Holidays).Error; err != nil {
		return nil, fmt.Errorf("plant: load holidays: %w", err)
	}
	items, err := LoadSchedule(db, loc)
	if err != nil {
		return nil, err
	}
	s.Schedule = items
	return &s, nil
}

// LoadSchedule returns the applied schedule items in start order, with
// times converted to loc.
func LoadSchedule(db *gorm.DB, loc *time.Location) ([]models.ScheduleItem, error) {
	if loc == nil {
		loc = time.Local
	}
	var items []models.ScheduleItem
	if err := db.Order("start_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("plant: load schedule: %w", err)
	}
	for i := range items {
		localizeItem(&items[i], loc)
	}
	return items, nil
}

func localizeItem(it *models.ScheduleItem, loc *time.Location) {
	it.StartDate = it.StartDate.In(loc)
	it.EndDate = it.EndDate.In(loc)
	if it.ActualStartTime != nil {
		t := it.ActualStartTime.In(loc)
		it.ActualStartTime = &t
	}
	if it.ActualEndTime != nil {
		t := it.ActualEndTime.In(loc)
		it.ActualEndTime = &t
	}
}

// HolidayDates returns the holiday dates as YYYY-MM-DD strings.
func (s *Snapshot) HolidayDates() []string {
	out := make([]string, 0, len(s.Holidays))
	for _, h := range s.Holidays {
		out = append(out, h.Date)
	}
	return out
}

// Product returns the product with the given ID, or nil.
func (s *Snapshot) Product(id string) *models.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// Machine returns the machine with the given ID, or nil.
func (s *Snapshot) Machine(id string) *models.Machine {
	for i := range s.Machines {
		if s.Machines[i].ID == id {
			return &s.Machines[i]
		}
	}
	return nil
}

// Input assembles the generator input from the snapshot.
func (s *Snapshot) Input() scheduler.Input {
	return scheduler.Input{
		Orders:   s.Orders,
		Products: s.Products,
		Machines: s.Machines,
		Shifts:   s.Shifts,
		Holidays: s.HolidayDates(),
		Existing: s.Schedule,
	}
}

// FeasibilityRequest assembles a feasibility request for order against the
// snapshot's machines and current schedule. The order's own items are left
// out of the existing load so re-checking a scheduled order does not count
// it twice.
func (s *Snapshot) FeasibilityRequest(order models.PurchaseOrder) scheduler.FeasibilityRequest {
	existing := make([]models.ScheduleItem, 0, len(s.Schedule))
	for _, it := range s.Schedule {
		if it.OrderID != order.ID {
			existing = append(existing, it)
		}
	}
	return scheduler.FeasibilityRequest{
		Order:    order,
		Product:  s.Product(order.ProductID),
		Machines: s.Machines,
		Shifts:   s.Shifts,
		Holidays: s.HolidayDates(),
		Existing: existing,
	}
}
