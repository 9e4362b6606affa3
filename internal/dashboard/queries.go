package dashboard

import (
	"fmt"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/plant"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
	"gorm.io/gorm"
)

// MachineStatusCount holds how many machines are in a status.
type MachineStatusCount struct {
	Status models.MachineStatus `json:"status"`
	Count  int                  `json:"count"`
}

// ConflictKindCount holds how many recorded conflicts are of a kind.
type ConflictKindCount struct {
	Kind  models.ConflictKind `json:"kind"`
	Count int                 `json:"count"`
}

// Overview is the plant-at-a-glance summary.
type Overview struct {
	Orders        []plant.StatusCount  `json:"orders"`
	Machines      []MachineStatusCount `json:"machines"`
	Conflicts     []ConflictKindCount  `json:"conflicts"`
	ScheduleItems int64                `json:"schedule_items"`
	LatestRun     *models.ScheduleRun  `json:"latest_run"`
}

// GetOverview gathers per-status counts of orders and machines, conflicts by
// kind, and the latest applied run.
func GetOverview(db *gorm.DB) (*Overview, error) {
	ov := &Overview{}

	orders, err := plant.OrderSummary(db)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	ov.Orders = orders

	if err := db.Model(&models.Machine{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Find(&ov.Machines).Error; err != nil {
		return nil, fmt.Errorf("dashboard: machine summary: %w", err)
	}

	if err := db.Model(&models.ScheduleConflict{}).
		Select("kind, COUNT(*) as count").
		Group("kind").
		Order("kind ASC").
		Find(&ov.Conflicts).Error; err != nil {
		return nil, fmt.Errorf("dashboard: conflict summary: %w", err)
	}

	if err := db.Model(&models.ScheduleItem{}).Count(&ov.ScheduleItems).Error; err != nil {
		return nil, fmt.Errorf("dashboard: count schedule items: %w", err)
	}

	run, err := schedule.LatestRun(db)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	ov.LatestRun = run
	return ov, nil
}
