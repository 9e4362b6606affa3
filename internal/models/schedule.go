package models

import "time"

// ScheduleItem is one (order, process step) placement on a machine. The ID is
// "{orderId}-{machineId}-{sequence}" so regenerations can be matched to
// prior state. Setting the actual times freezes the item's progress.
type ScheduleItem struct {
	ID              string         `gorm:"primaryKey;size:192" json:"id"`
	RunID           string         `gorm:"size:36;index" json:"run_id,omitempty"`
	OrderID         string         `gorm:"size:64;not null;index" json:"order_id"`
	ProductID       string         `gorm:"size:64" json:"product_id"`
	MachineID       string         `gorm:"size:64;not null;index" json:"machine_id"`
	ProcessStepID   uint           `json:"process_step_id"`
	Sequence        int            `json:"sequence"`
	Quantity        int            `json:"quantity"`
	StartDate       time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	AllocatedTime   float64        `json:"allocated_time"`
	Status          ScheduleStatus `gorm:"size:16;default:scheduled;index" json:"status"`
	Priority        Priority       `gorm:"size:16" json:"priority"`
	Efficiency      float64        `json:"efficiency"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	ActualStartTime *time.Time     `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time     `json:"actual_end_time,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ScheduleConflict is the persisted form of an advisory conflict.
type ScheduleConflict struct {
	ID                uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID             string       `gorm:"size:36;index" json:"run_id"`
	Kind              ConflictKind `gorm:"size:24;not null;index" json:"kind"`
	MachineID         string       `gorm:"size:64;index" json:"machine_id"`
	ConflictingPOID   string       `gorm:"column:conflicting_po_id;size:64" json:"conflicting_po_id"`
	NewPOID           string       `gorm:"column:new_po_id;size:64" json:"new_po_id"`
	ConflictingItemID string       `gorm:"size:192" json:"conflicting_item_id"`
	NewItemID         string       `gorm:"size:192" json:"new_item_id"`
	UserMessage       string       `gorm:"type:text" json:"user_message"`
	SuggestedEndDate  *time.Time   `json:"suggested_end_date,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}

// ScheduleRun records one applied generation. Version is strictly
// increasing and is the compare-and-swap token guarding writes.
type ScheduleRun struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Version     int64     `gorm:"uniqueIndex;not null" json:"version"`
	Items       int       `json:"items"`
	Conflicts   int       `json:"conflicts"`
	Trigger     string    `gorm:"size:16" json:"trigger"` // cli, api, cron
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}
