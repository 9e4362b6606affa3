package models

import "time"

// Machine is a production resource that process steps are bound to.
type Machine struct {
	ID         string        `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required,max=64"`
	Name       string        `gorm:"size:128;not null" json:"name" yaml:"name" validate:"required"`
	Type       string        `gorm:"size:64" json:"type,omitempty" yaml:"type"`
	Status     MachineStatus `gorm:"size:16;default:active;index" json:"status" yaml:"status" validate:"omitempty,oneof=active idle maintenance inactive breakdown"`
	Efficiency float64       `gorm:"default:100" json:"efficiency" yaml:"efficiency" validate:"gte=0"`
	// ShiftTiming is the legacy "HH:MM-HH:MM" window used when no shift
	// calendar entry is active.
	ShiftTiming  string    `gorm:"size:16" json:"shift_timing,omitempty" yaml:"shift_timing" validate:"omitempty,shifttiming"`
	WorkingHours *float64  `json:"working_hours,omitempty" yaml:"working_hours"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}
