package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a manufacturable item with an ordered process flow.
type Product struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required,max=64"`
	Name          string          `gorm:"size:128;not null" json:"name" yaml:"name" validate:"required"`
	Priority      Priority        `gorm:"size:16;default:medium" json:"priority" yaml:"priority" validate:"omitempty,oneof=low medium high urgent"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(12,2)" json:"estimated_cost" yaml:"estimated_cost"`
	CreatedAt     time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"-"`

	ProcessFlow []ProcessStep `gorm:"foreignKey:ProductID" json:"process_flow" yaml:"process_flow" validate:"required,dive"`
}

// ProcessStep is one machine operation in a product's flow. Steps that share
// a Sequence run in parallel.
type ProcessStep struct {
	ID               uint             `gorm:"primaryKey;autoIncrement" json:"id" yaml:"-"`
	ProductID        string           `gorm:"size:64;not null;index" json:"product_id" yaml:"-"`
	Name             string           `gorm:"size:128" json:"name,omitempty" yaml:"name"`
	MachineID        string           `gorm:"size:64;not null" json:"machine_id" yaml:"machine_id" validate:"required"`
	Sequence         int              `gorm:"not null" json:"sequence" yaml:"sequence" validate:"gte=1"`
	CycleTimePerPart float64          `json:"cycle_time_per_part" yaml:"cycle_time_per_part" validate:"gte=0"`
	SetupTime        float64          `json:"setup_time" yaml:"setup_time" validate:"gte=0"`
	IsOutsourced     bool             `json:"is_outsourced" yaml:"is_outsourced"`
	NextProcessDelay ProcessDelayKind `gorm:"size:16" json:"next_process_delay,omitempty" yaml:"next_process_delay" validate:"omitempty,oneof=immediate 24h 48h chain-complete custom"`
	CustomDelayHours float64          `json:"custom_delay_hours,omitempty" yaml:"custom_delay_hours" validate:"gte=0"`
}
