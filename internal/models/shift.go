package models

import "time"

// ShiftWindow is the daily time window of a shift. EndTime may be earlier
// than StartTime, meaning the shift runs past midnight.
type ShiftWindow struct {
	StartTime           string  `gorm:"size:5;not null" json:"start_time" yaml:"start_time" validate:"required,clock"`
	EndTime             string  `gorm:"size:5;not null" json:"end_time" yaml:"end_time" validate:"required,clock"`
	AllowFlexibleTiming bool    `json:"allow_flexible_timing" yaml:"allow_flexible_timing"`
	OvertimeAllowed     bool    `json:"overtime_allowed" yaml:"overtime_allowed"`
	MaxOvertimeHours    float64 `json:"max_overtime_hours" yaml:"max_overtime_hours"`
}

// BreakTime is a break inside a shift. Only unpaid breaks reduce capacity.
type BreakTime struct {
	Start    string  `json:"start" yaml:"start" validate:"required,clock"`
	End      string  `json:"end" yaml:"end" validate:"omitempty,clock"`
	Duration float64 `json:"duration" yaml:"duration" validate:"gte=0"`
	IsPaid   bool    `json:"is_paid" yaml:"is_paid"`
}

// Shift is a recurring working window. Inactive shifts are ignored by the scheduler.
type Shift struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required,max=64"`
	Name        string      `gorm:"size:128" json:"name" yaml:"name"`
	Timing      ShiftWindow `gorm:"embedded" json:"timing" yaml:"timing"`
	BreakTimes  []BreakTime `gorm:"serializer:json" json:"break_times" yaml:"break_times" validate:"dive"`
	WorkingDays []string    `gorm:"serializer:json" json:"working_days" yaml:"working_days" validate:"dive,weekday"`
	IsActive    bool        `json:"is_active" yaml:"is_active"`
	CreatedAt   time.Time   `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time   `json:"updated_at" yaml:"-"`
}

// Holiday is a fully non-working calendar date (YYYY-MM-DD).
type Holiday struct {
	Date string `gorm:"primaryKey;size:10" json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Name string `gorm:"size:128" json:"name,omitempty" yaml:"name"`
}
