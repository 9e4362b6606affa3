package models

import "time"

// DateLayout is the wire format for date-only values (PO dates, holidays).
const DateLayout = "2006-01-02"

// PurchaseOrder is a production order for a quantity of one product.
// PODate and DeliveryDate are YYYY-MM-DD strings.
type PurchaseOrder struct {
	ID           string      `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required,max=64"`
	ProductID    string      `gorm:"size:64;not null;index" json:"product_id" yaml:"product_id" validate:"required"`
	Customer     string      `gorm:"size:128" json:"customer,omitempty" yaml:"customer"`
	Quantity     int         `gorm:"not null" json:"quantity" yaml:"quantity" validate:"gte=1"`
	PODate       string      `gorm:"column:po_date;size:10;not null" json:"po_date" yaml:"po_date" validate:"required,datetime=2006-01-02"`
	DeliveryDate string      `gorm:"size:10;not null;index" json:"delivery_date" yaml:"delivery_date" validate:"required,datetime=2006-01-02"`
	Priority     Priority    `gorm:"size:16;default:medium;index" json:"priority" yaml:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status       OrderStatus `gorm:"size:16;default:pending;index" json:"status" yaml:"status" validate:"omitempty,oneof=pending in-progress completed delayed cancelled"`
	Notes        string      `gorm:"type:text" json:"notes,omitempty" yaml:"notes"`
	CreatedAt    time.Time   `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time   `json:"updated_at" yaml:"-"`
}
