// Package plant manages the shop-floor master data the scheduler reads:
// machines, products, shifts, holidays and purchase orders.
package plant

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every lookup that finds no matching record.
var ErrNotFound = errors.New("not found")

// CreateOrderOpts holds parameters for creating a purchase order.
type CreateOrderOpts struct {
	ID           string // generated when empty
	ProductID    string
	Customer     string
	Quantity     int
	PODate       string // YYYY-MM-DD, defaults to today
	DeliveryDate string
	Priority     models.Priority // defaults to medium
	Notes        string
	Now          time.Time
}

// OrderFilters holds optional filters for listing orders.
type OrderFilters struct {
	Status    models.OrderStatus
	Priority  models.Priority
	ProductID string
}

// StatusCount holds an order status and how many orders have it.
type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// ValidTransitions maps each order status to the statuses it may move to.
// Completed and cancelled orders are final.
var ValidTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderInProgress, models.OrderDelayed, models.OrderCompleted, models.OrderCancelled},
	models.OrderInProgress: {models.OrderDelayed, models.OrderCompleted, models.OrderCancelled},
	models.OrderDelayed:    {models.OrderInProgress, models.OrderCompleted, models.OrderCancelled},
}

// GenerateOrderID creates an order ID in PO-xxxxxx format (6-char hex).
func GenerateOrderID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("plant: generate order ID: %w", err)
	}
	return "PO-" + strings.ToUpper(hex.EncodeToString(b)), nil
}

// CreateOrder validates and stores a new pending order. The product must
// exist and the delivery date must fall after the PO date.
func CreateOrder(db *gorm.DB, opts CreateOrderOpts) (*models.PurchaseOrder, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.PODate == "" {
		opts.PODate = now.Format(models.DateLayout)
	}
	if opts.Priority == "" {
		opts.Priority = models.PriorityMedium
	}
	if opts.ID == "" {
		id, err := generateUniqueOrderID(db)
		if err != nil {
			return nil, err
		}
		opts.ID = id
	}

	order := models.PurchaseOrder{
		ID:           opts.ID,
		ProductID:    opts.ProductID,
		Customer:     opts.Customer,
		Quantity:     opts.Quantity,
		PODate:       opts.PODate,
		DeliveryDate: opts.DeliveryDate,
		Priority:     opts.Priority,
		Status:       models.OrderPending,
		Notes:        opts.Notes,
	}
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", order.ProductID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("plant: check product %s: %w", order.ProductID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("plant: product %w: %s", ErrNotFound, order.ProductID)
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("plant: create order %s: %w", order.ID, err)
	}
	return &order, nil
}

// checkOrder runs struct validation plus the date ordering rule.
func checkOrder(o models.PurchaseOrder) error {
	var errs []string
	if err := Validator().Struct(o); err != nil {
		errs = append(errs, describe(err)...)
	}
	po, errPO := time.Parse(models.DateLayout, o.PODate)
	due, errDue := time.Parse(models.DateLayout, o.DeliveryDate)
	if errPO == nil && errDue == nil && !due.After(po) {
		errs = append(errs, "delivery_date must be after po_date")
	}
	if len(errs) > 0 {
		return fmt.Errorf("plant: invalid order %s: %s", o.ID, strings.Join(errs, "; "))
	}
	return nil
}

// GetOrder retrieves an order by ID.
func GetOrder(db *gorm.DB, id string) (*models.PurchaseOrder, error) {
	var o models.PurchaseOrder
	if err := db.Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plant: order %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("plant: get order %s: %w", id, err)
	}
	return &o, nil
}

// ListOrders returns orders matching the filters, most urgent delivery first.
func ListOrders(db *gorm.DB, filters OrderFilters) ([]models.PurchaseOrder, error) {
	q := db.Model(&models.PurchaseOrder{})
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.ProductID != "" {
		q = q.Where("product_id = ?", filters.ProductID)
	}

	var orders []models.PurchaseOrder
	if err := q.Order("delivery_date ASC, id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("plant: list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing ValidTransitions.
func UpdateOrderStatus(db *gorm.DB, id string, status models.OrderStatus) error {
	o, err := GetOrder(db, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, status) {
		return fmt.Errorf("plant: invalid status transition from %q to %q; valid transitions: %v",
			o.Status, status, ValidTransitions[o.Status])
	}
	if err := db.Model(&models.PurchaseOrder{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("plant: update order %s: %w", id, err)
	}
	return nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// OrderSummary returns order counts per status.
func OrderSummary(db *gorm.DB) ([]StatusCount, error) {
	var results []StatusCount
	if err := db.Model(&models.PurchaseOrder{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("plant: order summary: %w", err)
	}
	return results, nil
}

// generateUniqueOrderID generates an ID and retries once on collision.
func generateUniqueOrderID(db *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateOrderID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.PurchaseOrder{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("plant: check order ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("plant: order ID collision after retry")
}
