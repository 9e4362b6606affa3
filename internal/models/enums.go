package models

// MachineStatus is the operational state of a machine.
type MachineStatus string

const (
	MachineActive      MachineStatus = "active"
	MachineIdle        MachineStatus = "idle"
	MachineMaintenance MachineStatus = "maintenance"
	MachineInactive    MachineStatus = "inactive"
	MachineBreakdown   MachineStatus = "breakdown"
)

// Valid reports whether s is a known machine status.
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineActive, MachineIdle, MachineMaintenance, MachineInactive, MachineBreakdown:
		return true
	}
	return false
}

// Priority orders production work. Orders and products both carry one.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank maps a priority onto urgent=4 > high=3 > medium=2 > low=1.
// Unknown values rank 0, below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in-progress"
	OrderCompleted  OrderStatus = "completed"
	OrderDelayed    OrderStatus = "delayed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderDelayed, OrderCancelled:
		return true
	}
	return false
}

// Schedulable reports whether orders in this state still need machine time.
func (s OrderStatus) Schedulable() bool {
	switch s {
	case OrderCompleted, OrderCancelled:
		return false
	case OrderPending, OrderInProgress, OrderDelayed:
		return true
	}
	return true
}

// ScheduleStatus is the state of a single schedule item.
type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleInProgress ScheduleStatus = "in-progress"
	ScheduleDelayed    ScheduleStatus = "delayed"
	ScheduleCompleted  ScheduleStatus = "completed"
)

// Valid reports whether s is a known schedule status.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleScheduled, ScheduleInProgress, ScheduleDelayed, ScheduleCompleted:
		return true
	}
	return false
}

// ProcessDelayKind governs when the next sequence may start after a step completes.
type ProcessDelayKind string

const (
	DelayImmediate     ProcessDelayKind = "immediate"
	DelayFixed24h      ProcessDelayKind = "24h"
	DelayFixed48h      ProcessDelayKind = "48h"
	DelayChainComplete ProcessDelayKind = "chain-complete"
	DelayCustomHours   ProcessDelayKind = "custom"
)

// Valid reports whether k is a known delay kind. Empty means immediate.
func (k ProcessDelayKind) Valid() bool {
	switch k {
	case "", DelayImmediate, DelayFixed24h, DelayFixed48h, DelayChainComplete, DelayCustomHours:
		return true
	}
	return false
}

// ConflictKind distinguishes machine collisions from delivery-date risks.
type ConflictKind string

const (
	ConflictMachineOverlap ConflictKind = "machine-overlap"
	ConflictDeliveryRisk   ConflictKind = "delivery-risk"
)
