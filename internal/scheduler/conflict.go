package scheduler

import (
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

// Interval is a half-open [Start, End) span of time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ItemInterval returns the planned span of a schedule item.
func ItemInterval(it models.ScheduleItem) Interval {
	return Interval{Start: it.StartDate, End: it.EndDate}
}

// Overlaps reports whether two half-open intervals share any instant.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// IsConflict reports whether placing newIv for an order of rank newRank
// collides with an already placed interval owned by a strictly
// lower-ranked order.
func IsConflict(newIv Interval, newRank int, placed Interval, placedRank int) bool {
	return placedRank < newRank && newIv.Overlaps(placed)
}

// Conflict is an advisory collision or delivery risk. It never blocks
// placement; it is surfaced for manual resolution.
type Conflict struct {
	Kind             models.ConflictKind  `json:"kind"`
	MachineID        string               `json:"machine_id"`
	ConflictingPO    models.PurchaseOrder `json:"conflicting_po"`
	NewPO            models.PurchaseOrder `json:"new_po"`
	ConflictingItem  models.ScheduleItem  `json:"conflicting_item"`
	NewItem          models.ScheduleItem  `json:"new_item"`
	UserMessage      string               `json:"user_message"`
	SuggestedEndDate time.Time            `json:"suggested_end_date"`
}

// Record converts the conflict into its persisted form.
func (c Conflict) Record(runID string) models.ScheduleConflict {
	rec := models.ScheduleConflict{
		RunID:             runID,
		Kind:              c.Kind,
		MachineID:         c.MachineID,
		ConflictingPOID:   c.ConflictingPO.ID,
		NewPOID:           c.NewPO.ID,
		ConflictingItemID: c.ConflictingItem.ID,
		NewItemID:         c.NewItem.ID,
		UserMessage:       c.UserMessage,
	}
	if !c.SuggestedEndDate.IsZero() {
		s := c.SuggestedEndDate
		rec.SuggestedEndDate = &s
	}
	return rec
}
