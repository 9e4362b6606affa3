// Package scheduler is the scheduling and feasibility engine. Every function
// is a deterministic, synchronous computation over in-memory collections;
// callers own loading and persisting them. Inputs are never mutated.
package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/sirupsen/logrus"
)

// Input is everything the generator consumes.
type Input struct {
	Orders   []models.PurchaseOrder
	Products []models.Product
	Machines []models.Machine
	Shifts   []models.Shift
	Holidays []string
	// Existing is the currently applied schedule. Items that are running
	// (actual start set, no actual end) occupy their machine.
	Existing []models.ScheduleItem
}

// GenerateOpts holds parameters for a generation pass.
type GenerateOpts struct {
	Now    time.Time          // defaults to time.Now()
	Logger logrus.FieldLogger // defaults to a discarding logger
}

// Result is the generator output.
type Result struct {
	Schedule  []models.ScheduleItem `json:"schedule"`
	Conflicts []Conflict            `json:"conflicts"`
}

// ItemID is the deterministic schedule item identity.
func ItemID(orderID, machineID string, sequence int) string {
	return fmt.Sprintf("%s-%s-%d", orderID, machineID, sequence)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(models.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortOrders returns the schedulable orders (not completed or cancelled)
// ordered by priority rank descending, then delivery date ascending. Orders
// with unparseable delivery dates sort after dated ones of the same rank;
// the order ID breaks remaining ties.
func SortOrders(orders []models.PurchaseOrder) []models.PurchaseOrder {
	out := make([]models.PurchaseOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status.Schedulable() {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		da, okA := parseDate(a.DeliveryDate, time.UTC)
		db, okB := parseDate(b.DeliveryDate, time.UTC)
		switch {
		case okA && okB && !da.Equal(db):
			return da.Before(db)
		case okA != okB:
			return okA
		}
		return a.ID < b.ID
	})
	return out
}

// stepDelay is the wait imposed on the next sequence after a step ends.
func stepDelay(s models.ProcessStep) time.Duration {
	switch s.NextProcessDelay {
	case models.DelayFixed24h:
		return 24 * time.Hour
	case models.DelayFixed48h:
		return 48 * time.Hour
	case models.DelayCustomHours:
		return time.Duration(s.CustomDelayHours * float64(time.Hour))
	case models.DelayImmediate, models.DelayChainComplete, "":
		return 0
	}
	return 0
}

// placement is an interval already occupying a machine.
type placement struct {
	item    models.ScheduleItem
	orderID string
	rank    int
	running bool
}

type generator struct {
	in        Input
	now       time.Time
	log       logrus.FieldLogger
	holidays  HolidaySet
	products  map[string]*models.Product
	machines  map[string]*models.Machine
	orders    map[string]models.PurchaseOrder
	calendars map[string]calendar
	cursor    map[string]time.Time
	placed    map[string][]placement
	result    Result
}

// Generate places every schedulable order's process steps onto their
// machines and reports conflicts. Higher-priority orders are placed first;
// a placed item is never withheld because of a conflict.
func Generate(in Input, opts GenerateOpts) Result {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	g := &generator{
		in:        in,
		now:       now,
		log:       loggerOr(opts.Logger),
		holidays:  NewHolidaySet(in.Holidays...),
		products:  make(map[string]*models.Product, len(in.Products)),
		machines:  make(map[string]*models.Machine, len(in.Machines)),
		orders:    make(map[string]models.PurchaseOrder, len(in.Orders)),
		calendars: make(map[string]calendar),
		cursor:    make(map[string]time.Time),
		placed:    make(map[string][]placement),
		result:    Result{Schedule: []models.ScheduleItem{}, Conflicts: []Conflict{}},
	}
	for i := range in.Products {
		p := in.Products[i]
		g.products[p.ID] = &p
	}
	dayStart := at(now, DefaultDayStartMinutes)
	for i := range in.Machines {
		m := in.Machines[i]
		g.machines[m.ID] = &m
		if m.Status == models.MachineActive {
			g.cursor[m.ID] = dayStart
			g.calendars[m.ID] = newCalendar(&m, in.Shifts, g.holidays, g.log)
		}
	}
	for _, o := range in.Orders {
		g.orders[o.ID] = o
	}
	g.seedRunning()

	sorted := SortOrders(in.Orders)
	for _, o := range sorted {
		g.placeOrder(o)
	}
	g.sweepDeliveries(sorted)
	return g.result
}

// seedRunning registers items already being worked on as machine occupancy.
func (g *generator) seedRunning() {
	for _, it := range g.in.Existing {
		if it.ActualStartTime == nil || it.ActualEndTime != nil {
			continue
		}
		o, ok := g.orders[it.OrderID]
		if !ok || !o.Status.Schedulable() {
			continue
		}
		occ := it
		occ.StartDate = *it.ActualStartTime
		if occ.EndDate.Before(g.now) {
			occ.EndDate = g.now
		}
		g.placed[it.MachineID] = append(g.placed[it.MachineID], placement{
			item:    occ,
			orderID: o.ID,
			rank:    o.Priority.Rank(),
			running: true,
		})
	}
}

// runningGate is the latest end among running items on the machine that an
// order of this rank must wait for: those of other orders ranked the same
// or higher. Lower-ranked running work can be overridden.
func (g *generator) runningGate(machineID, orderID string, rank int) time.Time {
	var gate time.Time
	for _, p := range g.placed[machineID] {
		if !p.running || p.orderID == orderID || p.rank < rank {
			continue
		}
		if p.item.EndDate.After(gate) {
			gate = p.item.EndDate
		}
	}
	return gate
}

func latest(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	return out
}

func (g *generator) placeOrder(o models.PurchaseOrder) {
	log := g.log.WithField("order_id", o.ID)
	p, ok := g.products[o.ProductID]
	if !ok {
		log.WithField("product_id", o.ProductID).Warn("order references unknown product; skipped")
		return
	}
	rank := o.Priority.Rank()
	gate := time.Unix(0, 0).In(g.now.Location())
	ids := make(map[string]bool, len(p.ProcessFlow))

	for _, grp := range GroupBySequence(p.ProcessFlow) {
		nextGate := gate
		for _, step := range grp.Steps {
			stepLog := log.WithFields(logrus.Fields{"machine_id": step.MachineID, "sequence": step.Sequence})
			m, ok := g.machines[step.MachineID]
			if !ok {
				stepLog.Warn("process step references unknown machine; skipped")
				continue
			}
			if m.Status != models.MachineActive {
				stepLog.WithField("machine_status", m.Status).Warn("machine not active; step skipped")
				continue
			}

			id := ItemID(o.ID, m.ID, step.Sequence)
			if ids[id] {
				stepLog.Warn("duplicate machine and sequence in process flow; step skipped")
				continue
			}
			ids[id] = true

			// A running item of this same order is not a gate for it: the
			// step is replanned from the machine cursor, so its machine time
			// is counted once as occupancy and once as the fresh placement.
			total := StepMinutes(step, m, o.Quantity)
			earliest := latest(g.cursor[m.ID], gate, g.runningGate(m.ID, o.ID, rank))
			cal := g.calendars[m.ID]
			start := cal.startDate(earliest)
			end := cal.endDate(start, total)
			g.cursor[m.ID] = end

			item := models.ScheduleItem{
				ID:            id,
				OrderID:       o.ID,
				ProductID:     p.ID,
				MachineID:     m.ID,
				ProcessStepID: step.ID,
				Sequence:      step.Sequence,
				Quantity:      o.Quantity,
				StartDate:     start,
				EndDate:       end,
				AllocatedTime: total,
				Status:        models.ScheduleScheduled,
				Priority:      o.Priority,
				Efficiency:    m.Efficiency,
			}
			if step.IsOutsourced {
				item.Notes = "Outsourced operation"
			}

			g.detectConflicts(o, item, rank)
			g.placed[m.ID] = append(g.placed[m.ID], placement{item: item, orderID: o.ID, rank: rank})
			g.result.Schedule = append(g.result.Schedule, item)

			if ready := end.Add(stepDelay(step)); ready.After(nextGate) {
				nextGate = ready
			}
		}
		gate = nextGate
	}
}

func (g *generator) detectConflicts(o models.PurchaseOrder, item models.ScheduleItem, rank int) {
	newIv := ItemInterval(item)
	for _, p := range g.placed[item.MachineID] {
		if p.orderID == o.ID {
			continue
		}
		if !IsConflict(newIv, rank, ItemInterval(p.item), p.rank) {
			continue
		}
		lower := g.orders[p.orderID]
		g.result.Conflicts = append(g.result.Conflicts, Conflict{
			Kind:            models.ConflictMachineOverlap,
			MachineID:       item.MachineID,
			ConflictingPO:   lower,
			NewPO:           o,
			ConflictingItem: p.item,
			NewItem:         item,
			UserMessage: fmt.Sprintf(
				"%s priority order %s needs machine %s from %s to %s, overlapping %s priority order %s (%s to %s)",
				o.Priority, o.ID, item.MachineID,
				item.StartDate.Format(time.RFC3339), item.EndDate.Format(time.RFC3339),
				lower.Priority, lower.ID,
				p.item.StartDate.Format(time.RFC3339), p.item.EndDate.Format(time.RFC3339)),
			SuggestedEndDate: item.EndDate.Add(p.item.EndDate.Sub(p.item.StartDate)),
		})
	}
}

// unitsReadyBy estimates how many units an item has finished by deadline,
// assuming output accrues evenly over its planned span.
func unitsReadyBy(it models.ScheduleItem, deadline time.Time) int {
	switch {
	case !it.EndDate.After(deadline):
		return it.Quantity
	case !it.StartDate.Before(deadline):
		return 0
	}
	frac := float64(deadline.Sub(it.StartDate)) / float64(it.EndDate.Sub(it.StartDate))
	return int(math.Floor(float64(it.Quantity) * frac))
}

// sweepDeliveries emits a delivery-risk conflict for every order whose
// placed work cannot complete by its requested delivery date.
func (g *generator) sweepDeliveries(orders []models.PurchaseOrder) {
	byOrder := make(map[string][]models.ScheduleItem)
	for _, it := range g.result.Schedule {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for _, o := range orders {
		items := byOrder[o.ID]
		if len(items) == 0 {
			continue
		}
		due, ok := parseDate(o.DeliveryDate, g.now.Location())
		if !ok {
			g.log.WithField("order_id", o.ID).Warn("invalid delivery date; delivery check skipped")
			continue
		}
		deadline := addDays(due, 1)

		last := items[0]
		finalSeq := items[0].Sequence
		for _, it := range items[1:] {
			if it.EndDate.After(last.EndDate) {
				last = it
			}
			if it.Sequence > finalSeq {
				finalSeq = it.Sequence
			}
		}
		ready := o.Quantity
		for _, it := range items {
			if it.Sequence != finalSeq {
				continue
			}
			if n := unitsReadyBy(it, deadline); n < ready {
				ready = n
			}
		}
		if ready >= o.Quantity && !last.EndDate.After(deadline) {
			continue
		}

		var msg string
		if ready > 0 {
			msg = fmt.Sprintf("%d out of %d units will be ready by the requested delivery date %s; order %s completes %s",
				ready, o.Quantity, o.DeliveryDate, o.ID, last.EndDate.Format(time.RFC3339))
		} else {
			msg = fmt.Sprintf("Order %s is scheduled to complete after the requested delivery date %s (expected %s)",
				o.ID, o.DeliveryDate, last.EndDate.Format(time.RFC3339))
		}
		g.result.Conflicts = append(g.result.Conflicts, Conflict{
			Kind:             models.ConflictDeliveryRisk,
			MachineID:        last.MachineID,
			ConflictingPO:    o,
			NewPO:            o,
			ConflictingItem:  last,
			NewItem:          last,
			UserMessage:      msg,
			SuggestedEndDate: last.EndDate,
		})
	}
}
