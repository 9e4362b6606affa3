package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxSearchDays caps the forward search for a feasible date.
	DefaultMaxSearchDays = 365
	// DefaultHighUtilizationPercent is the utilization above which a
	// feasible result carries advisory alternatives.
	DefaultHighUtilizationPercent = 80.0
)

// FeasibilityRequest describes one existing or hypothetical order to check.
type FeasibilityRequest struct {
	Order    models.PurchaseOrder
	Product  *models.Product
	Machines []models.Machine
	Shifts   []models.Shift
	Holidays []string
	Existing []models.ScheduleItem
}

// FeasibilityOpts tunes the check.
type FeasibilityOpts struct {
	MaxSearchDays          int
	HighUtilizationPercent float64
	Location               *time.Location // defaults to time.Local
	Logger                 logrus.FieldLogger
}

// FeasibilityResult reports whether the requested delivery date holds. A
// failed check is a result, never an error.
type FeasibilityResult struct {
	Feasible              bool     `json:"feasible"`
	SuggestedDate         string   `json:"suggested_date,omitempty"`
	Message               string   `json:"message"`
	Confidence            float64  `json:"confidence"`
	Alternatives          []string `json:"alternatives"`
	ProductionMinutes     float64  `json:"production_minutes"`
	AvailableMinutes      float64  `json:"available_minutes"`
	UtilizationPercentage float64  `json:"utilization_percentage"`
	WorkingDays           int      `json:"working_days"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// capacityChecker computes free minutes across an order's machines.
type capacityChecker struct {
	machines []*models.Machine
	shifts   []models.Shift
	holidays HolidaySet
	existing []models.ScheduleItem
}

// newCapacityChecker collects the distinct active or idle machines bound to
// the product's steps.
func newCapacityChecker(req FeasibilityRequest, holidays HolidaySet) capacityChecker {
	idx := machineIndex(req.Machines)
	seen := make(map[string]bool)
	cc := capacityChecker{shifts: req.Shifts, holidays: holidays, existing: req.Existing}
	for _, s := range req.Product.ProcessFlow {
		m, ok := idx[s.MachineID]
		if !ok || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		switch m.Status {
		case models.MachineActive, models.MachineIdle:
			cc.machines = append(cc.machines, m)
		case models.MachineMaintenance, models.MachineInactive, models.MachineBreakdown:
		}
	}
	return cc
}

func (cc capacityChecker) available(from, to time.Time) float64 {
	total := 0.0
	for _, m := range cc.machines {
		total += AvailableMinutes(m, cc.shifts, cc.holidays, from, to, cc.existing)
	}
	return total
}

func infeasible(msg string) FeasibilityResult {
	return FeasibilityResult{Feasible: false, Message: msg, Confidence: 0, Alternatives: []string{}}
}

// CheckFeasibility decides whether the order's delivery date is achievable
// given free machine capacity between the PO date and the delivery date
// (both exclusive). When it is not, dates after the requested one are tried
// day by day, up to MaxSearchDays, for the earliest that would be.
func CheckFeasibility(req FeasibilityRequest, opts FeasibilityOpts) FeasibilityResult {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	maxDays := opts.MaxSearchDays
	if maxDays <= 0 {
		maxDays = DefaultMaxSearchDays
	}
	highUtil := opts.HighUtilizationPercent
	if highUtil <= 0 {
		highUtil = DefaultHighUtilizationPercent
	}
	log := loggerOr(opts.Logger).WithField("order_id", req.Order.ID)

	poDate, okPO := parseDate(req.Order.PODate, loc)
	due, okDue := parseDate(req.Order.DeliveryDate, loc)
	if !okPO || !okDue {
		return infeasible("Invalid PO date or delivery date; expected YYYY-MM-DD")
	}
	if !due.After(poDate) {
		return infeasible("Delivery date must be after the PO date")
	}
	if req.Product == nil {
		return infeasible(fmt.Sprintf("Product %q not found", req.Order.ProductID))
	}
	if req.Order.Quantity <= 0 {
		return infeasible("Quantity must be a positive number")
	}

	holidays := NewHolidaySet(req.Holidays...)
	production := FlatProductionMinutes(req.Product, req.Machines, req.Order.Quantity)
	cc := newCapacityChecker(req, holidays)
	days := WorkingDays(poDate, due, holidays)
	available := cc.available(poDate, due)

	res := FeasibilityResult{
		ProductionMinutes: round2(production),
		AvailableMinutes:  round2(available),
		WorkingDays:       days,
		Alternatives:      []string{},
	}
	if len(cc.machines) == 0 {
		res.Message = "No active machines are available for this product's process flow"
		return res
	}

	switch {
	case days == 0:
		res.Message = "No working days between the PO date and the delivery date"
	case available <= 0:
		res.Message = "No available machine time before the delivery date"
	default:
		util := production / available * 100
		res.UtilizationPercentage = round2(util)
		res.Confidence = round2(math.Max(0, 100-util))
		if production <= available {
			res.Feasible = true
			res.Message = fmt.Sprintf("Delivery is feasible with %.0f%% confidence (%.1f%% machine utilization)",
				res.Confidence, res.UtilizationPercentage)
			if util > highUtil {
				res.Alternatives = append(res.Alternatives,
					"Schedule overtime on the bound machines to build slack",
					"Monitor this order closely; little capacity remains before the delivery date")
			}
			return res
		}
		res.Message = fmt.Sprintf("Requires %.0f minutes but only %.0f are available (%.1f%% utilization)",
			production, available, res.UtilizationPercentage)
	}

	for k := 1; k <= maxDays; k++ {
		test := addDays(due, k)
		if production <= cc.available(poDate, test) && WorkingDays(poDate, test, holidays) > 0 {
			res.SuggestedDate = test.Format(models.DateLayout)
			break
		}
	}
	if res.SuggestedDate == "" {
		log.WithField("max_search_days", maxDays).Info("no feasible delivery date found")
		res.Message += fmt.Sprintf("; unable to calculate a feasible date within %d days", maxDays)
		res.Alternatives = append(res.Alternatives,
			"Activate additional machines or shifts for this product's process flow")
		return res
	}
	res.Message += fmt.Sprintf("; earliest feasible delivery date is %s", res.SuggestedDate)
	res.Alternatives = append(res.Alternatives,
		fmt.Sprintf("Request delivery on or after %s", res.SuggestedDate),
		"Split the order into smaller batches with staggered delivery dates",
		"Add overtime or an additional shift on the bound machines")
	return res
}
