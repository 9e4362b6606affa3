package scheduler

import (
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

// MachineCapacity returns the machine's available production minutes per
// day: net minutes of every active shift scaled by efficiency, or the legacy
// shiftTiming window when no shift is active.
func MachineCapacity(m *models.Machine, shifts []models.Shift) float64 {
	eff := machineEfficiency(m) / 100
	active := ActiveShifts(shifts)
	if len(active) > 0 {
		total := 0.0
		for _, s := range active {
			total += NetShiftMinutes(s) * eff
		}
		return total
	}
	legacy := LegacyShift(m)
	return NetShiftMinutes(legacy) * eff
}

// WorkingDays counts the dates strictly between from and to that are
// neither weekends nor holidays.
func WorkingDays(from, to time.Time, holidays HolidaySet) int {
	n := 0
	end := midnight(to)
	for d := midnight(addDays(from, 1)); d.Before(end); d = addDays(d, 1) {
		if !IsNonWorkingDay(d, holidays) {
			n++
		}
	}
	return n
}

// allocatedByDay attributes each item's allocated minutes to calendar dates
// in proportion to its wall-clock overlap with each date.
func allocatedByDay(machineID string, items []models.ScheduleItem) map[string]float64 {
	used := make(map[string]float64)
	for _, it := range items {
		if it.MachineID != machineID || it.AllocatedTime <= 0 {
			continue
		}
		span := it.EndDate.Sub(it.StartDate)
		if span <= 0 {
			used[it.StartDate.Format(models.DateLayout)] += it.AllocatedTime
			continue
		}
		for d := midnight(it.StartDate); d.Before(it.EndDate); d = addDays(d, 1) {
			lo, hi := d, addDays(d, 1)
			if it.StartDate.After(lo) {
				lo = it.StartDate
			}
			if it.EndDate.Before(hi) {
				hi = it.EndDate
			}
			if hi.After(lo) {
				used[d.Format(models.DateLayout)] += it.AllocatedTime * float64(hi.Sub(lo)) / float64(span)
			}
		}
	}
	return used
}

// AvailableMinutes is the machine's free capacity over the working days
// strictly between from and to: daily capacity minus minutes the existing
// schedule already allocates that day, floored at zero per day. This is a
// minute count, not an interval search; gaps too fragmented to use still
// count as free.
func AvailableMinutes(m *models.Machine, shifts []models.Shift, holidays HolidaySet, from, to time.Time, existing []models.ScheduleItem) float64 {
	if m == nil {
		return 0
	}
	daily := MachineCapacity(m, shifts)
	used := allocatedByDay(m.ID, existing)
	total := 0.0
	end := midnight(to)
	for d := midnight(addDays(from, 1)); d.Before(end); d = addDays(d, 1) {
		if IsNonWorkingDay(d, holidays) {
			continue
		}
		if free := daily - used[d.Format(models.DateLayout)]; free > 0 {
			total += free
		}
	}
	return total
}
