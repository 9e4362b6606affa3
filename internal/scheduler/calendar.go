package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultDayStartMinutes is 09:00, used for the machine cursor and for
	// the degraded no-shift fallback.
	DefaultDayStartMinutes = 9 * 60

	// DefaultShiftTiming applies when a machine has neither an active shift
	// nor a parseable legacy shiftTiming.
	DefaultShiftTiming = "09:00-17:00"

	// maxCalendarSteps bounds every slot search so a calendar without any
	// reachable working window cannot spin forever.
	maxCalendarSteps = 5000
)

var legacyWorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// HolidaySet is a set of YYYY-MM-DD dates treated as fully non-working.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet, ignoring blank entries.
func NewHolidaySet(dates ...string) HolidaySet {
	hs := make(HolidaySet, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		hs[d] = struct{}{}
	}
	return hs
}

// Contains reports whether t's calendar date is a holiday.
func (hs HolidaySet) Contains(t time.Time) bool {
	if len(hs) == 0 {
		return false
	}
	_, ok := hs[t.Format(models.DateLayout)]
	return ok
}

// IsNonWorkingDay reports whether t falls on a Saturday, Sunday or holiday.
func IsNonWorkingDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return holidays.Contains(t)
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 && m != 0 {
		return 0, false
	}
	return h*60 + m, true
}

// ParseShiftTiming parses a legacy "HH:MM-HH:MM" window.
func ParseShiftTiming(s string) (start, end int, ok bool) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return 0, 0, false
	}
	start, okA := ParseClock(a)
	end, okB := ParseClock(b)
	if !okA || !okB {
		return 0, 0, false
	}
	return start, end, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// at returns the instant on t's calendar date at the given minute of day.
func at(t time.Time, minutes int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, t.Location())
}

func sinceMidnight(t time.Time) time.Duration {
	return t.Sub(midnight(t))
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

func weekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// worksOn reports whether the shift's working days include the weekday.
// Full names and three-letter abbreviations are accepted in any case.
func worksOn(s *models.Shift, day string) bool {
	for _, d := range s.WorkingDays {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == day || (len(d) == 3 && strings.HasPrefix(day, d)) {
			return true
		}
	}
	return false
}

func shiftBounds(s *models.Shift) (start, end int, ok bool) {
	start, okA := ParseClock(s.Timing.StartTime)
	end, okB := ParseClock(s.Timing.EndTime)
	return start, end, okA && okB
}

func wraps(s *models.Shift) bool {
	start, end, ok := shiftBounds(s)
	return ok && start > end
}

func windowContains(start, end int, tod time.Duration) bool {
	st := time.Duration(start) * time.Minute
	en := time.Duration(end) * time.Minute
	if start <= end {
		return tod >= st && tod < en
	}
	return tod >= st || tod < en
}

// ActiveShifts returns the shifts with IsActive set, preserving order.
func ActiveShifts(shifts []models.Shift) []models.Shift {
	out := make([]models.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out
}

// FindCurrentShift returns the first active shift that works on t's weekday
// and whose window contains t's time of day, or nil.
func FindCurrentShift(t time.Time, shifts []models.Shift) *models.Shift {
	day := weekdayName(t)
	tod := sinceMidnight(t)
	for i := range shifts {
		s := &shifts[i]
		if !s.IsActive || !worksOn(s, day) {
			continue
		}
		start, end, ok := shiftBounds(s)
		if !ok {
			continue
		}
		if windowContains(start, end, tod) {
			return s
		}
	}
	return nil
}

// NextShiftStart returns the next shift start after t. The second result is
// false when no active shift has any working day; the returned instant is
// then the degraded fallback of the next calendar day at 09:00.
func NextShiftStart(t time.Time, shifts []models.Shift) (time.Time, bool) {
	active := ActiveShifts(shifts)
	if len(active) > 0 {
		if next, ok := earliestStartOn(t, active, t); ok {
			return next, true
		}
		for d := 1; d <= 7; d++ {
			day := midnight(addDays(t, d))
			if next, ok := earliestStartOn(day, active, time.Time{}); ok {
				return next, true
			}
		}
	}
	return at(addDays(t, 1), DefaultDayStartMinutes), false
}

// earliestStartOn finds the earliest start on day's weekday strictly after
// 'after' (ignored when zero).
func earliestStartOn(day time.Time, active []models.Shift, after time.Time) (time.Time, bool) {
	name := weekdayName(day)
	var best time.Time
	found := false
	for i := range active {
		s := &active[i]
		if !worksOn(s, name) {
			continue
		}
		start, _, ok := shiftBounds(s)
		if !ok {
			continue
		}
		st := at(day, start)
		if !after.IsZero() && !st.After(after) {
			continue
		}
		if !found || st.Before(best) {
			best, found = st, true
		}
	}
	return best, found
}

// ShiftEndTime returns when the shift containing t ends. Overnight shifts
// whose same-day end is not after t end on the following day.
func ShiftEndTime(t time.Time, s *models.Shift) time.Time {
	_, endMin, ok := shiftBounds(s)
	if !ok {
		return t
	}
	end := at(t, endMin)
	if wraps(s) && !end.After(t) {
		end = addDays(end, 1)
	}
	return end
}

// grossShiftMinutes is the wrap-adjusted length of the shift window.
func grossShiftMinutes(start, end int) int {
	if end >= start {
		return end - start
	}
	return 24*60 - start + end
}

func breakMinutes(b models.BreakTime) float64 {
	if b.Duration > 0 {
		return b.Duration
	}
	start, okA := ParseClock(b.Start)
	end, okB := ParseClock(b.End)
	if !okA || !okB {
		return 0
	}
	return float64(grossShiftMinutes(start, end))
}

// NetShiftMinutes is the shift's gross window minus its unpaid breaks.
func NetShiftMinutes(s models.Shift) float64 {
	start, end, ok := shiftBounds(&s)
	if !ok {
		return 0
	}
	net := float64(grossShiftMinutes(start, end))
	for _, b := range s.BreakTimes {
		if !b.IsPaid {
			net -= breakMinutes(b)
		}
	}
	if net < 0 {
		return 0
	}
	return net
}

// LegacyShift converts a machine's shiftTiming string into a Monday to
// Friday shift without breaks.
func LegacyShift(m *models.Machine) models.Shift {
	timing := DefaultShiftTiming
	if m != nil {
		if _, _, ok := ParseShiftTiming(m.ShiftTiming); ok {
			timing = m.ShiftTiming
		}
	}
	a, b, _ := strings.Cut(timing, "-")
	return models.Shift{
		ID:          "legacy",
		Name:        "legacy shift timing",
		Timing:      models.ShiftWindow{StartTime: strings.TrimSpace(a), EndTime: strings.TrimSpace(b)},
		WorkingDays: legacyWorkingDays,
		IsActive:    true,
	}
}

// calendar resolves working instants for one machine.
type calendar struct {
	shifts   []models.Shift
	holidays HolidaySet
	log      logrus.FieldLogger
}

func newCalendar(m *models.Machine, shifts []models.Shift, holidays HolidaySet, log logrus.FieldLogger) calendar {
	active := ActiveShifts(shifts)
	if len(active) == 0 {
		active = []models.Shift{LegacyShift(m)}
	}
	return calendar{shifts: active, holidays: holidays, log: log}
}

// unpaidBreakEnd returns the end of the unpaid break containing t, if any.
func (c calendar) unpaidBreakEnd(t time.Time, s *models.Shift) (time.Time, bool) {
	for _, b := range s.BreakTimes {
		if b.IsPaid {
			continue
		}
		bs, ok := ParseClock(b.Start)
		if !ok {
			continue
		}
		dur := minutesToDuration(breakMinutes(b))
		for _, day := range []time.Time{t, addDays(t, -1)} {
			start := at(day, bs)
			if !t.Before(start) && t.Before(start.Add(dur)) {
				return start.Add(dur), true
			}
		}
	}
	return time.Time{}, false
}

// nextUnpaidBreak returns the first unpaid break starting in (t, limit).
func (c calendar) nextUnpaidBreak(t, limit time.Time, s *models.Shift) (time.Time, bool) {
	var best time.Time
	found := false
	for _, b := range s.BreakTimes {
		if b.IsPaid {
			continue
		}
		bs, ok := ParseClock(b.Start)
		if !ok {
			continue
		}
		for _, day := range []time.Time{t, addDays(t, 1)} {
			start := at(day, bs)
			if start.After(t) && start.Before(limit) && (!found || start.Before(best)) {
				best, found = start, true
			}
		}
	}
	return best, found
}

// startDate advances t to the next working instant on or after it.
func (c calendar) startDate(t time.Time) time.Time {
	for i := 0; i < maxCalendarSteps; i++ {
		if IsNonWorkingDay(t, c.holidays) {
			t = midnight(addDays(t, 1))
			continue
		}
		if s := FindCurrentShift(t, c.shifts); s != nil {
			if end, ok := c.unpaidBreakEnd(t, s); ok {
				t = end
				continue
			}
			return t
		}
		next, ok := NextShiftStart(t, c.shifts)
		if !ok {
			c.log.WithField("from", t.Format(time.RFC3339)).
				Warn("no shift has working days; falling back to next day 09:00")
		}
		t = next
	}
	c.log.WithField("at", t.Format(time.RFC3339)).Warn("no working window reachable; using instant as-is")
	return t
}

// segmentEnd is where continuous working time starting at t stops: the
// shift end, the next unpaid break, or midnight before a non-working day.
func (c calendar) segmentEnd(t time.Time, s *models.Shift) time.Time {
	end := ShiftEndTime(t, s)
	if b, ok := c.nextUnpaidBreak(t, end, s); ok {
		end = b
	}
	nextDay := midnight(addDays(t, 1))
	if end.After(nextDay) && IsNonWorkingDay(nextDay, c.holidays) {
		end = nextDay
	}
	return end
}

// endDate consumes minutes of working time starting at start, spreading the
// work across shifts and days as needed.
func (c calendar) endDate(start time.Time, minutes float64) time.Time {
	remaining := minutesToDuration(minutes)
	if remaining <= 0 {
		return start
	}
	t := start
	for i := 0; i < maxCalendarSteps; i++ {
		t = c.startDate(t)
		s := FindCurrentShift(t, c.shifts)
		if s == nil {
			break
		}
		avail := c.segmentEnd(t, s).Sub(t)
		if avail <= 0 {
			t = t.Add(time.Minute)
			continue
		}
		if remaining <= avail {
			return t.Add(remaining)
		}
		remaining -= avail
		t = t.Add(avail)
	}
	c.log.WithField("at", t.Format(time.RFC3339)).Warn("duration walk exhausted calendar; appending remainder")
	return t.Add(remaining)
}

// StartDate returns the first working instant on or after earliest for the
// machine, honoring active shifts (or the machine's legacy shiftTiming),
// unpaid breaks, weekends and holidays.
func StartDate(m *models.Machine, earliest time.Time, shifts []models.Shift, holidays HolidaySet) time.Time {
	return newCalendar(m, shifts, holidays, nopLogger()).startDate(earliest)
}

// EndDate returns when minutes of work starting at start finish on the
// machine's calendar.
func EndDate(m *models.Machine, start time.Time, minutes float64, shifts []models.Shift, holidays HolidaySet) time.Time {
	return newCalendar(m, shifts, holidays, nopLogger()).endDate(start, minutes)
}
