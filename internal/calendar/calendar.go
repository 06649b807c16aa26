package calendar

import (
	"sort"
	"time"
)

// Holidays is an immutable set of excluded dates.
type Holidays struct {
	set map[Date]struct{}
}

// NewHolidays builds a holiday set. Zero dates are ignored.
func NewHolidays(dates ...Date) Holidays {
	set := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		set[d] = struct{}{}
	}
	return Holidays{set: set}
}

// Contains reports whether d is a holiday.
func (h Holidays) Contains(d Date) bool {
	_, ok := h.set[d]
	return ok
}

// Len returns the number of holidays.
func (h Holidays) Len() int {
	return len(h.set)
}

// Dates returns the holidays in ascending order.
func (h Holidays) Dates() []Date {
	out := make([]Date, 0, len(h.set))
	for d := range h.set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsWorkingDay reports whether d falls Monday through Friday and is not a
// holiday.
func IsWorkingDay(d Date, holidays Holidays) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(d)
}

// WorkingDays returns every working day in [start, end], ascending. The
// result is empty when start is after end or the range has no working day.
func WorkingDays(start, end Date, holidays Holidays) []Date {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil
	}
	days := make([]Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if IsWorkingDay(d, holidays) {
			days = append(days, d)
		}
	}
	return days
}

// NextWorkingDay returns the first working day on or after d.
func NextWorkingDay(d Date, holidays Holidays) Date {
	for !IsWorkingDay(d, holidays) {
		d = d.AddDays(1)
	}
	return d
}
