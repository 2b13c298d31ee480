// Package schoolday classifies calendar dates as school days or days off
// (weekends and declared holidays).
package schoolday

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/absensi-sd-api/internal/models"
)

// WeekendReason is the presented reason when a date is blocked only because it
// falls on Saturday or Sunday.
const WeekendReason = "Akhir Pekan (Sabtu/Minggu)"

// Date is a calendar day held as explicit integers so that parsing a string
// can never shift by a day across timezones.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Parse reads a YYYY-MM-DD string. A trailing time component (e.g. the
// RFC 3339 suffix spreadsheet exports attach) is ignored.
func Parse(s string) (Date, error) {
	s = Normalize(s)
	var d Date
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return Date{}, fmt.Errorf("parse date %q: out of range", s)
	}
	return d, nil
}

// Normalize trims a date string to calendar-day granularity.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	return s
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Weekday computes the day of week via a noon-UTC instant, which is immune to
// DST and timezone offset edge cases.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// FindHoliday returns the first holiday matching the date, if any. Any match
// suffices; duplicate holiday rows for the same date are harmless here.
func FindHoliday(d Date, holidays []models.Holiday) (models.Holiday, bool) {
	key := d.String()
	for _, h := range holidays {
		if Normalize(h.Date) == key {
			return h, true
		}
	}
	return models.Holiday{}, false
}

// DayOff reports whether attendance is blocked for the date. The holiday
// description takes precedence over the weekend reason when both apply.
func DayOff(d Date, holidays []models.Holiday) (string, bool) {
	if h, ok := FindHoliday(d, holidays); ok {
		return h.Description, true
	}
	if d.IsWeekend() {
		return WeekendReason, true
	}
	return "", false
}
