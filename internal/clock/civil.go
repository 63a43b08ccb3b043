package clock

import "time"

const dateKeyLayout = "2006-01-02"

// CivilTime is a wall-clock reading in a specific civil calendar, detached from
// any UTC instant. It mirrors the field shape returned by the external time
// authority so both resolution strategies produce the same value.
type CivilTime struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Instant materializes the civil reading as a time.Time in the given zone.
func (civil CivilTime) Instant(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(
		civil.Year,
		time.Month(civil.Month),
		civil.Day,
		civil.Hour,
		civil.Minute,
		civil.Second,
		civil.Millisecond*int(time.Millisecond),
		location,
	)
}

// DateKey returns the "YYYY-MM-DD" civil date of value in location. Records are
// bucketed by this key everywhere, and same-day comparisons go through it.
func DateKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(dateKeyLayout)
}

// DateAtLocation truncates value to midnight of its civil date in location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayBounds returns the inclusive civil-day window around value:
// 00:00:00.000 through 23:59:59.999 in location.
func DayBounds(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// TrailingWindow returns a window covering days calendar days that ends on the
// civil day of end: [start-of-day end-(days-1), end-of-day end].
func TrailingWindow(end time.Time, days int, location *time.Location) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	_, windowEnd := DayBounds(end, location)
	windowStart := DateAtLocation(end, location).AddDate(0, 0, -(days - 1))
	return windowStart, windowEnd
}
