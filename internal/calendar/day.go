package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the accepted date format.
const DateLayout = "2006-01-02"

// boundLayout keeps an explicit numeric offset, also for UTC.
const boundLayout = "2006-01-02T15:04:05-07:00"

// ErrInvalidDate is returned for dates that are not YYYY-MM-DD, today or tomorrow.
var ErrInvalidDate = errors.New("invalid date")

// Day is one calendar date with the UTC offset used to bound its queries.
type Day struct {
	start time.Time
}

// NewDay parses a YYYY-MM-DD date or the keywords "today" and "tomorrow"
// relative to now. The UTC offset of now's location at the date's midnight
// is fixed for the whole day, so a DST switch during the day does not move
// the window.
func NewDay(date string, now time.Time) (Day, error) {
	loc := now.Location()

	var y int
	var m time.Month
	var d int
	switch date {
	case "today":
		y, m, d = now.Date()
	case "tomorrow":
		y, m, d = now.AddDate(0, 0, 1).Date()
	default:
		t, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return Day{}, fmt.Errorf("%w %q: expected YYYY-MM-DD, today or tomorrow", ErrInvalidDate, date)
		}
		y, m, d = t.Date()
	}

	_, offset := time.Date(y, m, d, 0, 0, 0, 0, loc).Zone()
	zone := time.FixedZone("", offset)
	return Day{start: time.Date(y, m, d, 0, 0, 0, 0, zone)}, nil
}

// String returns the date as YYYY-MM-DD.
func (d Day) String() string {
	return d.start.Format(DateLayout)
}

// Offset returns the fixed UTC offset as ±HH:MM.
func (d Day) Offset() string {
	return d.start.Format("-07:00")
}

// TimeMin returns the RFC 3339 lower bound of the day, {date}T00:00:00{offset}.
func (d Day) TimeMin() string {
	return d.start.Format(boundLayout)
}

// TimeMax returns the RFC 3339 upper bound of the day, {date}T23:59:00{offset}.
func (d Day) TimeMax() string {
	return d.start.Add(23*time.Hour + 59*time.Minute).Format(boundLayout)
}
