// Package itinerary turns a trip's date range into its per-day itinerary skeleton.
//
// All arithmetic is done on calendar dates pinned to UTC midnight and advanced with
// time.AddDate, so the result never depends on the server's zone or on DST shifts.
package itinerary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tripplanner-backend/internal/models"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a calendar date.
var ErrInvalidDate = errors.New("invalid calendar date")

// ParseDate parses a YYYY-MM-DD string. An RFC 3339 timestamp is also accepted
// and truncated to the calendar date it names in its own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ExpandDates returns every calendar date from start to end inclusive, in order,
// formatted as YYYY-MM-DD. If end is before start the result is empty.
func ExpandDates(start, end string) ([]string, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, dayCount(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// BuildDays expands the range into itinerary Days with no stops.
func BuildDays(start, end string) ([]models.Day, error) {
	dates, err := ExpandDates(start, end)
	if err != nil {
		return nil, err
	}
	days := make([]models.Day, len(dates))
	for i, date := range dates {
		days[i] = models.Day{Date: date, Stops: []models.Stop{}}
	}
	return days, nil
}

// DayCount returns the inclusive number of days between start and end, or 0
// when end is before start.
func DayCount(start, end string) (int, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return 0, err
	}
	return dayCount(from, to), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	to, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	return from, to, nil
}

// secondsPerDay holds for UTC midnights, which see no DST shifts.
const secondsPerDay = 24 * 60 * 60

// dayCount expects UTC midnights. It works on Unix seconds because a
// time.Duration overflows for spans longer than about 292 years.
func dayCount(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1
}
