package utils

import (
	"errors"
	"time"
)

// WeekLayout is the DD/MM/YYYY format week ids are written in.
const WeekLayout = "02/01/2006"

var (
	ErrMalformedWeek = errors.New("week must be formatted DD/MM/YYYY")
	ErrNotWednesday  = errors.New("week must be the Wednesday of its week")
)

// WeekID returns the id of the week containing d: the Wednesday of that
// Monday-based week formatted DD/MM/YYYY.
func WeekID(d time.Time) string {
	return WeekStart(d).Format(WeekLayout)
}

// WeekStart returns the Wednesday of the Monday-based week containing d.
func WeekStart(d time.Time) time.Time {
	// Monday=0 ... Sunday=6, Wednesday=2
	weekday := (int(d.Weekday()) + 6) % 7
	offset := 2 - weekday
	wednesday := d.AddDate(0, 0, offset)
	return time.Date(wednesday.Year(), wednesday.Month(), wednesday.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentWeekID returns the week id for now.
func CurrentWeekID(now time.Time) string {
	return WeekID(now)
}

// ParseWeekID validates a week id and returns the Wednesday it names.
func ParseWeekID(week string) (time.Time, error) {
	t, err := time.Parse(WeekLayout, week)
	if err != nil {
		return time.Time{}, ErrMalformedWeek
	}
	if t.Weekday() != time.Wednesday {
		return time.Time{}, ErrNotWednesday
	}
	return t, nil
}
