package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const layoutISO = "2006-01-02"

// ParseDate validates a YYYY-MM-DD calendar date string.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(layoutISO, s)
	if err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t.Format(layoutISO), nil
}

// Today returns the current local calendar date.
func Today() string {
	return time.Now().Format(layoutISO)
}

// NextDay returns the calendar date one day after the given date.
func NextDay(date string) (string, error) {
	t, err := time.Parse(layoutISO, date)
	if err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t.AddDate(0, 0, 1).Format(layoutISO), nil
}

// DateRange enumerates calendar dates from one date to another, inclusive
// of both ends. An empty "to" defaults to "from".
func DateRange(from, to string) ([]string, error) {
	start, err := time.Parse(layoutISO, from)
	if err != nil {
		return nil, fmt.Errorf("fromDate must be YYYY-MM-DD: %w", err)
	}
	if to == "" {
		return []string{start.Format(layoutISO)}, nil
	}
	end, err := time.Parse(layoutISO, to)
	if err != nil {
		return nil, fmt.Errorf("toDate must be YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("toDate %s is before fromDate %s", to, from)
	}
	dates := make([]string, 0, 1+int(end.Sub(start).Hours()/24))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(layoutISO))
	}
	return dates, nil
}

// ParseClock converts an "HH:MM" string to a minute of day. Hours run 0-23
// and minutes 0-59, matching what the flat-file grammar accepts.
func ParseClock(v string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, fmt.Errorf("time must be HH:MM, got %q", v)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("time must be HH:MM, got %q", v)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("time must be HH:MM, got %q", v)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour must be in 0..23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute must be in 0..59, got %d", minute)
	}
	return hour*60 + minute, nil
}

// FormatClock renders a minute of day as "HH:MM". Minute 1440 renders as
// "24:00" so a day-final slot end stays readable.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
