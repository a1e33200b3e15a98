package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted from typed input. The booking form historically
// shipped in two variants: one with a DD/MM/YYYY picker, one with a
// plain date field emitting YYYY-MM-DD. Both are accepted.
var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseSchedule turns typed date and time strings into a single UTC
// timestamp. An empty or malformed date fails with ErrInvalidDate. The
// time part is optional unless requireTime is set; when present it must
// be HH:MM. loc gives the wall-clock zone the user typed in.
func ParseSchedule(dateStr, timeStr string, requireTime bool, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}

	var day time.Time
	var ok bool
	for _, layout := range dateLayouts {
		d, err := time.ParseInLocation(layout, dateStr, loc)
		if err == nil {
			day, ok = d, true
			break
		}
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, dateStr)
	}

	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		if requireTime {
			return time.Time{}, fmt.Errorf("%w: time of day required", ErrInvalidTime)
		}
		return day.UTC(), nil
	}

	mins, err := parseHHMM(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTime, timeStr)
	}
	at := day.Add(time.Duration(mins) * time.Minute)
	return at.UTC(), nil
}

// parseHHMM parses "HH:MM" into minutes since midnight.
func parseHHMM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute")
	}
	return h*60 + m, nil
}
