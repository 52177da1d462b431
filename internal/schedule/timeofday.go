package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a zero-padded 24-hour "HH:MM" clock label. The zero padding
// makes lexicographic comparison equal chronological comparison, so values
// compare directly with < and >= and double as slot identities on the grid.
type TimeOfDay string

// ParseTimeOfDay validates and normalizes an "HH:MM" string.
func ParseTimeOfDay(v string) (TimeOfDay, error) {
	if v == "" {
		return "", fmt.Errorf("schedule: empty time of day")
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return "", fmt.Errorf("schedule: parse time of day %q: %w", v, err)
	}
	return TimeOfDay(t.Format("15:04")), nil
}

// Minutes returns the offset from midnight. Malformed values return 0.
func (t TimeOfDay) Minutes() int {
	var h, m int
	if _, err := fmt.Sscanf(string(t), "%2d:%2d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}

func timeOfDayFromMinutes(m int) TimeOfDay {
	return TimeOfDay(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// Date is a day-granularity calendar date in "YYYY-MM-DD" form. Appointments
// group by Date only; no time-of-day component is carried.
type Date string

// ParseDate validates and normalizes a "YYYY-MM-DD" string.
func ParseDate(v string) (Date, error) {
	if v == "" {
		return "", fmt.Errorf("schedule: empty date")
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return "", fmt.Errorf("schedule: parse date %q: %w", v, err)
	}
	return Date(t.Format("2006-01-02")), nil
}

// Today returns the current date in the given location.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date(time.Now().In(loc).Format("2006-01-02"))
}
