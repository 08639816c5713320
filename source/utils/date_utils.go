package utils

import (
	"fmt"
	"time"
)

var acceptedDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	time.RFC3339,
	time.RFC3339Nano,
}

func IsValidDate(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range acceptedDateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// EndOfDay moves a bare date to its last instant so date ranges stay inclusive.
func EndOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
