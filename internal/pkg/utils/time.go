package utils

import "time"

const DateLayout = "2006-01-02"

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func IsPastDate(value time.Time, now time.Time) bool {
	return value.Before(now)
}

func IsFutureDate(value time.Time, now time.Time) bool {
	return value.After(now)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
