package utils

import "time"

const (
	dateKeyLayout  = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// DateKey formats t as the UTC calendar day used in storage keys
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// MonthKey formats t as the UTC calendar month used in storage keys
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// StartOfDay truncates t to UTC midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
