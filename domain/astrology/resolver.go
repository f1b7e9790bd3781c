package astrology

import (
	"time"

	pkgerrors "astroguia-backend/pkg/errors"
)

// signStart holds the first day of each sign's range. Ranges run until the
// day before the next entry; Capricorn wraps across the new year.
var signStart = [...]struct {
	month, day int
	sign       Sign
}{
	{1, 20, Aquarius},
	{2, 19, Pisces},
	{3, 21, Aries},
	{4, 20, Taurus},
	{5, 21, Gemini},
	{6, 21, Cancer},
	{7, 23, Leo},
	{8, 23, Virgo},
	{9, 23, Libra},
	{10, 23, Scorpio},
	{11, 22, Sagittarius},
	{12, 22, Capricorn},
}

var daysInMonth = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// SignForDate returns the sun sign for a calendar month (1-12) and day.
// February 29 is accepted; out-of-range input is a validation error.
func SignForDate(month, day int) (Sign, error) {
	if month < 1 || month > 12 {
		return "", pkgerrors.NewValidationErrorf("month %d out of range 1-12", month)
	}
	if day < 1 || day > daysInMonth[month-1] {
		return "", pkgerrors.NewValidationErrorf("day %d out of range for month %d", day, month)
	}

	sign := Capricorn
	for _, start := range signStart {
		if month > start.month || (month == start.month && day >= start.day) {
			sign = start.sign
		}
	}
	return sign, nil
}

// SignForTime resolves the sun sign of t's calendar date.
func SignForTime(t time.Time) Sign {
	sign, _ := SignForDate(int(t.Month()), t.Day())
	return sign
}
