package bond

import "time"

// YearFraction returns the act/act ISDA year fraction between two dates.
//
// Each calendar year spanned contributes its actual day count divided by its
// own length (366 in leap years, 365 otherwise). The result is negative when
// end is before start, and zero for equal dates.
func YearFraction(start, end Date) float64 {
	if start == end {
		return 0
	}
	if end.Before(start) {
		return -YearFraction(end, start)
	}
	if start.Year() == end.Year() {
		return float64(start.DaysUntil(end)) / float64(daysInYear(start.Year()))
	}
	// Partial first year, whole years in between, partial last year.
	f := float64(start.DaysUntil(NewDate(start.Year()+1, time.January, 1))) / float64(daysInYear(start.Year()))
	f += float64(end.Year() - start.Year() - 1)
	f += float64(NewDate(end.Year(), time.January, 1).DaysUntil(end)) / float64(daysInYear(end.Year()))
	return f
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
