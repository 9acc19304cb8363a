package domain

// ShouldReset decides whether the billing cycle resets today. It fires when
//  1. today is the reset day and the last reset was not today,
//  2. the month changed since the last reset and today is on or past the reset day, or
//  3. the year changed since the last reset and today is on or past the reset day.
//
// A gap of several months still yields a single reset.
func ShouldReset(lastReset, today Date, resetDay int) bool {
	day := today.Day()
	if day == resetDay && !lastReset.Equal(today) {
		return true
	}
	if today.Month() != lastReset.Month() && day >= resetDay {
		return true
	}
	if today.Year() != lastReset.Year() && day >= resetDay {
		return true
	}
	return false
}
