package util

import "time"

// AddMonths returns the date `months` calendar months after t, keeping the
// day-of-month where the target month is long enough and clamping to the last
// day otherwise (Jan 31 + 1 month = Feb 28/29, never Mar 2/3).
func AddMonths(t time.Time, months int) time.Time {
	year := t.Year()
	month := int(t.Month()) - 1 + months
	year += month / 12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	return ActualDate(year, time.Month(month+1), t.Day())
}

// ActualDate returns the date for a target day in a given month, handling
// months with fewer days (e.g., day 31 in February returns Feb 28/29)
func ActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of the month containing t
func MonthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return
}
