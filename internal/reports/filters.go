package reports

import (
	"errors"
	"time"
)

// DateRange returns the bounds for a preset relative to now, or for a custom
// range given as "2006-01-02" dates. The end day is inclusive. The "all"
// preset and an empty preset return zero times.
func DateRange(preset, startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch preset {
	case "", DateRangeAll:
		return time.Time{}, time.Time{}, nil
	case DateRangeDaily:
		return today, today.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	case DateRangeWeekly:
		return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	case DateRangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
	case DateRangeYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), nil
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return time.Time{}, time.Time{}, errors.New("start_date and end_date required for custom range")
		}
		start, err := time.ParseInLocation("2006-01-02", startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, errors.New("start_date must be before end_date")
		}
		return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	default:
		return time.Time{}, time.Time{}, errors.New("date_range must be one of all, daily, weekly, monthly, yearly, custom")
	}
}

func IsValidFormat(f string) bool {
	switch f {
	case FormatJSON, FormatCSV, FormatExcel, FormatPDF:
		return true
	}
	return false
}
