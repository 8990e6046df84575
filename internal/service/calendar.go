package service

import "time"

var seoul = loadSeoul()

// loadSeoul falls back to a fixed UTC+9 zone when the tz database is unavailable.
func loadSeoul() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// Seoul returns the exchange time zone.
func Seoul() *time.Location {
	return seoul
}

// TradingDate returns the calendar date of t in Seoul, as midnight UTC so it
// compares equal to DATE columns read back from Postgres.
func TradingDate(t time.Time) time.Time {
	y, m, d := t.In(seoul).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether the Korea Exchange is open on date.
// It excludes weekends and the fixed-date closures; lunar holidays are not modeled.
func IsTradingDay(date time.Time) bool {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	fixed := map[string]struct{}{
		"01-01": {}, // New Year's Day
		"03-01": {}, // Independence Movement Day
		"05-01": {}, // Labor Day (exchange closed)
		"05-05": {}, // Children's Day
		"06-06": {}, // Memorial Day
		"08-15": {}, // Liberation Day
		"10-03": {}, // National Foundation Day
		"10-09": {}, // Hangul Day
		"12-25": {}, // Christmas
		"12-31": {}, // Year-end closing
	}
	if _, ok := fixed[date.Format("01-02")]; ok {
		return false
	}
	return true
}
