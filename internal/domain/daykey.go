package domain

import "time"

// DayKeyLayout is the ISO calendar date used to key day-bucket documents.
const DayKeyLayout = "2006-01-02"

// DayKey returns the UTC calendar day bucket for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// ParseDayKey parses a bucket key back into midnight UTC of that day.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, time.UTC)
}

// WindowKeys returns the yesterday and today buckets for now, oldest first.
// Reading both covers notifications and cache writes that straddle midnight.
func WindowKeys(now time.Time) []string {
	return []string{DayKey(now.AddDate(0, 0, -1)), DayKey(now)}
}
