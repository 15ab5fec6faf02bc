package apiusage

import "time"

// Usage tracks upstream request counts for one calendar month.
type Usage struct {
	MonthYear    string
	RequestCount int
	RequestTime  time.Time
}

// MonthKey formats t as the YYYY-MM bucket key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
