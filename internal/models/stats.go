package models

import "time"

// StatsWindowMonths is how far back the monthly breakdown reaches
const StatsWindowMonths = 6

// MonthlyCount is the number of complaints submitted in one calendar month
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// Stats aggregates complaint counts for the admin dashboard
type Stats struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	InProgress int64            `json:"in_progress"`
	Resolved   int64            `json:"resolved"`
	ByCategory map[string]int64 `json:"by_category"`
	Monthly    []MonthlyCount   `json:"monthly"`
}

// StatsWindowStart returns midnight UTC, StatsWindowMonths before now
func StatsWindowStart(now time.Time) time.Time {
	y, m, d := now.UTC().AddDate(0, -StatsWindowMonths, 0).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
