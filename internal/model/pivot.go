package model

import "math"

// PivotRow is one person of a PivotTable.
type PivotRow struct {
	UserID int64  `json:"userId"`
	Label  string `json:"label"`
	// Hours has one cell per PivotTable.Days entry; days without activity are 0.
	Hours []float64 `json:"hours"`
	Total float64   `json:"total"`
	// Projects are the distinct project names the person tracked time on, sorted.
	Projects []string `json:"projects"`
}

// PivotTable holds hours per person (rows) per calendar day (columns) with totals.
type PivotTable struct {
	OrganizationID int64       `json:"organizationId"`
	Days           []string    `json:"days"`
	Rows           []*PivotRow `json:"rows"`
	DayTotals      []float64   `json:"dayTotals"`
	GrandTotal     float64     `json:"grandTotal"`
}

// HoursFromSeconds converts seconds to hours rounded to two decimals.
func HoursFromSeconds(seconds int64) float64 {
	return math.Round(float64(seconds)/36) / 100
}
