package models

// AcademicYear is a named enrollment period, e.g. "2024/2025". Exactly one
// year is active at a time.
type AcademicYear struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"isActive"`
}

// Holiday declares a non-attendance calendar day. Dates match by exact
// calendar-day equality; duplicates for the same date are tolerated.
type Holiday struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
}
