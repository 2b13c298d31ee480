package models

// DayCell is one day column in the monthly matrix.
type DayCell struct {
	Day       int    `json:"day"`
	Date      string `json:"date"`
	Weekend   bool   `json:"weekend"`
	Holiday   bool   `json:"holiday"`
	DayOff    bool   `json:"day_off"`
	OffReason string `json:"off_reason,omitempty"`
}

// StatusTally counts attendance codes for one student in one month.
type StatusTally struct {
	Hadir int `json:"hadir"`
	Sakit int `json:"sakit"`
	Izin  int `json:"izin"`
	Alpa  int `json:"alpa"`
}

// MonthlyReportRow is one student's line in the monthly matrix.
type MonthlyReportRow struct {
	StudentID string      `json:"student_id"`
	NISN      string      `json:"nisn"`
	Name      string      `json:"name"`
	ClassID   string      `json:"class_id"`
	Codes     []string    `json:"codes"`
	Tally     StatusTally `json:"tally"`
}

// MonthlyReport is the full monthly attendance projection for a class.
type MonthlyReport struct {
	ClassID       string             `json:"class_id"`
	Year          int                `json:"year"`
	Month         int                `json:"month"`
	MonthName     string             `json:"month_name"`
	AcademicYear  string             `json:"academic_year"`
	Days          []DayCell          `json:"days"`
	Rows          []MonthlyReportRow `json:"rows"`
	Totals        StatusTally        `json:"totals"`
	EffectiveDays int                `json:"effective_days"`
	Percentage    float64            `json:"percentage"`
	HomeroomName  string             `json:"homeroom_name,omitempty"`
	Headmaster    Headmaster         `json:"headmaster"`
}

// DashboardSummary is the landing-page aggregate.
type DashboardSummary struct {
	StudentCount  int         `json:"student_count"`
	TeacherCount  int         `json:"teacher_count"`
	AlumniCount   int         `json:"alumni_count"`
	HolidayCount  int         `json:"holiday_count"`
	ActiveYear    string      `json:"active_year"`
	TodayOff      bool        `json:"today_off"`
	TodayReason   string      `json:"today_reason,omitempty"`
	TodayTally    StatusTally `json:"today_tally"`
	TodayUnmarked int         `json:"today_unmarked"`
}
