package models

// AttendanceStatus is the single-letter daily attendance code.
type AttendanceStatus string

const (
	AttendanceStatusHadir AttendanceStatus = "H"
	AttendanceStatusSakit AttendanceStatus = "S"
	AttendanceStatusIzin  AttendanceStatus = "I"
	AttendanceStatusAlpa  AttendanceStatus = "A"
	AttendanceStatusLibur AttendanceStatus = "L"
	AttendanceStatusNone  AttendanceStatus = "-"
)

// Valid returns true for statuses a caller may submit when marking attendance.
// Libur is derived from the calendar, never stored.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusHadir, AttendanceStatusSakit, AttendanceStatusIzin, AttendanceStatusAlpa, AttendanceStatusNone:
		return true
	default:
		return false
	}
}

// Label returns the long Indonesian form used in parent notifications.
func (s AttendanceStatus) Label() string {
	switch s {
	case AttendanceStatusHadir:
		return "HADIR"
	case AttendanceStatusSakit:
		return "SAKIT"
	case AttendanceStatusIzin:
		return "IZIN"
	case AttendanceStatusAlpa:
		return "ALPA (Tanpa Keterangan)"
	default:
		return string(s)
	}
}

// AttendanceRecord stores one student's status for one calendar day. The ID is
// the composite studentID-date; at most one record exists per (studentID, date).
type AttendanceRecord struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"studentId"`
	Date         string           `json:"date"`
	Status       AttendanceStatus `json:"status"`
	AcademicYear string           `json:"academicYear"`
}

// AttendanceID builds the composite record key.
func AttendanceID(studentID, date string) string {
	return studentID + "-" + date
}
