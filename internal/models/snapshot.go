package models

// Snapshot is the full serialized domain state: every entity collection plus
// sync metadata. The persistence layer stores it as one document and the sync
// client transmits it wholesale.
type Snapshot struct {
	Students      []Student          `json:"students"`
	Teachers      []Teacher          `json:"teachers"`
	Attendance    []AttendanceRecord `json:"attendance"`
	Alumni        []Alumni           `json:"alumni"`
	Holidays      []Holiday          `json:"holidays"`
	AcademicYears []AcademicYear     `json:"academicYears"`
	Headmaster    Headmaster         `json:"headmaster"`

	RemoteEndpoint    string `json:"remoteEndpoint,omitempty"`
	LastSyncTimestamp string `json:"lastSyncTimestamp,omitempty"`
}

// Clone returns a deep copy so callers can hand state across goroutine
// boundaries without aliasing the store's slices.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Students = append([]Student(nil), s.Students...)
	out.Teachers = append([]Teacher(nil), s.Teachers...)
	out.Attendance = append([]AttendanceRecord(nil), s.Attendance...)
	out.Alumni = append([]Alumni(nil), s.Alumni...)
	out.Holidays = append([]Holiday(nil), s.Holidays...)
	out.AcademicYears = append([]AcademicYear(nil), s.AcademicYears...)
	return out
}

// ActiveYear returns the active academic year, if any.
func (s Snapshot) ActiveYear() (AcademicYear, bool) {
	for _, y := range s.AcademicYears {
		if y.Active {
			return y, true
		}
	}
	return AcademicYear{}, false
}
