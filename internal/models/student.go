package models

// Student represents a learner on the active roster.
type Student struct {
	ID          string `json:"id"`
	NISN        string `json:"nisn"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	ClassID     string `json:"classId"`
	ParentPhone string `json:"parentPhone,omitempty"`
	Active      bool   `json:"isActive"`
}

// AlumniReason explains why a student left the roster.
type AlumniReason string

const (
	AlumniReasonPindah    AlumniReason = "Pindah"
	AlumniReasonTamat     AlumniReason = "Tamat"
	AlumniReasonMeninggal AlumniReason = "Meninggal"
	AlumniReasonDropOut   AlumniReason = "Drop Out"
)

// Valid returns true when the reason is a supported value.
func (r AlumniReason) Valid() bool {
	switch r {
	case AlumniReasonPindah, AlumniReasonTamat, AlumniReasonMeninggal, AlumniReasonDropOut:
		return true
	default:
		return false
	}
}

// Alumni is a student archived out of the active roster. A person is either a
// Student or an Alumni, never both.
type Alumni struct {
	ID           string       `json:"id"`
	NISN         string       `json:"nisn"`
	Name         string       `json:"name"`
	Gender       string       `json:"gender"`
	ClassID      string       `json:"classId"`
	ParentPhone  string       `json:"parentPhone,omitempty"`
	Reason       AlumniReason `json:"reason"`
	DateLeft     string       `json:"dateLeft"`
	LastClassID  string       `json:"lastClassId"`
	AcademicYear string       `json:"academicYear"`
}
