package syncer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
)

// flexString decodes a JSON value the local schema expects as text. Remote
// spreadsheets return numeric ids (NISN, classId) as numbers; coercion is
// deterministic: strings pass through, numbers and booleans render, null is
// empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexString(strconv.FormatBool(v))
		return nil
	}
	return fmt.Errorf("cannot coerce %s to string", string(b))
}

// flexBool decodes a JSON boolean that spreadsheets may deliver as the
// strings "TRUE"/"FALSE" or as 0/1.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "ya":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = n.String() != "0"
		return nil
	}
	return fmt.Errorf("cannot coerce %s to bool", string(b))
}

type studentRow struct {
	ID          flexString `json:"id"`
	NISN        flexString `json:"nisn"`
	Name        flexString `json:"name"`
	Gender      flexString `json:"gender"`
	ClassID     flexString `json:"classId"`
	ParentPhone flexString `json:"parentPhone"`
	Active      flexBool   `json:"isActive"`
}

func (r studentRow) model() models.Student {
	return models.Student{
		ID:          string(r.ID),
		NISN:        string(r.NISN),
		Name:        string(r.Name),
		Gender:      string(r.Gender),
		ClassID:     string(r.ClassID),
		ParentPhone: string(r.ParentPhone),
		Active:      bool(r.Active),
	}
}

type teacherRow struct {
	ID       flexString `json:"id"`
	Name     flexString `json:"name"`
	NIP      flexString `json:"nip"`
	ClassID  flexString `json:"classId"`
	Username flexString `json:"username"`
	Password flexString `json:"password"`
}

func (r teacherRow) model() models.Teacher {
	return models.Teacher{
		ID:       string(r.ID),
		Name:     string(r.Name),
		NIP:      string(r.NIP),
		ClassID:  string(r.ClassID),
		Username: string(r.Username),
		Password: string(r.Password),
	}
}

type attendanceRow struct {
	ID           flexString `json:"id"`
	StudentID    flexString `json:"studentId"`
	Date         flexString `json:"date"`
	Status       flexString `json:"status"`
	AcademicYear flexString `json:"academicYear"`
}

func (r attendanceRow) model() models.AttendanceRecord {
	date := schoolday.Normalize(string(r.Date))
	id := string(r.ID)
	if id == "" {
		id = models.AttendanceID(string(r.StudentID), date)
	}
	return models.AttendanceRecord{
		ID:           id,
		StudentID:    string(r.StudentID),
		Date:         date,
		Status:       models.AttendanceStatus(r.Status),
		AcademicYear: string(r.AcademicYear),
	}
}

type alumniRow struct {
	ID           flexString `json:"id"`
	NISN         flexString `json:"nisn"`
	Name         flexString `json:"name"`
	Gender       flexString `json:"gender"`
	ClassID      flexString `json:"classId"`
	ParentPhone  flexString `json:"parentPhone"`
	Reason       flexString `json:"reason"`
	DateLeft     flexString `json:"dateLeft"`
	LastClassID  flexString `json:"lastClassId"`
	AcademicYear flexString `json:"academicYear"`
}

func (r alumniRow) model() models.Alumni {
	return models.Alumni{
		ID:           string(r.ID),
		NISN:         string(r.NISN),
		Name:         string(r.Name),
		Gender:       string(r.Gender),
		ClassID:      string(r.ClassID),
		ParentPhone:  string(r.ParentPhone),
		Reason:       models.AlumniReason(r.Reason),
		DateLeft:     schoolday.Normalize(string(r.DateLeft)),
		LastClassID:  string(r.LastClassID),
		AcademicYear: string(r.AcademicYear),
	}
}

type holidayRow struct {
	ID          flexString `json:"id"`
	Date        flexString `json:"date"`
	Description flexString `json:"description"`
}

func (r holidayRow) model() models.Holiday {
	return models.Holiday{
		ID:          string(r.ID),
		Date:        schoolday.Normalize(string(r.Date)),
		Description: string(r.Description),
	}
}

type yearRow struct {
	ID     flexString `json:"id"`
	Name   flexString `json:"name"`
	Active flexBool   `json:"isActive"`
}

func (r yearRow) model() models.AcademicYear {
	return models.AcademicYear{ID: string(r.ID), Name: string(r.Name), Active: bool(r.Active)}
}

type headmasterRow struct {
	Name flexString `json:"name"`
	NIP  flexString `json:"nip"`
}

func (r headmasterRow) model() models.Headmaster {
	return models.Headmaster{Name: string(r.Name), NIP: string(r.NIP)}
}

// readResponse is the remote's full-contents document. Pointer slices
// distinguish an absent collection (left untouched locally) from an empty
// one (replaces the local collection with nothing).
type readResponse struct {
	Students      *[]studentRow    `json:"Students"`
	Teachers      *[]teacherRow    `json:"Teachers"`
	Attendance    *[]attendanceRow `json:"Attendance"`
	Alumni        *[]alumniRow     `json:"Alumni"`
	Holidays      *[]holidayRow    `json:"Holidays"`
	AcademicYears *[]yearRow       `json:"AcademicYears"`
	Headmaster    *[]headmasterRow `json:"Headmaster"`
}

// RemoteData holds the decoded remote collections. Nil fields were absent
// from the response.
type RemoteData struct {
	Students      *[]models.Student
	Teachers      *[]models.Teacher
	Attendance    *[]models.AttendanceRecord
	Alumni        *[]models.Alumni
	Holidays      *[]models.Holiday
	AcademicYears *[]models.AcademicYear
	Headmaster    *models.Headmaster
}

func decodeRemote(data []byte) (*RemoteData, error) {
	var raw readResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode remote document: %w", err)
	}
	out := &RemoteData{}
	if raw.Students != nil {
		rows := make([]models.Student, len(*raw.Students))
		for i, r := range *raw.Students {
			rows[i] = r.model()
		}
		out.Students = &rows
	}
	if raw.Teachers != nil {
		rows := make([]models.Teacher, len(*raw.Teachers))
		for i, r := range *raw.Teachers {
			rows[i] = r.model()
		}
		out.Teachers = &rows
	}
	if raw.Attendance != nil {
		rows := make([]models.AttendanceRecord, len(*raw.Attendance))
		for i, r := range *raw.Attendance {
			rows[i] = r.model()
		}
		out.Attendance = &rows
	}
	if raw.Alumni != nil {
		rows := make([]models.Alumni, len(*raw.Alumni))
		for i, r := range *raw.Alumni {
			rows[i] = r.model()
		}
		out.Alumni = &rows
	}
	if raw.Holidays != nil {
		rows := make([]models.Holiday, len(*raw.Holidays))
		for i, r := range *raw.Holidays {
			rows[i] = r.model()
		}
		out.Holidays = &rows
	}
	if raw.AcademicYears != nil {
		rows := make([]models.AcademicYear, len(*raw.AcademicYears))
		for i, r := range *raw.AcademicYears {
			rows[i] = r.model()
		}
		out.AcademicYears = &rows
	}
	if raw.Headmaster != nil && len(*raw.Headmaster) > 0 {
		h := (*raw.Headmaster)[0].model()
		out.Headmaster = &h
	}
	return out, nil
}

// ApplyTo replaces each local collection present in the remote document and
// leaves absent collections untouched. Sync metadata is never overwritten.
func (r *RemoteData) ApplyTo(snap *models.Snapshot) {
	if r.Students != nil {
		snap.Students = *r.Students
	}
	if r.Teachers != nil {
		snap.Teachers = *r.Teachers
	}
	if r.Attendance != nil {
		snap.Attendance = *r.Attendance
	}
	if r.Alumni != nil {
		snap.Alumni = *r.Alumni
	}
	if r.Holidays != nil {
		snap.Holidays = *r.Holidays
	}
	if r.AcademicYears != nil {
		snap.AcademicYears = *r.AcademicYears
	}
	if r.Headmaster != nil {
		snap.Headmaster = *r.Headmaster
	}
}
