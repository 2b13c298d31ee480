package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

var indonesianDays = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// MessageService composes WhatsApp notification texts and wa.me links for
// parents and class recaps.
type MessageService struct {
	store      *store.Store
	schoolName string
	logger     *zap.Logger
}

// NewMessageService constructs the message service.
func NewMessageService(st *store.Store, schoolName string, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{store: st, schoolName: schoolName, logger: logger}
}

// FormatPhone normalizes an Indonesian phone number to the international
// 62-prefixed form WhatsApp expects. Digits only; 08xx becomes 628xx.
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "62"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return "62" + digits[1:]
	case strings.HasPrefix(digits, "8"):
		return "62" + digits
	default:
		return digits
	}
}

// ParentMessage is the composed notification for one student's status.
type ParentMessage struct {
	StudentID string `json:"studentId"`
	Phone     string `json:"phone"`
	Text      string `json:"text"`
	WaLink    string `json:"waLink"`
}

func formatLongDate(d schoolday.Date) string {
	return fmt.Sprintf("%s, %d %s %d", indonesianDays[int(d.Weekday())], d.Day, monthNames[d.Month-1], d.Year)
}

// ComposeParent builds the parent notification for a student on a given date.
// The text mirrors what the homeroom teacher sends by hand.
func (s *MessageService) ComposeParent(ctx context.Context, studentID, date string) (*ParentMessage, error) {
	student, ok := s.store.FindStudent(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if strings.TrimSpace(student.ParentPhone) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no parent phone number")
	}
	day, err := schoolday.Parse(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	status := models.AttendanceStatusNone
	key := models.AttendanceID(student.ID, day.String())
	for _, r := range s.store.Attendance() {
		if r.ID == key || (r.StudentID == student.ID && schoolday.Normalize(r.Date) == day.String()) {
			status = r.Status
			break
		}
	}
	if status == models.AttendanceStatusNone {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance record for that date")
	}

	text := fmt.Sprintf(
		"Assalamu'alaikum Wr. Wb.\n\nYth. Bapak/Ibu Wali Murid dari ananda *%s* (Kelas %s).\n\nKami informasikan bahwa pada hari %s, ananda tercatat *%s*.\n\nDemikian informasi dari kami, terima kasih.\n\nHormat kami,\nWali Kelas %s\n%s",
		student.Name, student.ClassID, formatLongDate(day), status.Label(), student.ClassID, s.schoolName,
	)
	phone := FormatPhone(student.ParentPhone)
	return &ParentMessage{
		StudentID: student.ID,
		Phone:     phone,
		Text:      text,
		WaLink:    "https://wa.me/" + phone + "?text=" + url.QueryEscape(text),
	}, nil
}

// RecapMessage is the composed class recap text for one day.
type RecapMessage struct {
	ClassID string `json:"classId"`
	Date    string `json:"date"`
	Text    string `json:"text"`
}

// ComposeRecap builds the daily class recap that homeroom teachers forward to
// the teachers group. Absent names are listed per status.
func (s *MessageService) ComposeRecap(ctx context.Context, classID, date string) (*RecapMessage, error) {
	day, err := schoolday.Parse(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	statusByStudent := make(map[string]models.AttendanceStatus)
	for _, r := range s.store.Attendance() {
		if schoolday.Normalize(r.Date) == day.String() {
			statusByStudent[r.StudentID] = r.Status
		}
	}

	total, hadir := 0, 0
	var sakit, izin, alpa, unmarked []string
	for _, st := range s.store.Students() {
		if !st.Active || st.ClassID != classID {
			continue
		}
		total++
		switch statusByStudent[st.ID] {
		case models.AttendanceStatusHadir:
			hadir++
		case models.AttendanceStatusSakit:
			sakit = append(sakit, st.Name)
		case models.AttendanceStatusIzin:
			izin = append(izin, st.Name)
		case models.AttendanceStatusAlpa:
			alpa = append(alpa, st.Name)
		default:
			unmarked = append(unmarked, st.Name)
		}
	}
	if total == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class has no active students")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*REKAP ABSENSI KELAS %s*\n%s\n%s\n\n", classID, s.schoolName, formatLongDate(day))
	fmt.Fprintf(&b, "Jumlah Siswa: %d\nHadir: %d\nSakit: %d\nIzin: %d\nAlpa: %d\n", total, hadir, len(sakit), len(izin), len(alpa))
	writeNames := func(label string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n*%s:*\n", label)
		for i, n := range names {
			fmt.Fprintf(&b, "%d. %s\n", i+1, n)
		}
	}
	writeNames("Sakit", sakit)
	writeNames("Izin", izin)
	writeNames("Alpa", alpa)
	writeNames("Belum Diabsen", unmarked)

	return &RecapMessage{ClassID: classID, Date: day.String(), Text: b.String()}, nil
}
