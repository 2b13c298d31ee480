package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

// AttendanceService guards the attendance gate and coordinates marking.
type AttendanceService struct {
	store     *store.Store
	sync      *SyncService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(st *store.Store, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{store: st, sync: sync, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// MarkEntry is one student's status in a marking batch.
type MarkEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// MarkAttendanceRequest marks a whole class sheet for one date. The batch is
// rejected as a whole when the date is gated.
type MarkAttendanceRequest struct {
	Date    string      `json:"date" validate:"required"`
	Entries []MarkEntry `json:"entries" validate:"required,min=1,dive"`
}

// Mark validates the batch against the gate and active year, then replaces
// the (studentID, date) records. Returns the number of records written;
// entries with status "-" clear nothing and are skipped.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	date, err := schoolday.Parse(req.Date)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	if reason, off := schoolday.DayOff(date, s.store.Holidays()); off {
		return 0, appErrors.Clone(appErrors.ErrDayOff, "attendance is closed: "+reason)
	}

	year, ok := s.store.ActiveYear()
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrNoActiveYear, "set an active academic year first")
	}

	day := date.String()
	records := make([]models.AttendanceRecord, 0, len(req.Entries))
	for _, e := range req.Entries {
		status := models.AttendanceStatus(strings.ToUpper(e.Status))
		if status == models.AttendanceStatusNone {
			continue
		}
		records = append(records, models.AttendanceRecord{
			ID:           models.AttendanceID(e.StudentID, day),
			StudentID:    e.StudentID,
			Date:         day,
			Status:       status,
			AcademicYear: year.Name,
		})
	}

	s.store.MarkAttendance(records)
	s.sync.TriggerPush()
	s.logger.Info("attendance marked", zap.String("date", day), zap.Int("records", len(records)))
	return len(records), nil
}

// DaySheetEntry is one roster line on the day view.
type DaySheetEntry struct {
	StudentID   string                  `json:"student_id"`
	NISN        string                  `json:"nisn"`
	Name        string                  `json:"name"`
	ParentPhone string                  `json:"parent_phone,omitempty"`
	Status      models.AttendanceStatus `json:"status"`
}

// DaySheet is the per-class attendance view for one date.
type DaySheet struct {
	Date      string          `json:"date"`
	ClassID   string          `json:"class_id"`
	DayOff    bool            `json:"day_off"`
	OffReason string          `json:"off_reason,omitempty"`
	Entries   []DaySheetEntry `json:"entries"`
}

// Sheet assembles the day view: every active student of the class with their
// recorded status for the date, sorted by name for presentation.
func (s *AttendanceService) Sheet(ctx context.Context, classID, rawDate string) (*DaySheet, error) {
	date, err := schoolday.Parse(rawDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	day := date.String()

	sheet := &DaySheet{Date: day, ClassID: classID}
	if reason, off := schoolday.DayOff(date, s.store.Holidays()); off {
		sheet.DayOff = true
		sheet.OffReason = reason
	}

	statusByStudent := make(map[string]models.AttendanceStatus)
	for _, r := range s.store.Attendance() {
		if schoolday.Normalize(r.Date) == day {
			statusByStudent[r.StudentID] = r.Status
		}
	}

	for _, st := range s.store.Students() {
		if !st.Active || st.ClassID != classID {
			continue
		}
		status, ok := statusByStudent[st.ID]
		if !ok {
			status = models.AttendanceStatusNone
		}
		sheet.Entries = append(sheet.Entries, DaySheetEntry{
			StudentID:   st.ID,
			NISN:        st.NISN,
			Name:        st.Name,
			ParentPhone: st.ParentPhone,
			Status:      status,
		})
	}
	sort.Slice(sheet.Entries, func(i, j int) bool { return sheet.Entries[i].Name < sheet.Entries[j].Name })
	return sheet, nil
}

// Recap summarises one class day for the group chat message.
type Recap struct {
	Date     string   `json:"date"`
	ClassID  string   `json:"class_id"`
	Hadir    int      `json:"hadir"`
	Sakit    []string `json:"sakit"`
	Izin     []string `json:"izin"`
	Alpa     []string `json:"alpa"`
	Unmarked int      `json:"unmarked"`
}

// DayRecap tallies the day sheet by status.
func (s *AttendanceService) DayRecap(ctx context.Context, classID, rawDate string) (*Recap, error) {
	sheet, err := s.Sheet(ctx, classID, rawDate)
	if err != nil {
		return nil, err
	}
	recap := &Recap{Date: sheet.Date, ClassID: classID}
	for _, e := range sheet.Entries {
		switch e.Status {
		case models.AttendanceStatusHadir:
			recap.Hadir++
		case models.AttendanceStatusSakit:
			recap.Sakit = append(recap.Sakit, e.Name)
		case models.AttendanceStatusIzin:
			recap.Izin = append(recap.Izin, e.Name)
		case models.AttendanceStatusAlpa:
			recap.Alpa = append(recap.Alpa, e.Name)
		default:
			recap.Unmarked++
		}
	}
	return recap, nil
}
