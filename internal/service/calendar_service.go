package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

var importDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CalendarService manages holidays and academic years.
type CalendarService struct {
	store     *store.Store
	sync      *SyncService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the calendar service.
func NewCalendarService(st *store.Store, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{store: st, sync: sync, validator: validate, logger: logger}
}

// HolidayRequest declares one non-attendance day.
type HolidayRequest struct {
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Holidays lists declared holidays in insertion order.
func (s *CalendarService) Holidays(ctx context.Context) []models.Holiday {
	return s.store.Holidays()
}

// AddHoliday declares a holiday. Duplicate dates are tolerated: gating only
// needs any match, the listing UI simply shows both rows.
func (s *CalendarService) AddHoliday(ctx context.Context, req HolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, err := schoolday.Parse(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	h := models.Holiday{ID: uuid.NewString(), Date: date.String(), Description: req.Description}
	s.store.AddHoliday(h)
	s.sync.TriggerPush()
	return &h, nil
}

// DeleteHoliday removes a holiday by id.
func (s *CalendarService) DeleteHoliday(ctx context.Context, id string) {
	s.store.DeleteHoliday(id)
	s.sync.TriggerPush()
}

// ImportHolidays parses tab-separated "YYYY-MM-DD\tdescription" lines and
// adds one holiday per well-formed line, skipping malformed lines. Returns
// the success count.
func (s *CalendarService) ImportHolidays(ctx context.Context, text string) int {
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		date := strings.TrimSpace(parts[0])
		desc := strings.TrimSpace(parts[1])
		if !importDatePattern.MatchString(date) || desc == "" {
			continue
		}
		s.store.AddHoliday(models.Holiday{ID: uuid.NewString(), Date: date, Description: desc})
		count++
	}
	if count > 0 {
		s.sync.TriggerPush()
	}
	s.logger.Info("holiday import finished", zap.Int("imported", count))
	return count
}

// YearRequest names a new academic year.
type YearRequest struct {
	Name string `json:"name" validate:"required"`
}

// Years lists academic years in insertion order.
func (s *CalendarService) Years(ctx context.Context) []models.AcademicYear {
	return s.store.AcademicYears()
}

// AddYear appends an inactive academic year.
func (s *CalendarService) AddYear(ctx context.Context, req YearRequest) (*models.AcademicYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic year payload")
	}
	y := models.AcademicYear{ID: uuid.NewString(), Name: req.Name}
	s.store.AddAcademicYear(y)
	s.sync.TriggerPush()
	return &y, nil
}

// ActivateYear marks the given year active and deactivates the rest.
func (s *CalendarService) ActivateYear(ctx context.Context, id string) {
	s.store.SetActiveAcademicYear(id)
	s.sync.TriggerPush()
}

// DeleteYear removes an academic year; deleting the active one is refused.
func (s *CalendarService) DeleteYear(ctx context.Context, id string) error {
	if err := s.store.DeleteAcademicYear(id); err != nil {
		if errors.Is(err, store.ErrActiveYearDelete) {
			return appErrors.Clone(appErrors.ErrActiveYearDelete, "deactivate the year before deleting it")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete academic year")
	}
	s.sync.TriggerPush()
	return nil
}
