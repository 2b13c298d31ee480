package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

// StudentService manages the active roster and the alumni archive.
type StudentService struct {
	store     *store.Store
	sync      *SyncService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(st *store.Store, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StudentService{store: st, sync: sync, validator: validate, logger: logger}
	svc.validator.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		g := fl.Field().String()
		return g == "L" || g == "P"
	})
	svc.validator.RegisterValidation("alumni_reason", func(fl validator.FieldLevel) bool {
		return models.AlumniReason(fl.Field().String()).Valid()
	})
	return svc
}

// CreateStudentRequest enrolls a student.
type CreateStudentRequest struct {
	NISN        string `json:"nisn" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Gender      string `json:"gender" validate:"required,gender"`
	ClassID     string `json:"class_id" validate:"required"`
	ParentPhone string `json:"parent_phone"`
}

// UpdateStudentRequest edits an enrolled student.
type UpdateStudentRequest struct {
	NISN        string `json:"nisn" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Gender      string `json:"gender" validate:"required,gender"`
	ClassID     string `json:"class_id" validate:"required"`
	ParentPhone string `json:"parent_phone"`
}

// TransferRequest archives a student out of the roster.
type TransferRequest struct {
	Reason string `json:"reason" validate:"required,alumni_reason"`
	Date   string `json:"date" validate:"required"`
}

// PromoteRequest reassigns a student to a new class.
type PromoteRequest struct {
	NewClassID string `json:"new_class_id" validate:"required"`
}

// ListFilter pages through the roster. A zero value lists the first 20.
type ListFilter struct {
	Page     int
	PageSize int
}

// List returns one roster page in insertion order with pagination metadata;
// sorting is the caller's concern.
func (s *StudentService) List(ctx context.Context, filter ListFilter) ([]models.Student, *models.Pagination) {
	all := s.store.Students()
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(all)}
	return all[start:end], pagination
}

// Get looks one student up.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	st, ok := s.store.FindStudent(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &st, nil
}

// Create enrolls a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := models.Student{
		ID:          uuid.NewString(),
		NISN:        req.NISN,
		Name:        req.Name,
		Gender:      req.Gender,
		ClassID:     req.ClassID,
		ParentPhone: req.ParentPhone,
		Active:      true,
	}
	s.store.AddStudent(student)
	s.sync.TriggerPush()
	return &student, nil
}

// Update replaces the student record by id.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	cur, ok := s.store.FindStudent(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	cur.NISN = req.NISN
	cur.Name = req.Name
	cur.Gender = req.Gender
	cur.ClassID = req.ClassID
	cur.ParentPhone = req.ParentPhone
	s.store.UpdateStudent(cur)
	s.sync.TriggerPush()
	return &cur, nil
}

// Delete hard-deletes a student from the roster.
func (s *StudentService) Delete(ctx context.Context, id string) {
	s.store.DeleteStudent(id)
	s.sync.TriggerPush()
}

// Promote moves a student to a new class without touching attendance history.
func (s *StudentService) Promote(ctx context.Context, id string, req PromoteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid promotion payload")
	}
	s.store.PromoteStudent(id, req.NewClassID)
	s.sync.TriggerPush()
	return nil
}

// Transfer archives a student into the alumni collection. Unknown ids are a
// no-op observed as success, matching the store's missing-reference policy.
func (s *StudentService) Transfer(ctx context.Context, id string, req TransferRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}
	date, err := schoolday.Parse(req.Date)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	if s.store.TransferToAlumni(id, models.AlumniReason(req.Reason), date.String()) {
		s.sync.TriggerPush()
	}
	return nil
}

// Alumni lists the archived roster.
func (s *StudentService) Alumni(ctx context.Context) []models.Alumni {
	return s.store.Alumni()
}

// Import parses tab-separated lines ("name\tnisn\tgender\tphone") pasted from
// a spreadsheet and enrolls one student per well-formed line into classID.
// Malformed lines are skipped individually; the success count is returned.
func (s *StudentService) Import(ctx context.Context, classID, text string) int {
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		gender := "L"
		if len(parts) > 2 && strings.TrimSpace(parts[2]) == "P" {
			gender = "P"
		}
		phone := ""
		if len(parts) > 3 {
			phone = strings.TrimSpace(parts[3])
		}
		s.store.AddStudent(models.Student{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(parts[0]),
			NISN:        strings.TrimSpace(parts[1]),
			Gender:      gender,
			ClassID:     classID,
			ParentPhone: phone,
			Active:      true,
		})
		count++
	}
	if count > 0 {
		s.sync.TriggerPush()
	}
	s.logger.Info("student import finished", zap.String("class_id", classID), zap.Int("imported", count))
	return count
}
