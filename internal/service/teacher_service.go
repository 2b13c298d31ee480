package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

// TeacherService manages the staff roster. At most one homeroom teacher per
// class is expected but not enforced, matching the data model.
type TeacherService struct {
	store     *store.Store
	sync      *SyncService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(st *store.Store, sync *SyncService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: st, sync: sync, validator: validate, logger: logger}
}

// TeacherRequest creates or updates a teacher.
type TeacherRequest struct {
	Name     string `json:"name" validate:"required"`
	NIP      string `json:"nip" validate:"required"`
	ClassID  string `json:"class_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// List returns the staff roster in insertion order.
func (s *TeacherService) List(ctx context.Context) []models.Teacher {
	return s.store.Teachers()
}

// Create registers a teacher.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := models.Teacher{
		ID:       uuid.NewString(),
		Name:     req.Name,
		NIP:      req.NIP,
		ClassID:  req.ClassID,
		Username: req.Username,
		Password: req.Password,
	}
	s.store.AddTeacher(teacher)
	s.sync.TriggerPush()
	return &teacher, nil
}

// Update replaces a teacher record by id.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	cur, ok := s.store.FindTeacher(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	cur.Name = req.Name
	cur.NIP = req.NIP
	cur.ClassID = req.ClassID
	cur.Username = req.Username
	if req.Password != "" {
		cur.Password = req.Password
	}
	s.store.UpdateTeacher(cur)
	s.sync.TriggerPush()
	return &cur, nil
}

// Delete removes a teacher by id.
func (s *TeacherService) Delete(ctx context.Context, id string) {
	s.store.DeleteTeacher(id)
	s.sync.TriggerPush()
}

// Headmaster returns the singleton headmaster record.
func (s *TeacherService) Headmaster(ctx context.Context) models.Headmaster {
	return s.store.Headmaster()
}

// HeadmasterRequest updates the singleton headmaster record.
type HeadmasterRequest struct {
	Name string `json:"name" validate:"required"`
	NIP  string `json:"nip" validate:"required"`
}

// SetHeadmaster replaces the headmaster record.
func (s *TeacherService) SetHeadmaster(ctx context.Context, req HeadmasterRequest) (*models.Headmaster, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid headmaster payload")
	}
	h := models.Headmaster{Name: req.Name, NIP: req.NIP}
	s.store.SetHeadmaster(h)
	s.sync.TriggerPush()
	return &h, nil
}
