package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

// AdminUsername is the built-in administrator account name.
const AdminUsername = "admin"

// AuthConfig defines token issuance settings.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService resolves credentials against the store and issues JWTs. Three
// identities exist: the built-in admin, homeroom teachers with username and
// password, and parents who log in with their child's NISN.
type AuthService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(st *store.Store, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{store: st, validator: validate, logger: logger, config: config}
}

// passwordMatches accepts both bcrypt hashes and the plain seed passwords so
// accounts created before hashing was introduced keep working.
func passwordMatches(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored != "" && stored == candidate
}

// Login authenticates a role-scoped credential and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	var user models.UserInfo
	switch role {
	case models.RoleAdmin:
		teacher, ok := s.store.FindTeacherByUsername(req.Username)
		if !ok || req.Username != AdminUsername || !passwordMatches(teacher.Password, req.Password) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		user = models.UserInfo{ID: teacher.ID, Name: teacher.Name, Role: models.RoleAdmin}
	case models.RoleWaliKelas:
		teacher, ok := s.store.FindTeacherByUsername(req.Username)
		if !ok || teacher.ClassID == "" || !passwordMatches(teacher.Password, req.Password) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		user = models.UserInfo{ID: teacher.ID, Name: teacher.Name, Role: models.RoleWaliKelas, ClassID: teacher.ClassID}
	case models.RoleOrangTua:
		student, ok := s.store.FindStudentByNISN(strings.TrimSpace(req.Username))
		if !ok || !student.Active {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "NISN not registered")
		}
		user = models.UserInfo{ID: student.ID, Name: "Wali Murid " + student.Name, Role: models.RoleOrangTua, ClassID: student.ClassID}
	}

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		UserID:  user.ID,
		Role:    user.Role,
		Name:    user.Name,
		ClassID: user.ClassID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("login succeeded", zap.String("role", string(user.Role)), zap.String("user_id", user.ID))
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    issuedAt,
		User:        user,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ChangePassword updates a teacher account password, storing a bcrypt hash.
func (s *AuthService) ChangePassword(ctx context.Context, teacherID, oldPassword, newPassword string) error {
	if len(newPassword) < 5 {
		return appErrors.Clone(appErrors.ErrValidation, "new password must be at least 5 characters")
	}
	teacher, ok := s.store.FindTeacher(teacherID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if !passwordMatches(teacher.Password, oldPassword) {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	teacher.Password = string(hash)
	s.store.UpdateTeacher(teacher)
	return nil
}
