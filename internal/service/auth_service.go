package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const (
	minPasswordLength = 8
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *domain.Admin
}

// RegisterInput carries the fields needed to create an admin.
type RegisterInput struct {
	Username string      `json:"username" validate:"required,min=3,max=50"`
	Email    string      `json:"email" validate:"required,email,max=254"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Name     string      `json:"name" validate:"required,max=100"`
	Role     domain.Role `json:"role" validate:"required,role"`
}

// ProfileInput carries the mutable profile fields. Nil fields are left unchanged.
type ProfileInput struct {
	Name  *string
	Email *string
}

// AuthService describes admin authentication and account operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Admin, error)
	Profile(ctx context.Context, adminID string) (*domain.Admin, error)
	UpdateProfile(ctx context.Context, adminID string, input ProfileInput) (*domain.Admin, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	Register(ctx context.Context, input RegisterInput) (*domain.Admin, error)
	// EnsureBootstrapAdmin creates the given super admin unless the username already exists.
	// The boolean reports whether an account was created.
	EnsureBootstrapAdmin(ctx context.Context, input RegisterInput) (*domain.Admin, bool, error)
	// SetActive enables or disables the named admin. A disabled admin fails every
	// authenticated request, including ones carrying a token issued earlier.
	SetActive(ctx context.Context, username string, active bool) (*domain.Admin, error)
}

// AuthOptions tunes the auth service.
type AuthOptions struct {
	BcryptCost int
	Logger     logrus.FieldLogger
	Now        func() time.Time
}

type authService struct {
	admins   repository.AdminRepository
	tokens   *TokenIssuer
	validate *validator.Validate
	cost     int
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(admins repository.AdminRepository, tokens *TokenIssuer, opts AuthOptions) AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &authService{
		admins:   admins,
		tokens:   tokens,
		validate: newValidator(),
		cost:     opts.BcryptCost,
		log:      opts.Logger.WithField("component", "auth"),
		now:      opts.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "username", Message: "username and password are required"},
		}}
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.WithField("username", username).Warn("login rejected: unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive {
		s.log.WithField("username", username).Warn("login rejected: account inactive")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("username", username).Warn("login rejected: password mismatch")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, err
	}
	admin.LastLogin = &now

	token, exp, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"admin_id": admin.ID, "username": admin.Username}).Info("admin logged in")
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		Admin:     sanitizeAdmin(admin),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Admin, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrUnauthorized
	}
	return sanitizeAdmin(admin), nil
}

func (s *authService) Profile(ctx context.Context, adminID string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeAdmin(admin), nil
}

func (s *authService) UpdateProfile(ctx context.Context, adminID string, input ProfileInput) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	next := struct {
		Name  string `json:"name" validate:"required,max=100"`
		Email string `json:"email" validate:"required,email,max=254"`
	}{Name: admin.Name, Email: admin.Email}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		next.Email = normalizeEmail(*input.Email)
	}
	if err := validateStruct(s.validate, next); err != nil {
		return nil, err
	}

	if err := s.admins.UpdateProfile(ctx, admin.ID, next.Name, next.Email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	admin.Name = next.Name
	admin.Email = next.Email
	return sanitizeAdmin(admin), nil
}

func (s *authService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return newValidationError("newPassword", "current and new password are required")
	}
	if len(newPassword) < minPasswordLength {
		return newValidationError("newPassword", fmt.Sprintf("newPassword must be at least %d characters", minPasswordLength))
	}
	if err := checkPasswordBytes("newPassword", newPassword); err != nil {
		return err
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}
	s.log.WithField("admin_id", admin.ID).Info("admin password changed")
	return nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.Admin, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if input.Role == "" {
		input.Role = domain.RoleAdmin
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if err := checkPasswordBytes("password", input.Password); err != nil {
		return nil, err
	}

	exists, err := s.admins.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdminExists
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"admin_id": admin.ID, "username": admin.Username, "role": admin.Role}).Info("admin registered")
	return sanitizeAdmin(admin), nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context, input RegisterInput) (*domain.Admin, bool, error) {
	existing, err := s.admins.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err == nil {
		return sanitizeAdmin(existing), false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	input.Role = domain.RoleSuperAdmin
	admin, err := s.Register(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

func (s *authService) SetActive(ctx context.Context, username string, active bool) (*domain.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.admins.SetActive(ctx, admin.ID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	admin.IsActive = active
	s.log.WithFields(logrus.Fields{"admin_id": admin.ID, "username": admin.Username, "active": active}).Info("admin activation changed")
	return sanitizeAdmin(admin), nil
}

func (s *authService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", newValidationError("password", fmt.Sprintf("password cannot exceed %d bytes", maxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkPasswordBytes bounds the encoded length; multi-byte characters count more than once.
func checkPasswordBytes(field, password string) error {
	if len(password) > maxPasswordBytes {
		return newValidationError(field, fmt.Sprintf("%s cannot exceed %d bytes", field, maxPasswordBytes))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeAdmin(admin *domain.Admin) *domain.Admin {
	if admin == nil {
		return nil
	}
	out := *admin
	out.PasswordHash = ""
	return &out
}
