package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/config"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/mail"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

// RegisterStudentInput carries a student registration payload.
type RegisterStudentInput struct {
	Name         string
	Email        string
	Password     string
	MobileNumber string
	RollNumber   string
	CourseID     string
	SessionLabel string
	Semester     int
}

// RegisterFacultyInput carries a faculty registration payload.
type RegisterFacultyInput struct {
	Name         string
	Email        string
	Password     string
	MobileNumber string
	FacultyCode  string
	Department   string
	Designation  string
	CourseID     string
}

// AuthService coordinates registration, login, token refresh and the
// password-reset lifecycle.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	mailer      mail.Mailer
	logger      *zap.Logger
	bcryptCost  int
	resetTTL    time.Duration
	frontendURL string
}

// NewAuthService builds the service.
func NewAuthService(cfg *config.Config, users repository.UserRepository, mailer mail.Mailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users: users,
		tokenMgr: auth.NewTokenManager(
			cfg.Auth.AccessSecret,
			cfg.Auth.RefreshSecret,
			cfg.Auth.AccessTokenTTL(),
			cfg.Auth.RefreshTokenTTL(),
		),
		mailer:      mailer,
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		resetTTL:    cfg.Auth.PasswordResetTTL(),
		frontendURL: cfg.Mail.FrontendURL,
	}
}

// RegisterStudent creates a student account pending admin activation.
// Duplicate email or roll number is a conflict.
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*domain.User, error) {
	exists, err := s.users.ExistsStudent(ctx, input.Email, input.RollNumber)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("user already exists", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		MobileNumber: input.MobileNumber,
		Role:         domain.RoleStudent,
		IsActive:     false,
		RollNumber:   &input.RollNumber,
		CourseID:     &input.CourseID,
		SessionLabel: &input.SessionLabel,
		Semester:     &input.Semester,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// RegisterFaculty creates a faculty account pending admin activation.
// Duplicate email or faculty code is a conflict.
func (s *AuthService) RegisterFaculty(ctx context.Context, input RegisterFacultyInput) (*domain.User, error) {
	exists, err := s.users.ExistsFaculty(ctx, input.Email, input.FacultyCode)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("user already exists", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		MobileNumber: input.MobileNumber,
		Role:         domain.RoleFaculty,
		IsActive:     false,
		FacultyCode:  &input.FacultyCode,
		Department:   &input.Department,
		Designation:  &input.Designation,
		CourseID:     &input.CourseID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates any account variant by email and issues a token pair.
// Inactive accounts cannot authenticate.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewUnauthorized("user is not active")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid email or password")
	}

	pair, err := s.tokenMgr.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return user, pair, nil
}

// Refresh rotates the token pair given a valid refresh token. This is a
// stateless rotation; no revocation list exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("user is not active")
	}

	pair, err := s.tokenMgr.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return pair, nil
}

// Profile returns the authenticated user's record.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetUserByRole fetches a user and checks the expected variant.
func (s *AuthService) GetUserByRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, apperrors.NewNotFound(string(role), nil)
	}
	return user, nil
}

// ForgotPassword stores a hashed one-time reset token with a short expiry
// and mails the raw token to the account's address.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	raw, hash, err := auth.NewResetToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	expires := time.Now().Add(s.resetTTL)
	user.ResetTokenHash = &hash
	user.ResetExpiresAt = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	subject, html := mail.PasswordResetHTML(user.Name, s.frontendURL, raw)
	if err := s.mailer.Send(ctx, user.Email, subject, html); err != nil {
		s.logger.Error("password reset mail failed", zap.String("email", user.Email), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ResetPassword consumes a raw reset token. The stored token/expiry are
// cleared on success, so the same raw token cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := auth.HashResetToken(rawToken)
	user, err := s.users.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid or expired reset token")
		}
		return apperrors.MapError(err)
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}

	newHash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = newHash
	user.ResetTokenHash = nil
	user.ResetExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// SetUserActive flips the activation flag; admin only at the route level.
func (s *AuthService) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListPendingVerifications returns accounts awaiting admin activation.
func (s *AuthService) ListPendingVerifications(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListInactive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
