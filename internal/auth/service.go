package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/jwtkeys"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/tracing"
)

// Service handles authentication business logic
type Service struct {
	repo       RepositoryInterface
	keyManager *jwtkeys.Manager
	resolver   *settings.Resolver
}

// NewService creates a new auth service
func NewService(repo RepositoryInterface, keyManager *jwtkeys.Manager, resolver *settings.Resolver) *Service {
	return &Service{
		repo:       repo,
		keyManager: keyManager,
		resolver:   resolver,
	}
}

// Login authenticates a back-office user and returns a JWT token. When
// two-factor is enabled and the user has an enrolled secret, a valid TOTP
// code is required.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "auth-service", "Login")
	defer span.End()

	tracing.AddSpanAttributes(ctx, attribute.String("user.email", req.Email))

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, common.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return nil, common.NewUnauthorizedError("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewUnauthorizedError("invalid credentials")
	}

	security := s.securitySettings(ctx)
	if security.EnableTwoFactor && user.TOTPSecret != nil {
		if req.TOTPCode == "" {
			return nil, common.NewUnauthorizedError("two-factor code required")
		}
		if !totp.Validate(req.TOTPCode, *user.TOTPSecret) {
			return nil, common.NewUnauthorizedError("invalid two-factor code")
		}
	}

	expiresAt := time.Now().Add(time.Duration(security.SessionTimeoutMinutes) * time.Minute)

	token, err := s.generateToken(ctx, user, expiresAt)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to generate token", zap.Error(err))
		return nil, common.NewInternalError("failed to generate token", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WithContext(ctx).Warn("Failed to stamp last login", zap.Error(err))
	}

	user.PasswordHash = ""

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// GetProfile retrieves the authenticated user's profile
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfileRequest carries editable profile fields
type UpdateProfileRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile updates the authenticated user's profile
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the current password and stores a new hash. The
// minimum length comes from security settings.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return common.NewUnauthorizedError("current password is incorrect")
	}

	security := s.securitySettings(ctx)
	if len(req.NewPassword) < security.PasswordMinLength {
		return common.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", security.PasswordMinLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.NewInternalError("failed to hash password", err)
	}

	user.PasswordHash = string(hash)
	return s.repo.UpdateUser(ctx, user)
}

// TOTPEnrollment is returned when a user starts two-factor enrollment
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"` // otpauth:// provisioning URL for QR codes
}

// EnrollTOTP generates a new TOTP secret for the user
func (s *Service) EnrollTOTP(ctx context.Context, userID uuid.UUID) (*TOTPEnrollment, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "GlobalPath Education",
		AccountName: user.Email,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to generate totp secret", err)
	}

	secret := key.Secret()
	if err := s.repo.SetTOTPSecret(ctx, userID, &secret); err != nil {
		return nil, err
	}

	return &TOTPEnrollment{Secret: secret, URL: key.URL()}, nil
}

// DisableTOTP removes the user's TOTP secret after verifying a code
func (s *Service) DisableTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.TOTPSecret == nil {
		return common.NewBadRequestError("two-factor is not enrolled", nil)
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return common.NewUnauthorizedError("invalid two-factor code")
	}

	return s.repo.SetTOTPSecret(ctx, userID, nil)
}

// generateToken signs a JWT with the current rotating key
func (s *Service) generateToken(ctx context.Context, user *models.User, expiresAt time.Time) (string, error) {
	if s.keyManager == nil {
		return "", fmt.Errorf("jwt key manager is not configured")
	}

	if err := s.keyManager.EnsureRotation(ctx); err != nil {
		return "", fmt.Errorf("failed to rotate signing key: %w", err)
	}

	key, err := s.keyManager.CurrentSigningKey()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve signing key: %w", err)
	}

	secretBytes, err := key.SecretBytes()
	if err != nil {
		return "", fmt.Errorf("invalid signing key: %w", err)
	}

	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = key.ID
	tokenString, err := token.SignedString(secretBytes)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *Service) securitySettings(ctx context.Context) settings.Security {
	cfg, err := s.resolver.SecuritySettings(ctx)
	if err != nil {
		cfg = settings.Defaults().Security
	}
	return cfg
}
