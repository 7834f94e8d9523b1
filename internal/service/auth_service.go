package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/pkg/config"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/rut"
)

type authProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type otpStore interface {
	Save(ctx context.Context, email string, challenge *models.OTPChallenge, ttl time.Duration) error
	Find(ctx context.Context, email string) (*models.OTPChallenge, error)
	RecordAttempt(ctx context.Context, email string, challenge *models.OTPChallenge) error
	Delete(ctx context.Context, email string) error
}

// RegisterRequest starts a signup: profile details plus an emailed code.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=3"`
	RUT      string `json:"rut" validate:"required"`
}

// RequestCodeRequest starts a login for an existing profile.
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyRequest exchanges an emailed code for a session token.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// Session is the result of a successful verification.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

// AuthService implements passwordless email authentication. A request
// stores a bcrypt-hashed one-time code in Redis under the email with a
// TTL; verification checks the code, creates the profile on first
// signup, and issues a JWT session.
type AuthService struct {
	profiles  authProfileRepository
	otps      otpStore
	mailer    Mailer
	jwtCfg    config.JWTConfig
	otpCfg    config.OTPConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs AuthService.
func NewAuthService(profiles authProfileRepository, otps otpStore, mailer Mailer, jwtCfg config.JWTConfig, otpCfg config.OTPConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		profiles:  profiles,
		otps:      otps,
		mailer:    mailer,
		jwtCfg:    jwtCfg,
		otpCfg:    otpCfg,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Register begins a signup for a new profile. The account itself is
// not created until the code is verified, so abandoned signups leave
// nothing behind but an expiring Redis key.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if !rut.Valid(req.RUT) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid RUT")
	}

	if _, err := s.profiles.FindByEmail(ctx, req.Email); err == nil {
		return appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	if err := s.checkResendWindow(ctx, req.Email); err != nil {
		return err
	}

	return s.issueChallenge(ctx, req.Email, &models.OTPChallenge{
		Signup:   true,
		FullName: req.FullName,
		RUT:      rut.Normalize(req.RUT),
	})
}

// RequestCode begins a login for an existing profile. To avoid leaking
// which emails are registered, an unknown email gets the same success
// response with no code sent.
func (s *AuthService) RequestCode(ctx context.Context, req RequestCodeRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if _, err := s.profiles.FindByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("login code requested for unknown email", zap.String("email", req.Email))
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	if err := s.checkResendWindow(ctx, req.Email); err != nil {
		return err
	}

	return s.issueChallenge(ctx, req.Email, &models.OTPChallenge{})
}

// Verify exchanges a code for a session. Signup challenges create the
// profile here, on the first successful verification.
func (s *AuthService) Verify(ctx context.Context, req VerifyRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}

	challenge, err := s.otps.Find(ctx, req.Email)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load challenge")
	}
	if challenge == nil {
		return nil, appErrors.ErrInvalidCode
	}
	if challenge.Attempts >= s.otpCfg.MaxAttempts {
		return nil, appErrors.ErrRateLimited
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(req.Code)); err != nil {
		if recErr := s.otps.RecordAttempt(ctx, req.Email, challenge); recErr != nil {
			s.logger.Warn("failed to record otp attempt", zap.Error(recErr))
		}
		return nil, appErrors.ErrInvalidCode
	}

	profile, err := s.resolveProfile(ctx, req.Email, challenge)
	if err != nil {
		return nil, err
	}

	if err := s.otps.Delete(ctx, req.Email); err != nil {
		s.logger.Warn("failed to delete otp challenge", zap.Error(err))
	}

	session, err := s.issueSession(profile)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session issued",
		zap.String("profile_id", profile.ID),
		zap.String("role", string(profile.Role)),
	)
	return session, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) resolveProfile(ctx context.Context, email string, challenge *models.OTPChallenge) (*models.Profile, error) {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if !challenge.Signup {
		// Login challenge for an email whose profile vanished mid-flight.
		return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
	}

	profile = &models.Profile{
		AuthUserID: uuid.NewString(),
		FullName:   challenge.FullName,
		Email:      email,
		RUT:        challenge.RUT,
		Role:       models.RoleStudent,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", zap.String("profile_id", profile.ID), zap.String("email", email))
	return profile, nil
}

func (s *AuthService) issueChallenge(ctx context.Context, email string, challenge *models.OTPChallenge) error {
	code, err := generateCode(s.otpCfg.Length)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash code")
	}

	challenge.CodeHash = string(hash)
	challenge.IssuedAt = s.now().UTC()
	if err := s.otps.Save(ctx, email, challenge, s.otpCfg.TTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.logger.Error("failed to dispatch otp email", zap.String("email", email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send code")
	}
	return nil
}

// checkResendWindow throttles repeated code requests for an email.
func (s *AuthService) checkResendWindow(ctx context.Context, email string) error {
	existing, err := s.otps.Find(ctx, email)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load challenge")
	}
	if existing != nil && s.now().UTC().Sub(existing.IssuedAt) < s.otpCfg.ResendAfter {
		return appErrors.ErrRateLimited
	}
	return nil
}

func (s *AuthService) issueSession(profile *models.Profile) (*Session, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.jwtCfg.Expiration)
	claims := &models.JWTClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

func generateCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
