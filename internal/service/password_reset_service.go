package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/port"
)

const resetTokenTTL = time.Hour

// ForgotPasswordInput is the DTO for forgot-password requests.
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput is the DTO for reset-password requests.
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// PasswordResetService defines the password reset contract.
type PasswordResetService interface {
	// ForgotPassword never reports whether the account exists.
	ForgotPassword(ctx context.Context, input ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type passwordResetService struct {
	userRepo    port.UserRepository
	emailSender port.EmailSender
	jwtCfg      config.JWTConfig
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	userRepo port.UserRepository,
	emailSender port.EmailSender,
	jwtCfg config.JWTConfig,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		emailSender: emailSender,
		jwtCfg:      jwtCfg,
	}
}

func (s *passwordResetService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	log := zap.L()
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("forgot-password user lookup failed", zap.Error(err))
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}

	tokenString, jti, err := s.generateResetToken(user)
	if err != nil {
		log.Warn("generating password reset token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}
	if err := s.userRepo.SetPasswordResetToken(ctx, user.TenantID, user.ID, jti); err != nil {
		log.Warn("storing password reset token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}
	if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, user.Name, tokenString); err != nil {
		log.Warn("sending password reset email failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	claims, err := parseToken(s.jwtCfg.Secret, input.Token, audiencePasswordReset)
	if err != nil {
		return domain.ErrPasswordResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.userRepo.ResetPassword(ctx, claims.TenantID, claims.UserID, string(hash), claims.ID)
}

func (s *passwordResetService) generateResetToken(user *domain.User) (tokenString, jti string, err error) {
	now := time.Now()
	jti = uuid.New().String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
			ID:        jti,
			Audience:  jwt.ClaimStrings{audiencePasswordReset},
		},
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
	}

	tokenString, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", "", err
	}
	return tokenString, jti, nil
}
