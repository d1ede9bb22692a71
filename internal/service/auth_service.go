package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/port"
)

const bcryptCost = 12

const (
	audienceAccess        = "access"
	audiencePasswordReset = "password-reset"
)

// Claims represents the JWT claims with tenant and branch context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string          `json:"tenantId"`
	BranchID string          `json:"branchId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId"`
	Email    string          `json:"email"`
	Name     string          `json:"name,omitempty"`
	Role     domain.UserRole `json:"role"`
}

// Principal returns the caller identity carried by the token.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		UserID:   c.UserID,
		TenantID: c.TenantID,
		BranchID: c.BranchID,
		ClientID: c.ClientID,
		Role:     c.Role,
		Email:    c.Email,
		Name:     c.Name,
	}
}

// AuthResult is returned by every flow that signs a user in.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupInput is the DTO for client-portal signups. TenantID picks the
// clinic when the email is a client of more than one.
type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	TenantID string `json:"tenantId"`
}

// MeOutput is the signed-in user with their tenant.
type MeOutput struct {
	User   *domain.User   `json:"user"`
	Tenant *domain.Tenant `json:"tenant"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Me(ctx context.Context, p domain.Principal) (*MeOutput, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo   port.UserRepository
	tenantRepo port.TenantRepository
	clientRepo port.ClientRepository
	cfg        config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	tenantRepo port.TenantRepository,
	clientRepo port.ClientRepository,
	cfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		clientRepo: clientRepo,
		cfg:        cfg,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return s.issue(user)
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	clients, err := s.clientRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}

	var candidates []domain.Client
	for _, c := range clients {
		if input.TenantID != "" && c.TenantID != input.TenantID {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNotFound
	}
	var enabled []domain.Client
	for _, c := range candidates {
		if c.PortalEnabled {
			enabled = append(enabled, c)
		}
	}
	switch len(enabled) {
	case 0:
		return nil, domain.ErrPortalDisabled
	case 1:
	default:
		return nil, fmt.Errorf("%w: tenantId is required for this email", domain.ErrValidation)
	}
	client := enabled[0]

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	clientID := client.ID
	user := &domain.User{
		ID:           uuid.New().String(),
		TenantID:     client.TenantID,
		BranchID:     client.BranchID,
		ClientID:     &clientID,
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RolePetOwner,
		Phone:        input.Phone,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, p domain.Principal) (*MeOutput, error) {
	user, err := s.userRepo.GetByID(ctx, p.TenantID, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Me: %w", err)
	}
	tenant, err := s.tenantRepo.GetByID(ctx, p.TenantID)
	if err != nil {
		return nil, fmt.Errorf("auth.Me tenant: %w", err)
	}
	return &MeOutput{User: user, Tenant: tenant}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return parseToken(s.cfg.Secret, tokenString, audienceAccess)
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTokenExpiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audienceAccess},
		},
		TenantID: user.TenantID,
		BranchID: deref(user.BranchID),
		ClientID: deref(user.ClientID),
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// parseToken validates signature, expiry and audience.
func parseToken(secret, tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
