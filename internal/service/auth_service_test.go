package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

type authFixture struct {
	svc        service.AuthService
	userRepo   *mocks.MockUserRepo
	tenantRepo *mocks.MockTenantRepo
	clientRepo *mocks.MockClientRepo
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:   new(mocks.MockUserRepo),
		tenantRepo: new(mocks.MockTenantRepo),
		clientRepo: new(mocks.MockClientRepo),
	}
	f.svc = service.NewAuthService(f.userRepo, f.tenantRepo, f.clientRepo, testJWTConfig())
	return f
}

func activeUser() *domain.User {
	branch := branchID
	return &domain.User{
		ID:           "user-1",
		TenantID:     tenantID,
		BranchID:     &branch,
		Name:         "Dr. Staff",
		Email:        "vet@clinic.test",
		PasswordHash: hashPassword("password123"),
		Role:         domain.RoleVet,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)

	result, err := f.svc.Login(context.Background(), service.LoginInput{Email: " VET@clinic.test", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, "user-1", result.User.ID)

	claims, err := f.svc.ValidateToken(result.Token)
	require.NoError(t, err)
	p := claims.Principal()
	assert.Equal(t, tenantID, p.TenantID)
	assert.Equal(t, branchID, p.BranchID)
	assert.Equal(t, domain.RoleVet, p.Role)
	assert.Equal(t, "user-1", p.UserID)
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newAuthFixture()
	inactive := activeUser()
	inactive.Email = "gone@clinic.test"
	inactive.IsActive = false
	f.userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)
	f.userRepo.On("GetByEmail", mock.Anything, "gone@clinic.test").Return(inactive, nil)
	f.userRepo.On("GetByEmail", mock.Anything, "nobody@clinic.test").Return(nil, domain.ErrNotFound)

	tests := []struct {
		name  string
		input service.LoginInput
		want  error
	}{
		{"wrong password", service.LoginInput{Email: "vet@clinic.test", Password: "nope"}, domain.ErrInvalidCredentials},
		{"unknown email", service.LoginInput{Email: "nobody@clinic.test", Password: "password123"}, domain.ErrInvalidCredentials},
		{"inactive", service.LoginInput{Email: "gone@clinic.test", Password: "password123"}, domain.ErrUserInactive},
		{"inactive with wrong password", service.LoginInput{Email: "gone@clinic.test", Password: "nope"}, domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_ValidateToken_RejectsGarbage(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "another-secret-key-for-unit-tests-98765"
	other := service.NewAuthService(f.userRepo, f.tenantRepo, f.clientRepo, otherCfg)
	f.userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)
	result, err := other.Login(context.Background(), service.LoginInput{Email: "vet@clinic.test", Password: "password123"})
	require.NoError(t, err)

	_, err = f.svc.ValidateToken(result.Token)
	assert.Error(t, err)
}

func TestAuthService_Signup(t *testing.T) {
	enabled := domain.Client{ID: "client-1", TenantID: tenantID, Email: "owner@example.com", PortalEnabled: true}
	disabled := domain.Client{ID: "client-2", TenantID: "tenant-2", Email: "owner@example.com"}

	t.Run("creates a portal account", func(t *testing.T) {
		f := newAuthFixture()
		f.clientRepo.On("ListByEmail", mock.Anything, "owner@example.com").Return([]domain.Client{enabled, disabled}, nil)
		f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RolePetOwner && u.TenantID == tenantID &&
				u.ClientID != nil && *u.ClientID == "client-1" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
		})).Return(nil)

		result, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name: "Pat Owner", Email: "Owner@Example.com", Password: "password123",
		})

		require.NoError(t, err)
		claims, err := f.svc.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "client-1", claims.ClientID)
		assert.Equal(t, domain.RolePetOwner, claims.Role)
	})

	t.Run("no client record", func(t *testing.T) {
		f := newAuthFixture()
		f.clientRepo.On("ListByEmail", mock.Anything, "stranger@example.com").Return([]domain.Client{}, nil)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{Name: "S", Email: "stranger@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("portal disabled", func(t *testing.T) {
		f := newAuthFixture()
		f.clientRepo.On("ListByEmail", mock.Anything, "owner@example.com").Return([]domain.Client{disabled}, nil)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{Name: "P", Email: "owner@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrPortalDisabled)
	})

	t.Run("ambiguous clinic needs tenantId", func(t *testing.T) {
		f := newAuthFixture()
		second := enabled
		second.ID = "client-3"
		second.TenantID = "tenant-3"
		f.clientRepo.On("ListByEmail", mock.Anything, "owner@example.com").Return([]domain.Client{enabled, second}, nil)
		f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{Name: "P", Email: "owner@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		result, err := f.svc.Signup(context.Background(), service.SignupInput{
			Name: "P", Email: "owner@example.com", Password: "password123", TenantID: "tenant-3",
		})
		require.NoError(t, err)
		assert.Equal(t, "tenant-3", result.User.TenantID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.clientRepo.On("ListByEmail", mock.Anything, "owner@example.com").Return([]domain.Client{enabled}, nil)
		f.userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

		_, err := f.svc.Signup(context.Background(), service.SignupInput{Name: "P", Email: "owner@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("GetByID", mock.Anything, tenantID, "user-1").Return(activeUser(), nil)
	f.tenantRepo.On("GetByID", mock.Anything, tenantID).Return(&domain.Tenant{ID: tenantID, Name: "Happy Paws"}, nil)
	f.userRepo.On("GetByID", mock.Anything, tenantID, "ghost").Return(nil, domain.ErrNotFound)

	out, err := f.svc.Me(context.Background(), staff(domain.RoleVet))
	require.NoError(t, err)
	assert.Equal(t, "Happy Paws", out.Tenant.Name)
	assert.Equal(t, "user-1", out.User.ID)

	p := staff(domain.RoleVet)
	p.UserID = "ghost"
	_, err = f.svc.Me(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
