package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/domain"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func TestPasswordResetService_RoundTrip(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewPasswordResetService(userRepo, sender, testJWTConfig())

	var storedJTI, sentToken string
	userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)
	userRepo.On("SetPasswordResetToken", mock.Anything, tenantID, "user-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedJTI = args.String(3) }).Return(nil)
	sender.On("SendPasswordResetEmail", mock.Anything, "vet@clinic.test", "Dr. Staff", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sentToken = args.String(3) }).Return(nil)

	require.NoError(t, svc.ForgotPassword(context.Background(), service.ForgotPasswordInput{Email: "Vet@Clinic.test"}))
	require.NotEmpty(t, storedJTI)
	require.NotEmpty(t, sentToken)

	userRepo.On("ResetPassword", mock.Anything, tenantID, "user-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")) == nil
	}), storedJTI).Return(nil)

	err := svc.ResetPassword(context.Background(), service.ResetPasswordInput{Token: sentToken, NewPassword: "brand-new-pass"})
	require.NoError(t, err)
	userRepo.AssertExpectations(t)

	// A reset token is not an access token.
	authSvc := service.NewAuthService(userRepo, new(mocks.MockTenantRepo), new(mocks.MockClientRepo), testJWTConfig())
	_, err = authSvc.ValidateToken(sentToken)
	assert.Error(t, err)
}

func TestPasswordResetService_ForgotPassword_NeverLeaks(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewPasswordResetService(userRepo, sender, testJWTConfig())

	inactive := activeUser()
	inactive.IsActive = false
	userRepo.On("GetByEmail", mock.Anything, "nobody@clinic.test").Return(nil, domain.ErrNotFound)
	userRepo.On("GetByEmail", mock.Anything, "broken@clinic.test").Return(nil, errors.New("db down"))
	userRepo.On("GetByEmail", mock.Anything, "gone@clinic.test").Return(inactive, nil)

	for _, email := range []string{"nobody@clinic.test", "broken@clinic.test", "gone@clinic.test"} {
		assert.NoError(t, svc.ForgotPassword(context.Background(), service.ForgotPasswordInput{Email: email}), email)
	}
	sender.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetService_ForgotPassword_SendFailureIsSwallowed(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewPasswordResetService(userRepo, sender, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)
	userRepo.On("SetPasswordResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sender.On("SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	assert.NoError(t, svc.ForgotPassword(context.Background(), service.ForgotPasswordInput{Email: "vet@clinic.test"}))
}

func TestPasswordResetService_ResetPassword_InvalidToken(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewPasswordResetService(userRepo, new(mocks.MockEmailSender), testJWTConfig())

	err := svc.ResetPassword(context.Background(), service.ResetPasswordInput{Token: "garbage", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)

	// An access token cannot reset a password.
	userRepo.On("GetByEmail", mock.Anything, "vet@clinic.test").Return(activeUser(), nil)
	authSvc := service.NewAuthService(userRepo, new(mocks.MockTenantRepo), new(mocks.MockClientRepo), testJWTConfig())
	result, err := authSvc.Login(context.Background(), service.LoginInput{Email: "vet@clinic.test", Password: "password123"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), service.ResetPasswordInput{Token: result.Token, NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
	userRepo.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
