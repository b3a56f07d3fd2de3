package impl

import (
	"context"
	"testing"

	"leadway/internal/domain/entity"
	domainerrors "leadway/internal/domain/errors"
	"leadway/internal/domain/repository"
	"leadway/internal/domain/service"
	mockRepo "leadway/internal/mocks/repository"
	"leadway/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Signup_WeakPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.hasher.EXPECT().
		ValidatePasswordStrength("weak").
		Return(errors.New("password must be at least 8 characters long; password must contain at least one uppercase letter"))

	output, err := fx.service.Signup(ctx, &usecase.SignupInput{
		FullName: "A User",
		Email:    "a@x.com",
		Password: "weak",
	})

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	// All violated rules are carried, not just the first one.
	assert.Contains(t, appErr.Details(), "at least 8 characters")
	assert.Contains(t, appErr.Details(), "uppercase")
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	existingUser := &entity.User{ID: uuid.New(), Email: "a@x.com"}

	fx.hasher.EXPECT().ValidatePasswordStrength("Passw0rd!").Return(nil)
	fx.hasher.EXPECT().Hash("Passw0rd!").Return("hashed-password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(existingUser, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Signup(ctx, &usecase.SignupInput{
		FullName: "A User",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_Signup_MailFailureKeepsUser(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	created := false

	fx.hasher.EXPECT().ValidatePasswordStrength("Passw0rd!").Return(nil)
	fx.hasher.EXPECT().Hash("Passw0rd!").Return("hashed-password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = userID
					created = true
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.tokenService.EXPECT().GenerateVerificationToken(userID).Return("verify-token", nil)
	fx.mailSender.EXPECT().
		SendVerificationMail(ctx, "a@x.com", "A User", mock.AnythingOfType("string")).
		Return(errors.New("smtp connection refused"))

	output, err := fx.service.Signup(ctx, &usecase.SignupInput{
		FullName: "A User",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrMailDeliveryFailed)
	// The committed user row survives the mail failure.
	assert.True(t, created)
}

func TestAuthService_VerifyEmail_MissingToken(t *testing.T) {
	fx := createTestAuthService(t)

	output, err := fx.service.VerifyEmail(context.Background(), &usecase.VerifyEmailInput{Token: ""})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVerificationToken)
}

func TestAuthService_VerifyEmail_InvalidToken(t *testing.T) {
	fx := createTestAuthService(t)

	fx.tokenService.EXPECT().ValidateVerificationToken("tampered").Return(uuid.Nil, service.ErrTokenInvalid)

	output, err := fx.service.VerifyEmail(context.Background(), &usecase.VerifyEmailInput{Token: "tampered"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVerificationToken)
}

func TestAuthService_VerifyEmail_ExpiredToken(t *testing.T) {
	fx := createTestAuthService(t)

	fx.tokenService.EXPECT().ValidateVerificationToken("expired").Return(uuid.Nil, service.ErrTokenExpired)

	output, err := fx.service.VerifyEmail(context.Background(), &usecase.VerifyEmailInput{Token: "expired"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVerificationToken)
}

func TestAuthService_VerifyEmail_UserNotFound(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.tokenService.EXPECT().ValidateVerificationToken("verify-token").Return(userID, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{Token: "verify-token"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_Signin_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.Signin(ctx, &usecase.SigninInput{
		Email:    "nobody@x.com",
		Password: "Passw0rd!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	// Unknown email and wrong password must be indistinguishable to the caller.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Signin_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	storedUser := &entity.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: "hashed-password",
		Verified:     true,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(storedUser, nil)

			return fn(mockFactory)
		})

	fx.hasher.EXPECT().Check("WrongPass1", "hashed-password").Return(false)

	output, err := fx.service.Signin(ctx, &usecase.SigninInput{
		Email:    "a@x.com",
		Password: "WrongPass1",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Signin_UnverifiedEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	storedUser := &entity.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: "hashed-password",
		Verified:     false,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(storedUser, nil)

			return fn(mockFactory)
		})

	// The verified gate fires before the password comparison; Check is never called.
	output, err := fx.service.Signin(ctx, &usecase.SigninInput{
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)
}

func TestAuthService_RefreshToken_Missing(t *testing.T) {
	fx := createTestAuthService(t)

	output, err := fx.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: ""})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrMissingToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	fx := createTestAuthService(t)

	fx.tokenService.EXPECT().ValidateRefreshToken("tampered").Return(nil, service.ErrTokenInvalid)

	output, err := fx.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "tampered"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshToken_Expired(t *testing.T) {
	fx := createTestAuthService(t)

	fx.tokenService.EXPECT().ValidateRefreshToken("expired").Return(nil, service.ErrTokenExpired)

	output, err := fx.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "expired"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)
}
