package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"leadway/config"
	"leadway/internal/domain/entity"
	"leadway/internal/domain/repository"
	"leadway/internal/domain/service"
	mockRepo "leadway/internal/mocks/repository"
	mockService "leadway/internal/mocks/service"
	"leadway/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockService.MockPasswordHasher
	tokenService *mockService.MockTokenService
	mailSender   *mockService.MockMailSender
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenService := mockService.NewMockTokenService(t)
	mailSender := mockService.NewMockMailSender(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		App: &config.AppConfig{BaseURL: "https://accounts.example.com"},
	}

	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		MailSender:   mailSender,
		Config:       cfg,
		Logger:       logger,
	})

	return authServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		mailSender:   mailSender,
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.SignupInput{
		FullName: "A User",
		Email:    "a@x.com",
		Password: "Passw0rd!",
	}

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
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.tokenService.EXPECT().GenerateVerificationToken(userID).Return("verify-token", nil)
	fx.mailSender.EXPECT().
		SendVerificationMail(ctx, "a@x.com", "A User", "https://accounts.example.com/verify-email/verify-token").
		Return(nil)

	output, err := fx.service.Signup(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, userID, output.User.ID)
	assert.Equal(t, "a@x.com", output.User.Email)
	assert.Equal(t, "hashed-password", output.User.PasswordHash)
	assert.False(t, output.User.Verified)
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	storedUser := &entity.User{
		ID:       userID,
		FullName: "A User",
		Email:    "a@x.com",
		Verified: false,
	}

	fx.tokenService.EXPECT().ValidateVerificationToken("verify-token").Return(userID, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByID(ctx, userID).Return(storedUser, nil)
			mockUserRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.User")).Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{Token: "verify-token"})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.User.Verified)
}

func TestAuthService_VerifyEmail_AlreadyVerifiedIsIdempotent(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	storedUser := &entity.User{
		ID:       userID,
		Email:    "a@x.com",
		Verified: true,
	}

	fx.tokenService.EXPECT().ValidateVerificationToken("verify-token").Return(userID, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			// No Update expectation: re-verifying must not touch the store.
			mockUserRepo.EXPECT().FindByID(ctx, userID).Return(storedUser, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.VerifyEmail(ctx, &usecase.VerifyEmailInput{Token: "verify-token"})

	require.NoError(t, err)
	assert.True(t, output.User.Verified)
}

func TestAuthService_Signin_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	storedUser := &entity.User{
		ID:           userID,
		FullName:     "A User",
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

	fx.hasher.EXPECT().Check("Passw0rd!", "hashed-password").Return(true)
	fx.tokenService.EXPECT().GenerateTokens(userID, "a@x.com").Return("access-token", "refresh-token", nil)

	output, err := fx.service.Signin(ctx, &usecase.SigninInput{
		Email:    "a@x.com",
		Password: "Passw0rd!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, storedUser, output.User)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()
	claims := &service.Claims{
		UserID: userID,
		Email:  "a@x.com",
		Type:   service.TokenTypeRefresh,
	}

	fx.tokenService.EXPECT().ValidateRefreshToken("refresh-token").Return(claims, nil)
	fx.tokenService.EXPECT().GenerateAccessToken(userID, "a@x.com").Return("new-access-token", nil)

	output, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "refresh-token"})

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", output.AccessToken)
}
