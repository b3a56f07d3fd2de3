// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"leadway/config"
	deliverycontext "leadway/internal/delivery/context"
	"leadway/internal/domain/entity"
	domainerrors "leadway/internal/domain/errors"
	"leadway/internal/domain/repository"
	"leadway/internal/domain/service"
	"leadway/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	mailSender   service.MailSender
	baseURL      string
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	MailSender   service.MailSender
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.App != nil {
		baseURL = strings.TrimRight(params.Config.App.BaseURL, "/")
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		mailSender:   params.MailSender,
		baseURL:      baseURL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup orchestrates the complete account registration process.
// The verification mail is dispatched only after the user row is committed;
// a mail failure therefore leaves a persisted, unverified account behind.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during signup", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "password does not meet security requirements")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during signup")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		newUser := &entity.User{
			FullName:     input.FullName,
			Email:        input.Email,
			PasswordHash: hashedPassword,
		}

		// The unique index on email is the real arbiter; a concurrent signup
		// that wins the race still surfaces here as a duplicate error.
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during signup")
		}

		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute signup transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	if err := srv.dispatchVerificationMail(ctx, registeredUser); err != nil {
		// The user row is already committed and stays; the account just
		// remains unverified until a re-send or manual intervention.
		srv.log(ctx).Error("Failed to dispatch verification mail", slog.Any("userID", registeredUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrMailDeliveryFailed, "failed to dispatch verification mail")
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", registeredUser.ID))

	return &usecase.SignupOutput{User: registeredUser}, nil
}

// dispatchVerificationMail mints a verification token and mails the resulting link.
func (srv *authService) dispatchVerificationMail(ctx context.Context, user *entity.User) error {
	verificationToken, err := srv.tokenService.GenerateVerificationToken(user.ID)
	if err != nil {
		return errors.Wrap(err, "failed to generate verification token")
	}

	verifyURL := srv.baseURL + "/verify-email/" + verificationToken

	if err := srv.mailSender.SendVerificationMail(ctx, user.Email, user.FullName, verifyURL); err != nil {
		return errors.Wrap(err, "failed to send verification mail")
	}

	return nil
}

// VerifyEmail consumes a verification token and flips the account's verified flag.
// Consuming a fresh token for an already verified account is a no-op, not an error.
func (srv *authService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	srv.log(ctx).Info("Attempting to verify email")

	if input.Token == "" {
		return nil, domainerrors.ErrInvalidVerificationToken.WrapMessage("verification token is missing")
	}

	userID, err := srv.tokenService.ValidateVerificationToken(input.Token)
	if err != nil {
		srv.log(ctx).Warn("Verification token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidVerificationToken, "verification token rejected")
	}

	var verifiedUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("user for verification token not found")
			}

			return errors.Wrap(err, "failed to find user for verification")
		}

		if !user.Verified {
			user.Verified = true
			if err := userRepo.Update(ctx, user); err != nil {
				return errors.Wrap(err, "failed to mark user as verified")
			}
		}

		verifiedUser = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute email verification transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute email verification transaction")
	}

	srv.log(ctx).Debug("Email verified", slog.Any("userID", verifiedUser.ID))

	return &usecase.VerifyEmailOutput{User: verifiedUser}, nil
}

// Signin orchestrates the credential sign-in process.
func (srv *authService) Signin(ctx context.Context, input *usecase.SigninInput) (*usecase.SigninOutput, error) {
	srv.log(ctx).Debug("Starting signin", slog.String("email", input.Email))

	user, err := srv.loadSigninUser(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Signin failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// The verified gate fires before the hash comparison; an unverified account
	// gets the same answer whether or not the password would have matched.
	if !user.Verified {
		srv.log(ctx).Warn("Signin blocked for unverified account", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrEmailNotVerified.WrapMessage("signin blocked until email is verified")
	}

	// bcrypt comparison is CPU-bound, keep it outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Signin failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("signin failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during signin", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.log(ctx).Debug("User signed in successfully", slog.Any("userID", user.ID))

	return &usecase.SigninOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// loadSigninUser loads the account from primary in a short transaction to avoid
// stale reads on replicas. An unknown email collapses into ErrInvalidCredentials
// so the response never reveals whether the address is registered.
func (srv *authService) loadSigninUser(ctx context.Context, email string) (*entity.User, error) {
	var user *entity.User

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var findErr error
		user, findErr = userRepo.FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("signin failed")
			}

			return errors.Wrap(findErr, "failed to find user by email")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute signin lookup transaction")
	}

	return user, nil
}

// RefreshToken mints a new access token from a valid refresh token.
// The refresh token itself is neither rotated nor re-checked against the store;
// it stays valid until its own expiry elapses.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	if input.RefreshToken == "" {
		return nil, domainerrors.ErrMissingToken.WrapMessage("refresh token is missing")
	}

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidRefreshToken, "refresh token rejected")
	}

	newAccessToken, err := srv.tokenService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to generate new access token", slog.Any("userID", claims.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	srv.log(ctx).Debug("Access token refreshed", slog.Any("userID", claims.UserID))

	return &usecase.RefreshTokenOutput{
		AccessToken: newAccessToken,
	}, nil
}
