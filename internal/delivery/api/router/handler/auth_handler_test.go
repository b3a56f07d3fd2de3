package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadway/internal/delivery/api/validator"
	"leadway/internal/domain/entity"
	domainerrors "leadway/internal/domain/errors"
	mockUsecase "leadway/internal/mocks/usecase"
	"leadway/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authHandlerFixtures holds all test dependencies for auth handler tests.
type authHandlerFixtures struct {
	handler *AuthHandler
	authUC  *mockUsecase.MockAuthUsecase
	echo    *echo.Echo
}

func createTestAuthHandler(t *testing.T) authHandlerFixtures {
	authUC := mockUsecase.NewMockAuthUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewAuthHandler(AuthHandlerParams{
		AuthUC: authUC,
		Logger: logger,
	})

	e := echo.New()
	e.Validator = validator.New()

	return authHandlerFixtures{
		handler: h,
		authUC:  authUC,
		echo:    e,
	}
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	fx := createTestAuthHandler(t)

	userID := uuid.New()
	fx.authUC.EXPECT().
		Signup(mock.Anything, &usecase.SignupInput{
			FullName: "A User",
			Email:    "a@x.com",
			Password: "Passw0rd!",
		}).
		Return(&usecase.SignupOutput{User: &entity.User{
			ID:           userID,
			FullName:     "A User",
			Email:        "a@x.com",
			PasswordHash: "hashed-password",
		}}, nil)

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signup",
		`{"fullName":"A User","email":"a@x.com","password":"Passw0rd!"}`)

	require.NoError(t, fx.handler.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), `"verified":false`)
	// The password hash must never leak into a response body.
	assert.NotContains(t, rec.Body.String(), "hashed-password")
}

func TestAuthHandler_Signup_MalformedEmail(t *testing.T) {
	fx := createTestAuthHandler(t)

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signup",
		`{"fullName":"A User","email":"not-an-email","password":"Passw0rd!"}`)

	require.NoError(t, fx.handler.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		Signup(mock.Anything, mock.AnythingOfType("*usecase.SignupInput")).
		Return(nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered"))

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signup",
		`{"fullName":"A User","email":"a@x.com","password":"Passw0rd!"}`)

	require.NoError(t, fx.handler.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_ALREADY_REGISTERED")
}

func TestAuthHandler_VerifyEmail_RendersSuccessPage(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		VerifyEmail(mock.Anything, &usecase.VerifyEmailInput{Token: "verify-token"}).
		Return(&usecase.VerifyEmailOutput{User: &entity.User{
			FullName: "A User",
			Email:    "a@x.com",
			Verified: true,
		}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/verify-email/verify-token", nil)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("verify-token")

	require.NoError(t, fx.handler.VerifyEmail(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), "A User")
	assert.Contains(t, rec.Body.String(), "a@x.com")
}

func TestAuthHandler_VerifyEmail_QueryFallback(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		VerifyEmail(mock.Anything, &usecase.VerifyEmailInput{Token: "query-token"}).
		Return(&usecase.VerifyEmailOutput{User: &entity.User{
			FullName: "A User",
			Email:    "a@x.com",
			Verified: true,
		}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/verify-email?token=query-token", nil)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)

	require.NoError(t, fx.handler.VerifyEmail(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_VerifyEmail_RendersErrorPage(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		VerifyEmail(mock.Anything, &usecase.VerifyEmailInput{Token: "tampered"}).
		Return(nil, domainerrors.ErrInvalidVerificationToken.WrapMessage("verification token rejected"))

	req := httptest.NewRequest(http.MethodGet, "/verify-email/tampered", nil)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("tampered")

	require.NoError(t, fx.handler.VerifyEmail(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), domainerrors.ErrInvalidVerificationToken.Message())
}

func TestAuthHandler_Signin_Success(t *testing.T) {
	fx := createTestAuthHandler(t)

	userID := uuid.New()
	fx.authUC.EXPECT().
		Signin(mock.Anything, &usecase.SigninInput{
			Email:    "a@x.com",
			Password: "Passw0rd!",
		}).
		Return(&usecase.SigninOutput{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User: &entity.User{
				ID:           userID,
				FullName:     "A User",
				Email:        "a@x.com",
				PasswordHash: "hashed-password",
				Verified:     true,
			},
		}, nil)

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signin",
		`{"email":"a@x.com","password":"Passw0rd!"}`)

	require.NoError(t, fx.handler.Signin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access-token")
	assert.Contains(t, rec.Body.String(), "refresh-token")
	assert.NotContains(t, rec.Body.String(), "hashed-password")
}

func TestAuthHandler_Signin_InvalidCredentials(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		Signin(mock.Anything, mock.AnythingOfType("*usecase.SigninInput")).
		Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("signin failed"))

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signin",
		`{"email":"a@x.com","password":"WrongPass1"}`)

	require.NoError(t, fx.handler.Signin(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Signin_UnverifiedEmail(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		Signin(mock.Anything, mock.AnythingOfType("*usecase.SigninInput")).
		Return(nil, domainerrors.ErrEmailNotVerified.WrapMessage("signin blocked until email is verified"))

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/signin",
		`{"email":"a@x.com","password":"Passw0rd!"}`)

	require.NoError(t, fx.handler.Signin(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_NOT_VERIFIED")
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		RefreshToken(mock.Anything, &usecase.RefreshTokenInput{RefreshToken: "refresh-token"}).
		Return(&usecase.RefreshTokenOutput{AccessToken: "new-access-token"}, nil)

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/refresh",
		`{"refreshToken":"refresh-token"}`)

	require.NoError(t, fx.handler.RefreshToken(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access-token")
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		RefreshToken(mock.Anything, &usecase.RefreshTokenInput{RefreshToken: ""}).
		Return(nil, domainerrors.ErrMissingToken.WrapMessage("refresh token is missing"))

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/refresh", `{}`)

	require.NoError(t, fx.handler.RefreshToken(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TOKEN")
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	fx := createTestAuthHandler(t)

	fx.authUC.EXPECT().
		RefreshToken(mock.Anything, &usecase.RefreshTokenInput{RefreshToken: "tampered"}).
		Return(nil, domainerrors.ErrInvalidRefreshToken.WrapMessage("refresh token rejected"))

	c, rec := newJSONContext(fx.echo, http.MethodPost, "/refresh",
		`{"refreshToken":"tampered"}`)

	require.NoError(t, fx.handler.RefreshToken(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REFRESH_TOKEN")
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, HealthCheck(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
