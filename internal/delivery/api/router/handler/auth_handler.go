// Package handler contains the HTTP handlers for the application.
package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"leadway/internal/delivery/api/response"
	"leadway/internal/domain/entity"
	domainerrors "leadway/internal/domain/errors"
	"leadway/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// verifySuccessTemplate renders the confirmation page shown after a
// verification link is consumed successfully.
const verifySuccessTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head><meta charset="UTF-8"><title>信箱驗證完成</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
  <h1>信箱驗證完成</h1>
  <p>{{.FullName}}，您的帳號 {{.Email}} 已完成驗證。</p>
  <p>現在可以使用帳號密碼登入了。</p>
</body>
</html>`

// verifyErrorTemplate renders the failure page for an unusable verification link.
const verifyErrorTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head><meta charset="UTF-8"><title>信箱驗證失敗</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
  <h1>信箱驗證失敗</h1>
  <p>{{.Message}}</p>
</body>
</html>`

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler holds dependencies for account lifecycle handlers.
type AuthHandler struct {
	authUC          usecase.AuthUsecase
	logger          *slog.Logger
	successTemplate *template.Template
	errorTemplate   *template.Template
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:          params.AuthUC,
		logger:          params.Logger,
		successTemplate: template.Must(template.New("verify_success").Parse(verifySuccessTemplate)),
		errorTemplate:   template.Must(template.New("verify_error").Parse(verifyErrorTemplate)),
	}
}

// SignupRequest represents the request body for account registration.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SigninRequest represents the request body for credential sign-in.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for access token refresh.
// The token is deliberately not tagged required; an absent token must
// surface as 401, not as a validation failure.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userPayload is the outward representation of a user. The password hash
// never appears in any response body.
type userPayload struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Verified bool      `json:"verified"`
}

func toUserPayload(user *entity.User) *userPayload {
	return &userPayload{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Verified: user.Verified,
	}
}

// Signup handles the account registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_FAILED", "Invalid signup input", err.Error())
	}

	output, err := h.authUC.Signup(c.Request().Context(), &usecase.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toUserPayload(output.User))
}

// VerifyEmail consumes a verification link and renders an HTML result page.
// The token arrives as a path segment, with a query parameter fallback for
// mail clients that mangle path-style links.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		token = c.QueryParam("token")
	}

	output, err := h.authUC.VerifyEmail(c.Request().Context(), &usecase.VerifyEmailInput{Token: token})
	if err != nil {
		return h.renderVerifyError(c, err)
	}

	return h.renderVerifySuccess(c, output.User)
}

func (h *AuthHandler) renderVerifySuccess(c echo.Context, user *entity.User) error {
	var buf bytes.Buffer
	if err := h.successTemplate.Execute(&buf, map[string]string{
		"FullName": user.FullName,
		"Email":    user.Email,
	}); err != nil {
		return errors.Wrap(err, "failed to render verification success page")
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *AuthHandler) renderVerifyError(c echo.Context, err error) error {
	statusCode := http.StatusInternalServerError
	message := "系統內部錯誤，請稍後再試"

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		statusCode = appErr.HTTPCode()
		message = appErr.Message()
	} else {
		h.logger.Error("Unhandled verification error", slog.Any("error", err))
	}

	var buf bytes.Buffer
	if renderErr := h.errorTemplate.Execute(&buf, map[string]string{
		"Message": message,
	}); renderErr != nil {
		return errors.Wrap(renderErr, "failed to render verification error page")
	}

	return c.HTMLBlob(statusCode, buf.Bytes())
}

// Signin handles the credential sign-in request.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signin input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_FAILED", "Invalid signin input", err.Error())
	}

	output, err := h.authUC.Signin(c.Request().Context(), &usecase.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken":  output.AccessToken,
		"refreshToken": output.RefreshToken,
		"user":         toUserPayload(output.User),
	})
}

// RefreshToken handles the access token refresh request.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	output, err := h.authUC.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"accessToken": output.AccessToken,
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
