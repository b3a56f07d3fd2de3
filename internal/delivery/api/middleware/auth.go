package middleware

import (
	"strings"

	"leadway/internal/delivery/api/response"
	"leadway/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys for values set by the auth middleware.
const (
	contextKeyUserID    = "userID"
	contextKeyUserEmail = "userEmail"
)

// AuthMiddleware provides middleware for access token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token on the request.
// A missing or malformed Authorization header is reported as 401; a token
// that fails signature or expiry checks is reported as 403. The middleware
// never touches the user store; existence is re-checked only by operations
// that need it.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_ACCESS_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "MISSING_ACCESS_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Forbidden(c, "INVALID_ACCESS_TOKEN", "Invalid or expired access token")
		}

		// Set user info on the context for handlers to use.
		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyUserEmail, claims.Email)

		return next(c)
	}
}

// GetUserID extracts the authenticated user's id from the Echo context.
// It must be used AFTER the Authenticate middleware.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetUserEmail extracts the authenticated user's email from the Echo context.
func GetUserEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(contextKeyUserEmail).(string)

	return email, ok
}
