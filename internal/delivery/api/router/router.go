// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"leadway/config"
	"leadway/internal/delivery/api/middleware"
	"leadway/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	AuthMiddleware *middleware.AuthMiddleware
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		authMiddleware: params.AuthMiddleware,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account lifecycle routes
	e.POST("/signup", r.authHandler.Signup)
	e.POST("/signin", r.authHandler.Signin)
	e.POST("/refresh", r.authHandler.RefreshToken)

	// Verification link targets; the query form is a fallback for mail
	// clients that rewrite path-style links.
	e.GET("/verify-email/:token", r.authHandler.VerifyEmail)
	e.GET("/verify-email", r.authHandler.VerifyEmail)

	// Routes that require a valid access token
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.profileHandler.GetProfile)
	}
}
