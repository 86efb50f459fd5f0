package router

import (
	"github.com/labstack/echo/v4"

	"salefinder/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	SetupListingRouter(e, authMiddleware, rateLimiter)
	SetupUserRouter(e, authMiddleware, rateLimiter)
	SetupHealthRouter(e)
}
