package router

import (
	"github.com/labstack/echo/v4"

	"salefinder/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/auth-health", healthHandler.CheckAuthHealth)
}
