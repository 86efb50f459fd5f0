package router

import (
	"github.com/labstack/echo/v4"

	"salefinder/internal/adapter/api/handler"
	"salefinder/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.GET("/listings", userHandler.ListOwnedListings)
	users.GET("/savedListings", userHandler.ListSavedListings)

	mutations := e.Group("/users")
	mutations.Use(authMiddleware.Authenticate)
	mutations.Use(rateLimiter.Middleware())

	mutations.POST("/create", userHandler.CreateProfile)
	mutations.PUT("/update", userHandler.UpdateProfile)
	mutations.DELETE("/me", userHandler.DeleteProfile)
	mutations.POST("/savedListings", userHandler.SaveListing)
	mutations.DELETE("/savedListings", userHandler.UnsaveListing)
}
