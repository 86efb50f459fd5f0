package router

import (
	"github.com/labstack/echo/v4"

	"salefinder/internal/adapter/api/handler"
	"salefinder/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	listingHandler := handler.GetListingHandler()
	imageHandler := handler.GetListingImageHandler()

	listings := e.Group("/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.GET("", listingHandler.BrowseListings)
	listings.GET("/:postId", listingHandler.GetListing)

	// Mutations carry the per-IP limiter on top of auth.
	mutations := e.Group("/listings")
	mutations.Use(authMiddleware.Authenticate)
	mutations.Use(rateLimiter.Middleware())

	mutations.POST("", listingHandler.CreateListing)
	mutations.PUT("/:postId", listingHandler.UpdateListing)
	mutations.DELETE("/:postId", listingHandler.DeleteListing)

	mutations.POST("/:postId/images", imageHandler.AddImage)
	mutations.PUT("/:postId/images", imageHandler.UpdateImageCaption)
	mutations.DELETE("/:postId/images", imageHandler.RemoveImage)
}
