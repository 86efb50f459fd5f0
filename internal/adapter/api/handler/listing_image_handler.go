package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"salefinder/internal/usecase"
	"salefinder/pkg/errors"
	"salefinder/pkg/logger"
	"salefinder/pkg/response"
)

const maxImageSize = 5 * 1024 * 1024

type ListingImageHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingImageHandler(listingUseCase *usecase.ListingUseCase) *ListingImageHandler {
	return &ListingImageHandler{
		listingUseCase: listingUseCase,
	}
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}

func (h *ListingImageHandler) AddImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid image", err))
	}

	if file.Size > maxImageSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("Image size exceeds maximum allowed (%dMB)", maxImageSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		return response.Error(c, errors.BadRequest("Image type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("failed to open uploaded image: %v", err)
		return response.Error(c, errors.Internal("Unable to read image", err))
	}
	defer src.Close()

	hashUID := c.Get("hashUid").(string)
	caption := c.FormValue("caption")

	listing, err := h.listingUseCase.AddImage(c.Request().Context(), c.Param("postId"), hashUID, src, contentType, caption)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Image added",
		"listing": listing,
	})
}

type updateImageRequest struct {
	URI     string `json:"uri" validate:"required,url"`
	Caption string `json:"caption"`
}

func (h *ListingImageHandler) UpdateImageCaption(c echo.Context) error {
	var req updateImageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.ChangeImageCaption(c.Request().Context(), c.Param("postId"), hashUID, req.URI, req.Caption)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Image updated",
		"listing": listing,
	})
}

func (h *ListingImageHandler) RemoveImage(c echo.Context) error {
	uri := c.QueryParam("uri")
	if uri == "" {
		return response.Error(c, errors.BadRequest("uri query parameter is required", nil))
	}

	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.RemoveImage(c.Request().Context(), c.Param("postId"), hashUID, uri)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Image removed",
		"listing": listing,
	})
}
