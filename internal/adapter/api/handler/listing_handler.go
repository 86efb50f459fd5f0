package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"

	"salefinder/internal/domain/entity"
	"salefinder/internal/usecase"
	"salefinder/pkg/errors"
	"salefinder/pkg/response"
)

const defaultRadiusMiles = 25

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type addressRequest struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Zip    int    `json:"zip" validate:"required"`
}

type createListingRequest struct {
	Title         string              `json:"title" validate:"required"`
	Description   string              `json:"description"`
	Address       addressRequest      `json:"address" validate:"required"`
	Dates         []string            `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	StartTime     string              `json:"startTime" validate:"required,datetime=15:04"`
	EndTime       string              `json:"endTime" validate:"required,datetime=15:04"`
	Categories    []string            `json:"categories"`
	Subcategories map[string][]string `json:"subcategories"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), hashUID, usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Address: entity.Address{
			Street: req.Address.Street,
			City:   req.Address.City,
			State:  req.Address.State,
			Zip:    req.Address.Zip,
		},
		Dates:         req.Dates,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, echo.Map{
		"message": "Listing created",
		"postId":  listing.PostID,
	})
}

func (h *ListingHandler) BrowseListings(c echo.Context) error {
	filter, err := parseBrowseFilter(c)
	if err != nil {
		return response.Error(c, err)
	}

	listings, err := h.listingUseCase.BrowseListings(c.Request().Context(), filter)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"listings": listings})
}

func parseBrowseFilter(c echo.Context) (usecase.BrowseFilter, error) {
	var filter usecase.BrowseFilter

	latStr := c.QueryParam("lat")
	longStr := c.QueryParam("long")
	if (latStr == "") != (longStr == "") {
		return filter, errors.BadRequest("lat and long must be provided together", nil)
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return filter, errors.BadRequest("lat must be a number", nil)
		}
		long, err := strconv.ParseFloat(longStr, 64)
		if err != nil {
			return filter, errors.BadRequest("long must be a number", nil)
		}
		filter.Lat = &lat
		filter.Long = &long
	}

	if zipStr := c.QueryParam("zipcode"); zipStr != "" {
		zip, err := strconv.Atoi(zipStr)
		if err != nil {
			return filter, errors.BadRequest("zipcode must be a number", nil)
		}
		filter.Zipcode = &zip
	}

	if filter.Lat == nil && filter.Zipcode == nil {
		return filter, errors.BadRequest("Either lat and long or zipcode is required", nil)
	}

	filter.Radius = defaultRadiusMiles
	if radiusStr := c.QueryParam("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return filter, errors.BadRequest("radius must be a number", nil)
		}
		if radius <= 0 || radius > 100 {
			return filter, errors.BadRequest("radius must be greater than 0 and at most 100 miles", nil)
		}
		filter.Radius = radius
	}

	if categoriesStr := c.QueryParam("categories"); categoriesStr != "" {
		tokens := strings.Split(categoriesStr, ",")
		for _, token := range tokens {
			if !isAlphabetic(token) {
				return filter, errors.BadRequest("categories must be comma-separated alphabetic terms", nil)
			}
		}
		filter.Categories = tokens
	}

	return filter, nil
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("postId"), hashUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"listing": listing})
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var patch map[string]json.RawMessage
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), c.Param("postId"), hashUID, patch)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Listing updated",
		"listing": listing,
	})
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)

	listing, err := h.listingUseCase.DeleteListing(c.Request().Context(), c.Param("postId"), hashUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Listing deleted",
		"listing": listing,
	})
}
