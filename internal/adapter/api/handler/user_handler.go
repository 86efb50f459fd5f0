package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"salefinder/internal/usecase"
	"salefinder/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)

	profile, err := h.userUseCase.GetProfile(c.Request().Context(), hashUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"profile": profile})
}

type createProfileRequest struct {
	First   string `json:"first" validate:"required"`
	Last    string `json:"last" validate:"required"`
	Zipcode int    `json:"zipcode" validate:"required"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
}

func (h *UserHandler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)
	uid := c.Get("uid").(string)

	profile, err := h.userUseCase.CreateProfile(c.Request().Context(), hashUID, uid, usecase.CreateProfileInput{
		First:   req.First,
		Last:    req.Last,
		Zipcode: req.Zipcode,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, echo.Map{
		"message": "Profile created",
		"profile": profile,
	})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var patch map[string]json.RawMessage
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	profile, err := h.userUseCase.UpdateProfile(c.Request().Context(), hashUID, patch)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{
		"message": "Profile updated",
		"profile": profile,
	})
}

func (h *UserHandler) DeleteProfile(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)
	uid := c.Get("uid").(string)

	if err := h.userUseCase.DeleteProfile(c.Request().Context(), hashUID, uid); err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"message": "Profile deleted"})
}

func (h *UserHandler) ListOwnedListings(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)

	listings, err := h.userUseCase.ListOwned(c.Request().Context(), hashUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"listings": listings})
}

func (h *UserHandler) ListSavedListings(c echo.Context) error {
	hashUID := c.Get("hashUid").(string)

	listings, err := h.userUseCase.ListSaved(c.Request().Context(), hashUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"listings": listings})
}

type savedListingRequest struct {
	PostID string `json:"postId" validate:"required"`
}

func (h *UserHandler) SaveListing(c echo.Context) error {
	var req savedListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	if err := h.userUseCase.SaveListing(c.Request().Context(), hashUID, req.PostID); err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"message": "Listing saved"})
}

func (h *UserHandler) UnsaveListing(c echo.Context) error {
	var req savedListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashUID := c.Get("hashUid").(string)

	if err := h.userUseCase.UnsaveListing(c.Request().Context(), hashUID, req.PostID); err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, echo.Map{"message": "Listing removed from saved"})
}
