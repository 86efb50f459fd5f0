package handler

import (
	"salefinder/internal/usecase"
)

var (
	listingHandler      *ListingHandler
	listingImageHandler *ListingImageHandler
	userHandler         *UserHandler
)

func Setup(
	listingUseCase *usecase.ListingUseCase,
	userUseCase *usecase.UserUseCase,
) {
	listingHandler = NewListingHandler(listingUseCase)
	listingImageHandler = NewListingImageHandler(listingUseCase)
	userHandler = NewUserHandler(userUseCase)
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetListingImageHandler() *ListingImageHandler {
	return listingImageHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}
