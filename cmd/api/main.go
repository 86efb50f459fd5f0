package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"salefinder/internal/adapter/api"
	"salefinder/internal/adapter/api/handler"
	apimiddleware "salefinder/internal/adapter/api/middleware"
	"salefinder/internal/adapter/api/router"
	"salefinder/internal/adapter/repository"
	"salefinder/internal/infrastructure/firebase"
	"salefinder/internal/infrastructure/geocoding"
	"salefinder/internal/infrastructure/storage"
	"salefinder/internal/usecase"
	"salefinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	authClient := firebase.NewAuthClient(fbAuth)

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	geocoder := geocoding.NewGeoapifyClient(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, cfg.GeocoderTimeout)

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)

	listingUseCase := usecase.NewListingUseCase(listingRepo, geocoder, storageClient, cfg.LegacyBrowseFilter)
	userUseCase := usecase.NewUserUseCase(userRepo, listingRepo, authClient, storageClient)

	handler.Setup(listingUseCase, userUseCase)
	handler.SetupHealthHandler(authClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	rateLimiter := apimiddleware.NewRateLimiter(60, time.Minute)

	router.Setup(e, authMiddleware, rateLimiter)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
