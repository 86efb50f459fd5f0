package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	FirebaseProject    string
	StorageBucket      string
	Environment        string
	GeocoderBaseURL    string
	GeocoderAPIKey     string
	GeocoderTimeout    time.Duration
	LegacyBrowseFilter bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		GeocoderBaseURL:    getEnv("GEOCODER_BASE_URL", "https://api.geoapify.com"),
		GeocoderAPIKey:     getEnv("GEOCODER_API_KEY", ""),
		GeocoderTimeout:    time.Duration(getEnvAsInt64("GEOCODER_TIMEOUT_SECONDS", 10)) * time.Second,
		LegacyBrowseFilter: getEnvAsBool("LEGACY_BROWSE_FILTER", false),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
