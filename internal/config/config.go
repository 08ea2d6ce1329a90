package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Spotify     SpotifyConfig
	Store       StoreConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                    int
	ReadTimeoutSeconds      int
	WriteTimeoutSeconds     int
	IdleTimeoutSeconds      int
	GracefulShutdownSeconds int
}

// SpotifyConfig holds Spotify API configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
}

// StoreConfig holds user store configuration
type StoreConfig struct {
	Path string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:                    getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeoutSeconds:      getEnvAsInt("SERVER_READ_TIMEOUT", 10),
			WriteTimeoutSeconds:     getEnvAsInt("SERVER_WRITE_TIMEOUT", 10),
			IdleTimeoutSeconds:      getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			GracefulShutdownSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
		},
		Spotify: SpotifyConfig{
			ClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
			ClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", "http://localhost:8080/callback"),
			Scope:        getEnv("SPOTIFY_SCOPES", "user-top-read"),
		},
		Store: StoreConfig{
			Path: getEnv("USERS_FILE", "users.json"),
		},
	}, nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
