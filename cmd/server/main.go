package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/soundfaves/spotify-favorites-api/internal/config"
	"github.com/soundfaves/spotify-favorites-api/internal/handlers"
	"github.com/soundfaves/spotify-favorites-api/internal/services"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
	"github.com/soundfaves/spotify-favorites-api/internal/utils"
	"github.com/soundfaves/spotify-favorites-api/pkg/spotify"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize logger
	logger := utils.NewLogger()
	logger.Info().Msg("Starting Spotify favorites API")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger.Info().Msg("Running in development mode")
	}

	// Open the user store
	userStore, err := store.NewFileStore(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open user store")
	}

	// Initialize services
	spotifyClient := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI, cfg.Spotify.Scope)
	tokenService := services.NewTokenService(spotifyClient, logger)
	userService := services.NewUserService(userStore, logger)
	favoritesService := services.NewFavoritesService(tokenService, spotifyClient, userStore, logger)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware(logger))

	// Register routes
	logger.Info().Msg("Registering routes")
	handlers.RegisterAuthHandlers(router, tokenService, logger)
	handlers.RegisterUserHandlers(router, userService, logger)
	handlers.RegisterFavoritesHandlers(router, favoritesService, logger)

	// Setup server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Msgf("Starting server on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.GracefulShutdownSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exiting")
}
