package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/services"
)

// RegisterAuthHandlers registers the OAuth login and callback routes
func RegisterAuthHandlers(r *gin.Engine, tokenService *services.TokenService, logger zerolog.Logger) {
	handler := &authHandler{
		tokens: tokenService,
		logger: logger.With().Str("handler", "auth").Logger(),
	}

	r.GET("/", handler.login)
	r.GET("/callback", handler.callback)
}

type authHandler struct {
	tokens *services.TokenService
	logger zerolog.Logger
}

// login redirects the operator to Spotify's authorize page
func (h *authHandler) login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.tokens.AuthURL())
}

// callback exchanges the authorization code for a token pair
func (h *authHandler) callback(c *gin.Context) {
	err := h.tokens.HandleCallback(c.Request.Context(), c.Query("code"))
	if errors.Is(err, services.ErrMissingAuthCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not provided"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to exchange code for token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tokens saved successfully"})
}
