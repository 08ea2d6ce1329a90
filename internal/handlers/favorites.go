package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/models"
	"github.com/soundfaves/spotify-favorites-api/internal/services"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
	"github.com/soundfaves/spotify-favorites-api/pkg/spotify"
)

// RegisterFavoritesHandlers registers the top-items and save-favorite routes
func RegisterFavoritesHandlers(r *gin.Engine, favoritesService *services.FavoritesService, logger zerolog.Logger) {
	handler := &favoritesHandler{
		favorites: favoritesService,
		logger:    logger.With().Str("handler", "favorites").Logger(),
	}

	api := r.Group("/api")
	{
		api.GET("/get_favorite_artists", handler.topArtists)
		api.GET("/get_favorite_tracks", handler.topTracks)
		api.GET("/:user_id/save_favorite_artist/:name", handler.saveFavorite(models.FavoriteArtist))
		api.GET("/:user_id/save_favorite_track/:name", handler.saveFavorite(models.FavoriteTrack))
		api.GET("/:user_id/save_favorite_album/:name", handler.saveFavorite(models.FavoriteAlbum))
	}
}

type favoritesHandler struct {
	favorites *services.FavoritesService
	logger    zerolog.Logger
}

// topArtists lists the authenticated listener's top artists as plain text
func (h *favoritesHandler) topArtists(c *gin.Context) {
	listing, err := h.favorites.TopArtists(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to retrieve top artists")
		return
	}
	c.String(http.StatusOK, listing)
}

// topTracks lists the authenticated listener's top tracks as plain text
func (h *favoritesHandler) topTracks(c *gin.Context) {
	listing, err := h.favorites.TopTracks(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to retrieve top tracks")
		return
	}
	c.String(http.StatusOK, listing)
}

// saveFavorite resolves the name against Spotify search and records the
// result on the user's list for the given kind
func (h *favoritesHandler) saveFavorite(kind models.FavoriteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		result, err := h.favorites.SaveFavorite(c.Request.Context(), userID, c.Param("name"), kind)
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			h.fail(c, err, "Failed to save favorite "+string(kind))
			return
		}

		label := kind.Label()
		switch result.Outcome {
		case services.SaveNotFound:
			c.JSON(http.StatusOK, gin.H{"message": label + " not found"})
		case services.SaveDuplicate:
			c.JSON(http.StatusOK, gin.H{"message": label + " already saved"})
		default:
			c.JSON(http.StatusOK, gin.H{
				"message": label + " saved successfully",
				"favorite_" + string(kind) + "s": result.List,
			})
		}
	}
}

// fail maps token and upstream errors to status codes. Unauthenticated
// callers are pointed at the login route; Spotify failures are a bad
// gateway; anything left is a store problem.
func (h *favoritesHandler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, services.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error().Err(err).Msg(msg)
	if errors.Is(err, spotify.ErrUpstream) || errors.Is(err, spotify.ErrAuthRefresh) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
