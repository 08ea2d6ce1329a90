package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/services"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
)

// userPayload is the request body for creating and updating users
type userPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserHandlers registers the user directory CRUD routes
func RegisterUserHandlers(r *gin.Engine, userService *services.UserService, logger zerolog.Logger) {
	handler := &userHandler{
		users:  userService,
		logger: logger.With().Str("handler", "user").Logger(),
	}

	api := r.Group("/api")
	{
		api.POST("/save_user", handler.saveUser)
		api.GET("/get_user/:id", handler.getUser)
		api.GET("/get_all_users", handler.getAllUsers)
		api.PUT("/update_user/:id", handler.updateUser)
		api.DELETE("/delete_user/:id", handler.deleteUser)
	}
}

type userHandler struct {
	users  *services.UserService
	logger zerolog.Logger
}

// saveUser creates a new user with a unique email
func (h *userHandler) saveUser(c *gin.Context) {
	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.CreateUser(payload.Name, payload.Email, payload.Password)
	if errors.Is(err, store.ErrEmailExists) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "user": user})
}

// getUser returns a user by id
func (h *userHandler) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(id)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// getAllUsers returns the whole directory
func (h *userHandler) getAllUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.users.GetAllUsers()})
}

// updateUser replaces a user's name, email and password
func (h *userHandler) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateUser(id, payload.Name, payload.Email, payload.Password)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// deleteUser removes a user by id
func (h *userHandler) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.users.DeleteUser(id)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return id, true
}
