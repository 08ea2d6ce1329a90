package services

import (
	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/models"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
)

// UserService handles the local user directory
type UserService struct {
	store  *store.FileStore
	logger zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.FileStore, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// CreateUser registers a new user with empty favorites lists
func (s *UserService) CreateUser(name, email, password string) (*models.User, error) {
	user, err := s.store.Create(name, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("id", user.ID).Msg("User created")
	return user, nil
}

// GetUser gets a user by id
func (s *UserService) GetUser(id int) (*models.User, error) {
	return s.store.Get(id)
}

// GetAllUsers returns the whole directory
func (s *UserService) GetAllUsers() []models.User {
	return s.store.All()
}

// UpdateUser replaces a user's name, email and password
func (s *UserService) UpdateUser(id int, name, email, password string) (*models.User, error) {
	return s.store.Update(id, name, email, password)
}

// DeleteUser removes a user by id
func (s *UserService) DeleteUser(id int) error {
	err := s.store.Delete(id)
	if err == nil {
		s.logger.Info().Int("id", id).Msg("User deleted")
	}
	return err
}
