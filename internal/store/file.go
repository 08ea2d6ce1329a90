// Package store owns the flat-file user directory. All mutations are
// serialized through one lock and rewrite the whole file; reads are served
// from an in-memory mirror kept consistent with disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrAlreadySaved = errors.New("favorite already saved")
)

// FileStore persists the user collection as a single JSON array.
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu    sync.RWMutex
	users []models.User
}

// NewFileStore opens the store at path, loading the existing collection.
// A missing file is an empty directory, not an error.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger.With().Str("component", "store").Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading user store: %w", err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("parsing user store: %w", err)
	}

	s.logger.Info().Int("users", len(s.users)).Str("path", path).Msg("User store loaded")
	return s, nil
}

// All returns a copy of every user record.
func (s *FileStore) All() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for i := range s.users {
		users = append(users, s.users[i].Clone())
	}
	return users
}

// Get returns the user with the given id.
func (s *FileStore) Get(id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i].Clone()
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create appends a new user with the next free id (max existing + 1).
// The email must be unique across the directory.
func (s *FileStore) Create(name, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for i := range s.users {
		if s.users[i].Email == email {
			return nil, ErrEmailExists
		}
		if s.users[i].ID > maxID {
			maxID = s.users[i].ID
		}
	}

	user := models.User{
		ID:              maxID + 1,
		Name:            name,
		Email:           email,
		Password:        password,
		FavoriteArtists: []string{},
		FavoriteTracks:  []string{},
		FavoriteAlbums:  []string{},
	}
	s.users = append(s.users, user)

	if err := s.writeLocked(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return nil, err
	}

	u := user.Clone()
	return &u, nil
}

// Update replaces the name, email and password of the user with the given id.
func (s *FileStore) Update(id int, name, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}

		prev := s.users[i]
		s.users[i].Name = name
		s.users[i].Email = email
		s.users[i].Password = password

		if err := s.writeLocked(); err != nil {
			s.users[i] = prev
			return nil, err
		}

		u := s.users[i].Clone()
		return &u, nil
	}
	return nil, ErrUserNotFound
}

// Delete removes the user with the given id.
func (s *FileStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}

		removed := s.users[i]
		s.users = append(s.users[:i], s.users[i+1:]...)

		if err := s.writeLocked(); err != nil {
			s.users = append(s.users[:i], append([]models.User{removed}, s.users[i:]...)...)
			return err
		}
		return nil
	}
	return ErrUserNotFound
}

// AppendFavorite adds a formatted entry to one of the user's favorites
// lists. Duplicate entries (exact string equality) are rejected with
// ErrAlreadySaved and the file is not rewritten.
func (s *FileStore) AppendFavorite(id int, kind models.FavoriteKind, entry string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}

		for _, existing := range s.users[i].Favorites(kind) {
			if existing == entry {
				return nil, ErrAlreadySaved
			}
		}

		s.users[i].AddFavorite(kind, entry)

		if err := s.writeLocked(); err != nil {
			list := s.users[i].Favorites(kind)
			switch kind {
			case models.FavoriteArtist:
				s.users[i].FavoriteArtists = list[:len(list)-1]
			case models.FavoriteTrack:
				s.users[i].FavoriteTracks = list[:len(list)-1]
			case models.FavoriteAlbum:
				s.users[i].FavoriteAlbums = list[:len(list)-1]
			}
			return nil, err
		}

		return append([]string(nil), s.users[i].Favorites(kind)...), nil
	}
	return nil, ErrUserNotFound
}

// writeLocked rewrites the whole collection. Callers hold the write lock.
func (s *FileStore) writeLocked() error {
	data, err := json.MarshalIndent(s.users, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding user store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing user store: %w", err)
	}
	return nil
}
