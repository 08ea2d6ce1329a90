package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/models"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
	"github.com/soundfaves/spotify-favorites-api/pkg/spotify"
)

// SaveOutcome distinguishes the non-error results of a favorite save.
// An empty search result and an exact duplicate are normal outcomes, not
// failures.
type SaveOutcome int

const (
	SaveSaved SaveOutcome = iota
	SaveNotFound
	SaveDuplicate
)

// SaveResult carries the outcome of a favorite save and, when saved, the
// user's updated list for that kind.
type SaveResult struct {
	Outcome SaveOutcome
	Entry   string
	List    []string
}

// FavoritesService resolves free-text queries against Spotify search and
// records the best match on a user's favorites lists.
type FavoritesService struct {
	tokens *TokenService
	client *spotify.Client
	store  *store.FileStore
	logger zerolog.Logger
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(tokens *TokenService, client *spotify.Client, st *store.FileStore, logger zerolog.Logger) *FavoritesService {
	return &FavoritesService{
		tokens: tokens,
		client: client,
		store:  st,
		logger: logger.With().Str("service", "favorites").Logger(),
	}
}

// SaveFavorite searches for the top match of the given kind and appends
// its formatted entry to the user's list. Returns store.ErrUserNotFound
// when the user id is unknown.
func (s *FavoritesService) SaveFavorite(ctx context.Context, userID int, query string, kind models.FavoriteKind) (*SaveResult, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.client.Search(ctx, token, query, string(kind))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return &SaveResult{Outcome: SaveNotFound}, nil
	}

	entry := formatEntry(item, kind)

	list, err := s.store.AppendFavorite(userID, kind, entry)
	if errors.Is(err, store.ErrAlreadySaved) {
		return &SaveResult{Outcome: SaveDuplicate, Entry: entry}, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", userID).Str("kind", string(kind)).Str("entry", entry).Msg("Favorite saved")
	return &SaveResult{Outcome: SaveSaved, Entry: entry, List: list}, nil
}

// TopArtists returns the authenticated listener's top artists as a
// 1-indexed plain listing.
func (s *FavoritesService) TopArtists(ctx context.Context) (string, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	artists, err := s.client.TopArtists(ctx, token)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(artists))
	for i, artist := range artists {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, artist.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// TopTracks returns the authenticated listener's top tracks as a
// 1-indexed plain listing with joined artist names.
func (s *FavoritesService) TopTracks(ctx context.Context) (string, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	tracks, err := s.client.TopTracks(ctx, token)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(tracks))
	for i, track := range tracks {
		names := make([]string, 0, len(track.Artists))
		for _, a := range track.Artists {
			names = append(names, a.Name)
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, track.Name, strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n"), nil
}

// formatEntry builds the display string recorded on the user. Tracks and
// albums carry their artist names; an artist entry is the bare name.
func formatEntry(item *spotify.SearchItem, kind models.FavoriteKind) string {
	if kind == models.FavoriteArtist || len(item.Artists) == 0 {
		return item.Name
	}
	return item.Name + " - " + strings.Join(item.Artists, ", ")
}
