package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/pkg/spotify"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMissingAuthCode = errors.New("authorization code not provided")
	ErrUnauthenticated = errors.New("access token not available, please authenticate first at /")
)

// tokenCache holds the single process-wide token pair. One operator
// authenticates the process; local directory users share the tokens.
type tokenCache struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// set stores a token response. A response without a refresh token keeps
// the previous one; Spotify does not always rotate it.
func (c *tokenCache) set(resp *spotify.TokenResponse, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = resp.AccessToken
	c.expiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	if resp.RefreshToken != "" {
		c.refreshToken = resp.RefreshToken
	}
}

func (c *tokenCache) snapshot() (access, refresh string, expiresAt time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken, c.expiresAt
}

// TokenService drives the OAuth flow against Spotify and guards access to
// the cached token pair.
type TokenService struct {
	client *spotify.Client
	cache  tokenCache
	group  singleflight.Group
	logger zerolog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(client *spotify.Client, logger zerolog.Logger) *TokenService {
	return &TokenService{
		client: client,
		logger: logger.With().Str("service", "token").Logger(),
		now:    time.Now,
	}
}

// AuthURL returns the Spotify authorization URL to redirect the operator to.
func (s *TokenService) AuthURL() string {
	return s.client.AuthURL()
}

// HandleCallback exchanges an authorization code for a token pair and
// stores it. An empty code fails before any network call; a failed
// exchange leaves the cache untouched.
func (s *TokenService) HandleCallback(ctx context.Context, code string) error {
	if code == "" {
		return ErrMissingAuthCode
	}

	resp, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}

	s.cache.set(resp, s.now())
	s.logger.Info().Msg("Token pair saved")
	return nil
}

// AccessToken returns a currently-valid access token, refreshing through
// Spotify when the cached one has expired. Concurrent callers observing an
// expired token share a single refresh call.
func (s *TokenService) AccessToken(ctx context.Context) (string, error) {
	access, _, expiresAt := s.cache.snapshot()
	if access == "" {
		return "", ErrUnauthenticated
	}
	if s.now().Before(expiresAt) {
		return access, nil
	}

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		// A caller that waited on an in-flight refresh sees a fresh token here.
		access, refresh, expiresAt := s.cache.snapshot()
		if s.now().Before(expiresAt) {
			return access, nil
		}

		s.logger.Debug().Msg("Refreshing expired access token")
		resp, err := s.client.RefreshToken(ctx, refresh)
		if err != nil {
			return nil, err
		}

		s.cache.set(resp, s.now())
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
