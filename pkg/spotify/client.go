package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	spotifyAuthURL    = "https://accounts.spotify.com/authorize"
	spotifyTokenURL   = "https://accounts.spotify.com/api/token"
	spotifyAPIBaseURL = "https://api.spotify.com/v1"
)

// Sentinel errors returned (wrapped) by the client. Callers pick status
// codes with errors.Is.
var (
	ErrAuthExchange = errors.New("authorization code exchange failed")
	ErrAuthRefresh  = errors.New("token refresh failed")
	ErrUpstream     = errors.New("spotify request failed")
)

// Client handles communication with the Spotify API
type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	HTTPClient   *http.Client

	// Overridable in tests to point at a fake Spotify.
	AuthBaseURL string
	TokenURL    string
	APIBaseURL  string
}

// NewClient creates a new Spotify API client
func NewClient(clientID, clientSecret, redirectURI, scope string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		Scope:        scope,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		AuthBaseURL: spotifyAuthURL,
		TokenURL:    spotifyTokenURL,
		APIBaseURL:  spotifyAPIBaseURL,
	}
}

// AuthURL returns the URL to redirect the user to for Spotify authorization.
// No state or PKCE parameter is sent; the callback accepts any code.
func (c *Client) AuthURL() string {
	params := url.Values{}
	params.Add("client_id", c.ClientID)
	params.Add("response_type", "code")
	params.Add("redirect_uri", c.RedirectURI)
	params.Add("scope", c.Scope)

	return c.AuthBaseURL + "?" + params.Encode()
}

// TokenResponse represents the response from the Spotify token endpoint
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// ExchangeCode exchanges an authorization code for an access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.RedirectURI)
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)

	resp, err := c.doTokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}
	return resp, nil
}

// RefreshToken requests a new access token using a refresh token
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)

	resp, err := c.doTokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthRefresh, err)
	}
	return resp, nil
}

// doTokenRequest handles requests to the Spotify token endpoint
func (c *Client) doTokenRequest(ctx context.Context, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("non-200 response: %d %s", resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &tokenResp, nil
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a Spotify track.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
}

// Album represents a Spotify album.
type Album struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
}

// SearchItem is the normalized top search hit for any category. Artists
// carry no artist list of their own.
type SearchItem struct {
	Name    string
	Artists []string
}

type searchResponse struct {
	Artists struct {
		Items []Artist `json:"items"`
	} `json:"artists"`
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
	Albums struct {
		Items []Album `json:"items"`
	} `json:"albums"`
}

// Search queries the search endpoint for the single best match of the
// given type ("artist", "track" or "album"). A nil item with a nil error
// means the result page was empty.
func (c *Client) Search(ctx context.Context, accessToken, query, kind string) (*SearchItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("limit", "1")

	var result searchResponse
	if err := c.doAPIRequest(ctx, accessToken, "/search?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	switch kind {
	case "artist":
		if len(result.Artists.Items) == 0 {
			return nil, nil
		}
		return &SearchItem{Name: result.Artists.Items[0].Name}, nil
	case "track":
		if len(result.Tracks.Items) == 0 {
			return nil, nil
		}
		t := result.Tracks.Items[0]
		return &SearchItem{Name: t.Name, Artists: artistNames(t.Artists)}, nil
	case "album":
		if len(result.Albums.Items) == 0 {
			return nil, nil
		}
		a := result.Albums.Items[0]
		return &SearchItem{Name: a.Name, Artists: artistNames(a.Artists)}, nil
	}
	return nil, fmt.Errorf("unsupported search type %q", kind)
}

type topArtistsResponse struct {
	Items []Artist `json:"items"`
}

type topTracksResponse struct {
	Items []Track `json:"items"`
}

// TopArtists gets the authenticated listener's top artists
func (c *Client) TopArtists(ctx context.Context, accessToken string) ([]Artist, error) {
	var result topArtistsResponse
	if err := c.doAPIRequest(ctx, accessToken, "/me/top/artists", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// TopTracks gets the authenticated listener's top tracks
func (c *Client) TopTracks(ctx context.Context, accessToken string) ([]Track, error) {
	var result topTracksResponse
	if err := c.doAPIRequest(ctx, accessToken, "/me/top/tracks", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// doAPIRequest performs an authenticated GET against the Web API
func (c *Client) doAPIRequest(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.APIBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: non-200 response: %d %s", ErrUpstream, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func artistNames(artists []Artist) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}
