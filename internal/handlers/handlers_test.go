package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/soundfaves/spotify-favorites-api/internal/services"
	"github.com/soundfaves/spotify-favorites-api/internal/store"
	"github.com/soundfaves/spotify-favorites-api/pkg/spotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the full handler surface against a fake Spotify
// (token endpoint at /token, API at the server root) and a temp store.
func newTestRouter(t *testing.T, upstream http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := spotify.NewClient("client-id", "client-secret", "http://localhost:8080/callback", "user-top-read")
	client.TokenURL = srv.URL + "/token"
	client.APIBaseURL = srv.URL

	path := filepath.Join(t.TempDir(), "users.json")
	st, err := store.NewFileStore(path, zerolog.Nop())
	require.NoError(t, err)

	logger := zerolog.Nop()
	tokens := services.NewTokenService(client, logger)
	users := services.NewUserService(st, logger)
	favorites := services.NewFavoritesService(tokens, client, st, logger)

	r := gin.New()
	RegisterAuthHandlers(r, tokens, logger)
	RegisterUserHandlers(r, users, logger)
	RegisterFavoritesHandlers(r, favorites, logger)
	return r
}

func fakeUpstream(searchBody string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"T1","refresh_token":"R1","expires_in":3600}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	})
	mux.HandleFunc("/me/top/artists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"name":"Artist X"},{"name":"Artist Y"}]}`))
	})
	return mux
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRedirectsToAuthorize(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "GET", "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "response_type=code")
}

func TestCallbackMissingCode(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "GET", "/callback", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization code not provided")
}

func TestCallbackSavesTokens(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "GET", "/callback?code=auth-code", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tokens saved successfully")
}

func TestTopArtistsRequiresAuthentication(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "GET", "/api/get_favorite_artists", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTopArtistsListing(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	require.Equal(t, http.StatusOK, do(r, "GET", "/callback?code=auth-code", "").Code)

	w := do(r, "GET", "/api/get_favorite_artists", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1. Artist X\n2. Artist Y", w.Body.String())
}

func TestSaveUserAndDuplicateEmail(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "POST", "/api/save_user", `{"name":"Alice","email":"alice@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			ID int `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.User.ID)

	w = do(r, "POST", "/api/save_user", `{"name":"Other","email":"alice@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestSaveUserInvalidBody(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	w := do(r, "POST", "/api/save_user", `{"name":"Alice","email":"not-an-email","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserCRUD(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{}`))

	require.Equal(t, http.StatusOK, do(r, "POST", "/api/save_user", `{"name":"Alice","email":"alice@example.com","password":"pw"}`).Code)

	w := do(r, "GET", "/api/get_user/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")

	w = do(r, "GET", "/api/get_user/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, "PUT", "/api/update_user/1", `{"name":"Alicia","email":"alicia@example.com","password":"pw2"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User updated successfully")

	w = do(r, "GET", "/api/get_all_users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alicia@example.com")

	w = do(r, "DELETE", "/api/delete_user/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "DELETE", "/api/delete_user/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveFavoriteTrackFlow(t *testing.T) {
	searchBody := `{"tracks":{"items":[{"name":"Song A","artists":[{"name":"Artist X"}]}]}}`
	r := newTestRouter(t, fakeUpstream(searchBody))

	require.Equal(t, http.StatusOK, do(r, "GET", "/callback?code=auth-code", "").Code)
	require.Equal(t, http.StatusOK, do(r, "POST", "/api/save_user", `{"name":"Alice","email":"alice@example.com","password":"pw"}`).Code)

	w := do(r, "GET", "/api/1/save_favorite_track/song%20a", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Track saved successfully")
	assert.Contains(t, w.Body.String(), "Song A - Artist X")

	w = do(r, "GET", "/api/1/save_favorite_track/song%20a", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Track already saved")

	w = do(r, "GET", "/api/9/save_favorite_track/song%20a", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestSaveFavoriteArtistNotFound(t *testing.T) {
	r := newTestRouter(t, fakeUpstream(`{"artists":{"items":[]}}`))

	require.Equal(t, http.StatusOK, do(r, "GET", "/callback?code=auth-code", "").Code)
	require.Equal(t, http.StatusOK, do(r, "POST", "/api/save_user", `{"name":"Alice","email":"alice@example.com","password":"pw"}`).Code)

	w := do(r, "GET", "/api/1/save_favorite_artist/nobody", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Artist not found")
}
