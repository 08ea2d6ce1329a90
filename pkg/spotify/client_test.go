package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthURL(t *testing.T) {
	c := NewClient("my-client", "my-secret", "http://localhost:8080/callback", "user-top-read")

	u, err := url.Parse(c.AuthURL())
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "my-client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "user-top-read", q.Get("scope"))
	assert.False(t, q.Has("state"))
}

func TestExchangeCodeSendsGrantParameters(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"T1","refresh_token":"R1","expires_in":3600}`))
	}))
	defer srv.Close()

	c := NewClient("my-client", "my-secret", "http://localhost:8080/callback", "user-top-read")
	c.TokenURL = srv.URL

	resp, err := c.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)

	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, "the-code", form.Get("code"))
	assert.Equal(t, "http://localhost:8080/callback", form.Get("redirect_uri"))
	assert.Equal(t, "my-client", form.Get("client_id"))
	assert.Equal(t, "my-secret", form.Get("client_secret"))
	assert.Equal(t, "T1", resp.AccessToken)
	assert.Equal(t, "R1", resp.RefreshToken)
}

func TestRefreshTokenErrorCarriesUpstreamDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := NewClient("my-client", "my-secret", "http://localhost:8080/callback", "user-top-read")
	c.TokenURL = srv.URL

	_, err := c.RefreshToken(context.Background(), "R1")
	require.ErrorIs(t, err, ErrAuthRefresh)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestSearchEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"items":[]}}`))
	}))
	defer srv.Close()

	c := NewClient("my-client", "my-secret", "http://localhost:8080/callback", "user-top-read")
	c.APIBaseURL = srv.URL

	item, err := c.Search(context.Background(), "token", "nothing", "track")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestSearchUnsupportedKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("my-client", "my-secret", "http://localhost:8080/callback", "user-top-read")
	c.APIBaseURL = srv.URL

	_, err := c.Search(context.Background(), "token", "q", "playlist")
	assert.Error(t, err)
}
