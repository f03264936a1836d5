package spotify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spotcli/internal/config"
)

func testSpotifyConfig() config.SpotifyConfig {
	return config.SpotifyConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://127.0.0.1:8888/callback",
		Scope:        "user-read-playback-state user-modify-playback-state",
		DeviceName:   "Kitchen",
	}
}

func TestNewAuthenticator(t *testing.T) {
	a, err := NewAuthenticator(testSpotifyConfig(), time.Second, zap.NewNop())
	require.NoError(t, err)

	authURL := a.AuthURL()
	assert.Contains(t, authURL, "client_id=client")
	assert.Contains(t, authURL, "state="+a.state)
	assert.Contains(t, authURL, "user-read-playback-state")
	assert.NotEmpty(t, a.state)
}

func TestNewAuthenticator_InvalidRedirect(t *testing.T) {
	cfg := testSpotifyConfig()
	cfg.RedirectURI = "/callback"

	_, err := NewAuthenticator(cfg, time.Second, zap.NewNop())
	assert.Error(t, err)
}

func TestCallbackHandler_RejectsStateMismatch(t *testing.T) {
	a, err := NewAuthenticator(testSpotifyConfig(), time.Second, zap.NewNop())
	require.NoError(t, err)

	results := make(chan callbackResult, 1)
	handler := a.callbackHandler(context.Background(), results)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=forged", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	res := <-results
	assert.Error(t, res.err)
	assert.Nil(t, res.token)
}

func TestLogin_ContextCancelled(t *testing.T) {
	cfg := testSpotifyConfig()
	cfg.RedirectURI = "http://127.0.0.1:0/callback"

	a, err := NewAuthenticator(cfg, time.Second, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err = a.Login(ctx, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "https://accounts.spotify.com/authorize")
}
