package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotcli/internal/domain/favorite"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	return NewClient(api, fastRetry(2), zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_Devices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/devices", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"devices":[
			{"id":"d1","name":"Kitchen","type":"Speaker","is_active":true,"volume_percent":40},
			{"id":"d2","name":"Laptop","type":"Computer","is_active":false,"volume_percent":0}
		]}`)
	}))

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "d1", devices[0].ID)
	assert.Equal(t, "Kitchen", devices[0].Name)
	assert.True(t, devices[0].Active)
	assert.Equal(t, 40, devices[0].Volume)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "nerdland", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `{
			"artists":{"items":[
				{"name":"Nerdland Band","uri":"spotify:artist:a1","external_urls":{"spotify":"https://open.spotify.com/artist/a1"},
				 "followers":{"total":1234567},"genres":["podcast","comedy"]},
				{"name":"Broken","uri":""}
			]},
			"tracks":{"items":[
				{"name":"Theme","uri":"spotify:track:t1","artists":[{"name":"Lieven"}],"album":{"name":"Intro"}}
			]}
		}`)
	}))

	results, err := client.Search(context.Background(), "nerdland", nil, 3)
	require.NoError(t, err)

	artists := results[favorite.CategoryArtist]
	require.Len(t, artists, 1)
	assert.Equal(t, "Nerdland Band", artists[0].Name)
	assert.Equal(t, "spotify:artist:a1", artists[0].URI)
	assert.Equal(t, "https://open.spotify.com/artist/a1", artists[0].ExternalURL)
	assert.Equal(t, "1,234,567 followers · podcast, comedy", artists[0].Description)

	tracks := results[favorite.CategoryTrack]
	require.Len(t, tracks, 1)
	assert.Equal(t, "Lieven · Intro", tracks[0].Description)

	assert.Empty(t, results[favorite.CategoryPodcast])
}

func TestClient_Playlists_Paginates(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/me/playlists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{
				"items":[{"name":"Focus","uri":"spotify:playlist:p1","owner":{"display_name":"me"}}],
				"total":2,"limit":1,"offset":0,
				"next":"%s/me/playlists?offset=1&limit=1"}`, serverURL))
			return
		}
		writeJSON(w, http.StatusOK, `{
			"items":[{"name":"Sleep","uri":"spotify:playlist:p2","description":"calm"}],
			"total":2,"limit":1,"offset":1,"next":null}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	serverURL = server.URL

	api := spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	client := NewClient(api, fastRetry(0), zap.NewNop())

	playlists, err := client.Playlists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "Focus", playlists[0].Name)
	assert.Equal(t, "by me", playlists[0].Description)
	assert.Equal(t, "Sleep", playlists[1].Name)
	assert.Equal(t, favorite.CategoryPlaylist, playlists[1].Category)
}

func TestClient_StartPlayback(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantContext string
		wantURIs    []string
	}{
		{"context uri", "spotify:show:nerdland", "spotify:show:nerdland", nil},
		{"track uri", "spotify:track:t1", "", []string{"spotify:track:t1"}},
		{"episode uri", "spotify:episode:e1", "", []string{"spotify:episode:e1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/me/player/play", r.URL.Path)
				assert.Equal(t, "d1", r.URL.Query().Get("device_id"))

				var body struct {
					ContextURI string   `json:"context_uri"`
					URIs       []string `json:"uris"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantContext, body.ContextURI)
				assert.Equal(t, tt.wantURIs, body.URIs)

				w.WriteHeader(http.StatusNoContent)
			}))

			require.NoError(t, client.StartPlayback(context.Background(), "d1", tt.uri))
		})
	}
}

func TestClient_TransportErrorsAreNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusServiceUnavailable, `{"error":{"status":503,"message":"unavailable"}}`)
	}))

	err := client.Pause(context.Background(), "d1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_ReadErrorsAreRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeJSON(w, http.StatusBadGateway, `{"error":{"status":502,"message":"bad gateway"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"devices":[]}`)
	}))

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
	assert.Equal(t, 2, calls)
}

func TestIsItemURI(t *testing.T) {
	assert.True(t, isItemURI("spotify:track:abc"))
	assert.True(t, isItemURI("spotify:episode:abc"))
	assert.False(t, isItemURI("spotify:album:abc"))
	assert.False(t, isItemURI("spotify:show:abc"))
	assert.False(t, isItemURI("spotify:user:me:playlist:abc"))
	assert.False(t, isItemURI("garbage"))
}

// newPagedClient отдает две страницы по пути path: вторая запрашивается по ссылке next
func newPagedClient(t *testing.T, path, firstItems, secondItems string) *Client {
	t.Helper()

	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"items":[%s],"total":2,"limit":1,"offset":0,"next":"%s%s?offset=1&limit=1"}`,
				firstItems, serverURL, path))
			return
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"items":[%s],"total":2,"limit":1,"offset":1,"next":null}`, secondItems))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	serverURL = server.URL

	api := spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	return NewClient(api, fastRetry(0), zap.NewNop())
}

func TestClient_LibraryPagination(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		first     string
		second    string
		fetch     func(*Client) ([]favorite.Favorite, error)
		category  favorite.Category
		wantNames []string
	}{
		{
			name:      "saved albums",
			path:      "/me/albums",
			first:     `{"album":{"name":"Discovery","uri":"spotify:album:a1","artists":[{"name":"Daft Punk"}],"release_date":"2001-03-12"}}`,
			second:    `{"album":{"name":"Homework","uri":"spotify:album:a2"}}`,
			fetch:     func(c *Client) ([]favorite.Favorite, error) { return c.SavedAlbums(context.Background()) },
			category:  favorite.CategoryAlbum,
			wantNames: []string{"Discovery", "Homework"},
		},
		{
			name:      "saved shows",
			path:      "/me/shows",
			first:     `{"show":{"name":"Nerdland","uri":"spotify:show:s1","publisher":"Nerdland"}}`,
			second:    `{"show":{"name":"Radiolab","uri":"spotify:show:s2"}}`,
			fetch:     func(c *Client) ([]favorite.Favorite, error) { return c.SavedShows(context.Background()) },
			category:  favorite.CategoryPodcast,
			wantNames: []string{"Nerdland", "Radiolab"},
		},
		{
			name:      "artist albums",
			path:      "/artists/ar1/albums",
			first:     `{"name":"Black Sands","uri":"spotify:album:b1","artists":[{"name":"Bonobo"}]}`,
			second:    `{"name":"Migration","uri":"spotify:album:b2"}`,
			fetch:     func(c *Client) ([]favorite.Favorite, error) { return c.ArtistAlbums(context.Background(), "spotify:artist:ar1") },
			category:  favorite.CategoryAlbum,
			wantNames: []string{"Black Sands", "Migration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newPagedClient(t, tt.path, tt.first, tt.second)

			got, err := tt.fetch(client)
			require.NoError(t, err)

			var names []string
			for _, f := range got {
				assert.Equal(t, tt.category, f.Category)
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestClient_SavedAlbumsDescription(t *testing.T) {
	client := newPagedClient(t, "/me/albums",
		`{"album":{"name":"Discovery","uri":"spotify:album:a1","artists":[{"name":"Daft Punk"}],"release_date":"2001-03-12"}}`,
		`{"album":{"name":"Homework","uri":"spotify:album:a2"}}`)

	albums, err := client.SavedAlbums(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, albums)
	assert.Equal(t, "Daft Punk · 2001-03-12", albums[0].Description)
}

func TestClient_FollowedArtists_FollowsCursor(t *testing.T) {
	var afters []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/following", r.URL.Path)
		assert.Equal(t, "artist", r.URL.Query().Get("type"))

		after := r.URL.Query().Get("after")
		afters = append(afters, after)

		if after == "" {
			writeJSON(w, http.StatusOK, `{"artists":{
				"items":[{"name":"Bonobo","uri":"spotify:artist:ar1","followers":{"total":1500}}],
				"limit":1,"total":2,"cursors":{"after":"ar1"}}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"artists":{
			"items":[{"name":"Tycho","uri":"spotify:artist:ar2","followers":{"total":20}}],
			"limit":1,"total":2,"cursors":{"after":""}}}`)
	}))

	artists, err := client.FollowedArtists(context.Background())
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Bonobo", artists[0].Name)
	assert.Equal(t, "1,500 followers", artists[0].Description)
	assert.Equal(t, "Tycho", artists[1].Name)
	assert.Equal(t, []string{"", "ar1"}, afters)
}

func TestClient_ArtistAlbums_RejectsNonArtistURI(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := client.ArtistAlbums(context.Background(), "spotify:show:1")
	assert.Error(t, err)
	assert.Zero(t, calls)
}
