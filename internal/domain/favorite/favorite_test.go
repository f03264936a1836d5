package favorite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"artist", CategoryArtist, false},
		{"Albums", CategoryAlbum, false},
		{" playlists ", CategoryPlaylist, false},
		{"show", CategoryPodcast, false},
		{"podcasts", CategoryPodcast, false},
		{"episode", CategoryEpisode, false},
		{"tracks", CategoryTrack, false},
		{"video", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFavorite_Token(t *testing.T) {
	f := Favorite{Name: "90 minutes", Category: CategoryPodcast, URI: "spotify:show:1"}
	assert.Equal(t, "podcast:90 minutes", f.Token())
}

func TestFavorite_Validate(t *testing.T) {
	assert.NoError(t, Favorite{Name: "a", Category: CategoryAlbum, URI: "u"}.Validate())
	assert.Error(t, Favorite{Category: CategoryAlbum, URI: "u"}.Validate())
	assert.Error(t, Favorite{Name: "a", Category: CategoryAlbum}.Validate())
	assert.Error(t, Favorite{Name: "a", Category: "video", URI: "u"}.Validate())
}

func TestFilterByCategory_PreservesOrder(t *testing.T) {
	favs := []Favorite{
		{Name: "b", Category: CategoryPodcast},
		{Name: "x", Category: CategoryAlbum},
		{Name: "a", Category: CategoryPodcast},
	}

	got := FilterByCategory(favs, CategoryPodcast)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "a", got[1].Name)
}

func TestFindByName_FirstMatchWins(t *testing.T) {
	favs := []Favorite{
		{Name: "dup", URI: "first"},
		{Name: "dup", URI: "second"},
	}

	f, ok := FindByName(favs, "dup")
	require.True(t, ok)
	assert.Equal(t, "first", f.URI)

	_, ok = FindByName(favs, "missing")
	assert.False(t, ok)
}
