package spotify

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zmb3/spotify/v2"

	"spotcli/internal/domain/favorite"
)

// appendValid пропускает объекты без URI: их нельзя воспроизвести
func appendValid(favs []favorite.Favorite, f favorite.Favorite) []favorite.Favorite {
	if f.Name == "" || f.URI == "" {
		return favs
	}
	return append(favs, f)
}

func artistFavorite(a spotify.FullArtist) favorite.Favorite {
	parts := []string{humanize.Comma(int64(a.Followers.Count)) + " followers"}
	if len(a.Genres) > 0 {
		parts = append(parts, strings.Join(a.Genres, ", "))
	}

	return favorite.Favorite{
		Name:        a.Name,
		Category:    favorite.CategoryArtist,
		URI:         string(a.URI),
		ExternalURL: a.ExternalURLs["spotify"],
		Description: strings.Join(parts, " · "),
	}
}

func albumFavorite(a spotify.SimpleAlbum) favorite.Favorite {
	description := artistNames(a.Artists)
	if a.ReleaseDate != "" {
		description = joinNonEmpty(description, a.ReleaseDate)
	}

	return favorite.Favorite{
		Name:        a.Name,
		Category:    favorite.CategoryAlbum,
		URI:         string(a.URI),
		ExternalURL: a.ExternalURLs["spotify"],
		Description: description,
	}
}

func playlistFavorite(p spotify.SimplePlaylist) favorite.Favorite {
	var owner string
	if p.Owner.DisplayName != "" {
		owner = "by " + p.Owner.DisplayName
	}

	return favorite.Favorite{
		Name:        p.Name,
		Category:    favorite.CategoryPlaylist,
		URI:         string(p.URI),
		ExternalURL: p.ExternalURLs["spotify"],
		Description: joinNonEmpty(owner, p.Description),
	}
}

func showFavorite(name string, uri spotify.URI, urls map[string]string, publisher string) favorite.Favorite {
	return favorite.Favorite{
		Name:        name,
		Category:    favorite.CategoryPodcast,
		URI:         string(uri),
		ExternalURL: urls["spotify"],
		Description: publisher,
	}
}

func trackFavorite(t spotify.FullTrack) favorite.Favorite {
	return favorite.Favorite{
		Name:        t.Name,
		Category:    favorite.CategoryTrack,
		URI:         string(t.URI),
		ExternalURL: t.ExternalURLs["spotify"],
		Description: joinNonEmpty(artistNames(t.Artists), t.Album.Name),
	}
}

func artistNames(artists []spotify.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}
