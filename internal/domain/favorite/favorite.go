// Package favorite содержит модель избранных объектов каталога.
package favorite

import (
	"fmt"
	"strings"
)

// Category тип объекта каталога
type Category string

// Поддерживаемые категории
const (
	CategoryArtist   Category = "artist"
	CategoryAlbum    Category = "album"
	CategoryPlaylist Category = "playlist"
	CategoryPodcast  Category = "podcast"
	CategoryEpisode  Category = "episode"
	CategoryTrack    Category = "track"
)

// Categories перечисляет категории в порядке отображения
var Categories = []Category{
	CategoryArtist,
	CategoryAlbum,
	CategoryPlaylist,
	CategoryPodcast,
	CategoryEpisode,
	CategoryTrack,
}

// aliases сопоставляет вводимые пользователем слова с категориями
var aliases = map[string]Category{
	"artist":    CategoryArtist,
	"artists":   CategoryArtist,
	"album":     CategoryAlbum,
	"albums":    CategoryAlbum,
	"playlist":  CategoryPlaylist,
	"playlists": CategoryPlaylist,
	"podcast":   CategoryPodcast,
	"podcasts":  CategoryPodcast,
	"show":      CategoryPodcast,
	"shows":     CategoryPodcast,
	"episode":   CategoryEpisode,
	"episodes":  CategoryEpisode,
	"track":     CategoryTrack,
	"tracks":    CategoryTrack,
}

// ParseCategory разбирает название категории, допускает множественное число
func ParseCategory(s string) (Category, error) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Plural возвращает название категории во множественном числе
func (c Category) Plural() string {
	return string(c) + "s"
}

// Favorite представляет именованный объект каталога, который можно воспроизвести
type Favorite struct {
	Name        string
	Category    Category
	URI         string
	ExternalURL string
	Description string
}

// Token возвращает токен реестра команд: "<category>:<name>"
func (f Favorite) Token() string {
	return string(f.Category) + ":" + f.Name
}

// Validate проверяет обязательные поля
func (f Favorite) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("favorite name is required")
	}
	if f.URI == "" {
		return fmt.Errorf("favorite %q: uri is required", f.Name)
	}
	if _, err := ParseCategory(string(f.Category)); err != nil {
		return fmt.Errorf("favorite %q: %w", f.Name, err)
	}
	return nil
}

// FilterByCategory возвращает избранное указанной категории с сохранением порядка
func FilterByCategory(favs []Favorite, c Category) []Favorite {
	var out []Favorite
	for _, f := range favs {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// FindByName возвращает первое избранное с указанным именем
func FindByName(favs []Favorite, name string) (Favorite, bool) {
	for _, f := range favs {
		if f.Name == name {
			return f, true
		}
	}
	return Favorite{}, false
}
