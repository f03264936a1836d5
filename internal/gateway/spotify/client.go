// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotcli/internal/domain/device"
	"spotcli/internal/domain/favorite"
)

// pageSize максимальный размер страницы библиотеки пользователя
const pageSize = 50

// Client представляет клиент для работы с Spotify API от имени пользователя
type Client struct {
	api    *spotify.Client
	retry  RetryConfig
	logger *zap.Logger
}

// NewClient создает клиент поверх авторизованного spotify.Client
func NewClient(api *spotify.Client, retry RetryConfig, logger *zap.Logger) *Client {
	return &Client{
		api:    api,
		retry:  retry,
		logger: logger,
	}
}

// withRetry повторяет только запросы на чтение
func (c *Client) withRetry(ctx context.Context, fn RetryableFunc) error {
	return WithRetry(ctx, c.logger, c.retry, fn)
}

// Devices возвращает доступные устройства Spotify Connect
func (c *Client) Devices(ctx context.Context) ([]device.Device, error) {
	var devices []spotify.PlayerDevice
	err := c.withRetry(ctx, func() error {
		var err error
		devices, err = c.api.PlayerDevices(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	out := make([]device.Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, device.Device{
			ID:     string(d.ID),
			Name:   d.Name,
			Type:   d.Type,
			Active: d.Active,
			Volume: int(d.Volume),
		})
	}

	c.logger.Debug("Retrieved devices", zap.Int("count", len(out)))
	return out, nil
}

// Search ищет по каталогу. Пустой список категорий означает поиск по всем.
func (c *Client) Search(ctx context.Context, query string, categories []favorite.Category, limit int) (map[favorite.Category][]favorite.Favorite, error) {
	if len(categories) == 0 {
		categories = favorite.Categories
	}

	var searchType spotify.SearchType
	for _, category := range categories {
		searchType |= searchTypeFor(category)
	}

	c.logger.Debug("Searching catalog",
		zap.String("query", query),
		zap.Int("limit", limit),
		zap.Int("categories", len(categories)))

	var result *spotify.SearchResult
	err := c.withRetry(ctx, func() error {
		var err error
		result, err = c.api.Search(ctx, query, searchType, spotify.Limit(limit))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	out := make(map[favorite.Category][]favorite.Favorite)

	if result.Artists != nil {
		for _, a := range result.Artists.Artists {
			out[favorite.CategoryArtist] = appendValid(out[favorite.CategoryArtist], artistFavorite(a))
		}
	}
	if result.Albums != nil {
		for _, a := range result.Albums.Albums {
			out[favorite.CategoryAlbum] = appendValid(out[favorite.CategoryAlbum], albumFavorite(a))
		}
	}
	if result.Playlists != nil {
		for _, p := range result.Playlists.Playlists {
			out[favorite.CategoryPlaylist] = appendValid(out[favorite.CategoryPlaylist], playlistFavorite(p))
		}
	}
	if result.Shows != nil {
		for _, s := range result.Shows.Shows {
			out[favorite.CategoryPodcast] = appendValid(out[favorite.CategoryPodcast],
				showFavorite(s.Name, s.URI, s.ExternalURLs, s.Publisher))
		}
	}
	if result.Episodes != nil {
		for _, e := range result.Episodes.Episodes {
			out[favorite.CategoryEpisode] = appendValid(out[favorite.CategoryEpisode], favorite.Favorite{
				Name:        e.Name,
				Category:    favorite.CategoryEpisode,
				URI:         string(e.URI),
				ExternalURL: e.ExternalURLs["spotify"],
				Description: e.ReleaseDate,
			})
		}
	}
	if result.Tracks != nil {
		for _, tr := range result.Tracks.Tracks {
			out[favorite.CategoryTrack] = appendValid(out[favorite.CategoryTrack], trackFavorite(tr))
		}
	}

	return out, nil
}

// Playlists возвращает плейлисты пользователя, проходя все страницы
func (c *Client) Playlists(ctx context.Context) ([]favorite.Favorite, error) {
	var page *spotify.SimplePlaylistPage
	err := c.withRetry(ctx, func() error {
		var err error
		page, err = c.api.CurrentUsersPlaylists(ctx, spotify.Limit(pageSize))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get playlists: %w", err)
	}

	var out []favorite.Favorite
	for {
		for _, p := range page.Playlists {
			out = appendValid(out, playlistFavorite(p))
		}

		err := c.withRetry(ctx, func() error { return c.api.NextPage(ctx, page) })
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get playlists at offset %d: %w", len(out), err)
		}
	}

	c.logger.Info("Retrieved playlists", zap.Int("total", len(out)))
	return out, nil
}

// SavedAlbums возвращает сохраненные альбомы пользователя
func (c *Client) SavedAlbums(ctx context.Context) ([]favorite.Favorite, error) {
	var page *spotify.SavedAlbumPage
	err := c.withRetry(ctx, func() error {
		var err error
		page, err = c.api.CurrentUsersAlbums(ctx, spotify.Limit(pageSize))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get saved albums: %w", err)
	}

	var out []favorite.Favorite
	for {
		for _, a := range page.Albums {
			out = appendValid(out, albumFavorite(a.SimpleAlbum))
		}

		err := c.withRetry(ctx, func() error { return c.api.NextPage(ctx, page) })
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get saved albums at offset %d: %w", len(out), err)
		}
	}

	c.logger.Info("Retrieved saved albums", zap.Int("total", len(out)))
	return out, nil
}

// SavedShows возвращает подкасты, на которые подписан пользователь
func (c *Client) SavedShows(ctx context.Context) ([]favorite.Favorite, error) {
	var page *spotify.SavedShowPage
	err := c.withRetry(ctx, func() error {
		var err error
		page, err = c.api.CurrentUsersShows(ctx, spotify.Limit(pageSize))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get saved shows: %w", err)
	}

	var out []favorite.Favorite
	for {
		for _, s := range page.Shows {
			out = appendValid(out, showFavorite(s.Name, s.URI, s.ExternalURLs, s.Publisher))
		}

		err := c.withRetry(ctx, func() error { return c.api.NextPage(ctx, page) })
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get saved shows at offset %d: %w", len(out), err)
		}
	}

	c.logger.Info("Retrieved saved shows", zap.Int("total", len(out)))
	return out, nil
}

// FollowedArtists возвращает исполнителей, на которых подписан пользователь.
// Список подписок постраничен по курсору, а не по смещению.
func (c *Client) FollowedArtists(ctx context.Context) ([]favorite.Favorite, error) {
	var (
		out   []favorite.Favorite
		after string
	)

	for {
		opts := []spotify.RequestOption{spotify.Limit(pageSize)}
		if after != "" {
			opts = append(opts, spotify.After(after))
		}

		var page *spotify.FullArtistCursorPage
		err := c.withRetry(ctx, func() error {
			var err error
			page, err = c.api.CurrentUsersFollowedArtists(ctx, opts...)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get followed artists after %d: %w", len(out), err)
		}

		for _, a := range page.Artists {
			out = appendValid(out, artistFavorite(a))
		}

		if page.Cursor.After == "" || len(page.Artists) == 0 {
			break
		}
		after = page.Cursor.After
	}

	c.logger.Info("Retrieved followed artists", zap.Int("total", len(out)))
	return out, nil
}

// ArtistAlbums возвращает все альбомы исполнителя, проходя все страницы
func (c *Client) ArtistAlbums(ctx context.Context, artistURI string) ([]favorite.Favorite, error) {
	id, err := idFromURI(artistURI, "artist")
	if err != nil {
		return nil, err
	}

	var page *spotify.SimpleAlbumPage
	err = c.withRetry(ctx, func() error {
		var err error
		page, err = c.api.GetArtistAlbums(ctx, id, nil, spotify.Limit(pageSize))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get albums of %s: %w", artistURI, err)
	}

	var out []favorite.Favorite
	for {
		for _, a := range page.Albums {
			out = appendValid(out, albumFavorite(a))
		}

		err := c.withRetry(ctx, func() error { return c.api.NextPage(ctx, page) })
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get albums of %s at offset %d: %w", artistURI, len(out), err)
		}
	}

	c.logger.Info("Retrieved artist albums", zap.String("artist", artistURI), zap.Int("total", len(out)))
	return out, nil
}

// StartPlayback запускает воспроизведение URI на устройстве.
// Треки и эпизоды передаются списком, остальное как контекст.
func (c *Client) StartPlayback(ctx context.Context, deviceID, uri string) error {
	opts := deviceOptions(deviceID)
	target := spotify.URI(uri)
	if isItemURI(uri) {
		opts.URIs = []spotify.URI{target}
	} else {
		opts.PlaybackContext = &target
	}

	if err := c.api.PlayOpt(ctx, opts); err != nil {
		return fmt.Errorf("failed to start playback of %s: %w", uri, err)
	}

	c.logger.Info("Playback started", zap.String("device_id", deviceID), zap.String("uri", uri))
	return nil
}

// Resume продолжает воспроизведение на устройстве
func (c *Client) Resume(ctx context.Context, deviceID string) error {
	if err := c.api.PlayOpt(ctx, deviceOptions(deviceID)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	return nil
}

// Pause ставит воспроизведение на паузу
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	if err := c.api.PauseOpt(ctx, deviceOptions(deviceID)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}

// Next переключает на следующий трек
func (c *Client) Next(ctx context.Context, deviceID string) error {
	if err := c.api.NextOpt(ctx, deviceOptions(deviceID)); err != nil {
		return fmt.Errorf("failed to skip to next: %w", err)
	}
	return nil
}

// Previous переключает на предыдущий трек
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	if err := c.api.PreviousOpt(ctx, deviceOptions(deviceID)); err != nil {
		return fmt.Errorf("failed to skip to previous: %w", err)
	}
	return nil
}

// SetVolume устанавливает громкость устройства в процентах
func (c *Client) SetVolume(ctx context.Context, deviceID string, percent int) error {
	if err := c.api.VolumeOpt(ctx, percent, deviceOptions(deviceID)); err != nil {
		return fmt.Errorf("failed to set volume to %d: %w", percent, err)
	}
	return nil
}

func deviceOptions(deviceID string) *spotify.PlayOptions {
	id := spotify.ID(deviceID)
	return &spotify.PlayOptions{DeviceID: &id}
}

// isItemURI проверяет, что URI указывает на трек или эпизод, а не на контекст
func isItemURI(uri string) bool {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 {
		return false
	}
	kind := parts[len(parts)-2]
	return kind == "track" || kind == "episode"
}

// idFromURI извлекает ID из URI вида spotify:<kind>:<id>
func idFromURI(uri, kind string) (spotify.ID, error) {
	parts := strings.Split(uri, ":")
	if len(parts) != 3 || parts[1] != kind || parts[2] == "" {
		return "", fmt.Errorf("%q is not a spotify %s uri", uri, kind)
	}
	return spotify.ID(parts[2]), nil
}

func searchTypeFor(category favorite.Category) spotify.SearchType {
	switch category {
	case favorite.CategoryArtist:
		return spotify.SearchTypeArtist
	case favorite.CategoryAlbum:
		return spotify.SearchTypeAlbum
	case favorite.CategoryPlaylist:
		return spotify.SearchTypePlaylist
	case favorite.CategoryPodcast:
		return spotify.SearchTypeShow
	case favorite.CategoryEpisode:
		return spotify.SearchTypeEpisode
	default:
		return spotify.SearchTypeTrack
	}
}
