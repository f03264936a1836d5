// Package config содержит утилиты для загрузки конфигурации
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"spotcli/internal/domain/favorite"
	"spotcli/internal/domain/types"
)

const (
	appName        = "spotcli"
	configFileName = "config.toml"
)

// Load загружает конфигурацию из файла настроек и переменных окружения.
// Приоритет: env > файл > значения по умолчанию.
func Load(path string) (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("SPOTCLI_CONFIG", "")
	}

	k := koanf.New(".")

	// Без файла можно работать, если все обязательные ключи заданы в env
	loaded, missingErr := loadFiles(k, configPaths(path))
	if missingErr != nil && !errors.Is(missingErr, types.ErrMissingConfigFile) {
		return nil, missingErr
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Path = loaded

	favs, err := loadFavorites(k)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	cfg.Favorites = favs

	applyEnvOverrides(cfg)

	// Валидация обязательных полей
	if err := cfg.Validate(); err != nil {
		if missingErr != nil {
			return nil, fmt.Errorf("%w: %v", missingErr, err)
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// configPaths возвращает пути к файлам настроек в порядке приоритета (последний побеждает)
func configPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}

	return []string{
		filepath.Join(xdg.ConfigHome, appName, configFileName),
		configFileName,
	}
}

// loadFiles загружает все существующие файлы и возвращает путь последнего
func loadFiles(k *koanf.Koanf, paths []string) (string, error) {
	loaded := ""
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat config file %s: %w", p, err)
		}
		if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", p, err)
		}
		loaded = p
	}

	if loaded == "" {
		return "", fmt.Errorf("%w (searched: %v)", types.ErrMissingConfigFile, paths)
	}
	return loaded, nil
}

// loadFavorites собирает избранное: сначала [[favorites]] в порядке файла,
// затем таблицы категорий ([podcasts], [artists], ...) по алфавиту.
// Имена с точкой в таблицах категорий не поддерживаются, для них нужен [[favorites]].
func loadFavorites(k *koanf.Koanf) ([]favorite.Favorite, error) {
	var favs []favorite.Favorite

	for i, item := range k.Slices("favorites") {
		category, err := favorite.ParseCategory(item.String("category"))
		if err != nil {
			return nil, fmt.Errorf("favorites[%d]: %w", i, err)
		}
		favs = append(favs, favorite.Favorite{
			Name:        item.String("name"),
			Category:    category,
			URI:         item.String("uri"),
			ExternalURL: item.String("external_url"),
			Description: item.String("description"),
		})
	}

	for _, category := range favorite.Categories {
		entries := k.StringMap(category.Plural())
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			favs = append(favs, favorite.Favorite{
				Name:     name,
				Category: category,
				URI:      entries[name],
			})
		}
	}

	return favs, nil
}

// applyEnvOverrides применяет переменные окружения поверх значений из файла
func applyEnvOverrides(cfg *Config) {
	cfg.Spotify.ClientID = getEnv("SPOTIFY_CLIENT_ID", cfg.Spotify.ClientID)
	cfg.Spotify.ClientSecret = getEnv("SPOTIFY_CLIENT_SECRET", cfg.Spotify.ClientSecret)
	cfg.Spotify.RedirectURI = getEnv("SPOTIFY_REDIRECT_URI", cfg.Spotify.RedirectURI)
	cfg.Spotify.Scope = getEnv("SPOTIFY_SCOPE", cfg.Spotify.Scope)
	cfg.Spotify.DeviceName = getEnv("SPOTIFY_DEVICE_NAME", cfg.Spotify.DeviceName)

	cfg.Search.Limit = getEnvInt("SPOTCLI_SEARCH_LIMIT", cfg.Search.Limit)
	cfg.HTTP.Timeout = getEnvDuration("HTTP_TIMEOUT", cfg.HTTP.Timeout)
	cfg.Retry.MaxRetries = getEnvInt("RETRY_MAX_RETRIES", cfg.Retry.MaxRetries)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Output = getEnv("LOG_OUTPUT", cfg.Log.Output)
	cfg.Log.FilePath = getEnv("LOG_FILE_PATH", cfg.Log.FilePath)
}
