// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spotcli/internal/domain/favorite"
	"spotcli/pkg/logger"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Spotify
	Spotify SpotifyConfig `koanf:"spotify"`

	// Search
	Search SearchConfig `koanf:"search"`

	// Volume
	Volume VolumeConfig `koanf:"volume"`

	// HTTP Client
	HTTP HTTPClientConfig `koanf:"http"`

	// Retry
	Retry RetryConfig `koanf:"retry"`

	// Logging
	Log LogConfig `koanf:"log"`

	// Favorites собирается из [[favorites]] и таблиц категорий
	Favorites []favorite.Favorite `koanf:"-"`

	// Path путь к загруженному файлу настроек
	Path string `koanf:"-"`
}

// SpotifyConfig представляет учетные данные и целевое устройство
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURI  string `koanf:"redirect_uri"`
	Scope        string `koanf:"scope"`
	DeviceName   string `koanf:"device_name"`
}

// SearchConfig представляет параметры поиска
type SearchConfig struct {
	Limit int `koanf:"limit"`
}

// VolumeConfig представляет параметры громкости сессии
type VolumeConfig struct {
	Initial int `koanf:"initial"`
	Step    int `koanf:"step"`
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int           `koanf:"max_retries"`
	InitialDelay      time.Duration `koanf:"initial_delay"`
	MaxDelay          time.Duration `koanf:"max_delay"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier"`
}

// LogConfig представляет конфигурацию логирования
type LogConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"`
	Output   string `koanf:"output"`
	FilePath string `koanf:"file_path"`
}

// DefaultConfig возвращает конфигурацию со значениями по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{Limit: 5},
		Volume: VolumeConfig{Initial: 10, Step: 10},
		HTTP:   HTTPClientConfig{Timeout: 30 * time.Second},
		Retry: RetryConfig{
			MaxRetries:        2,
			InitialDelay:      500 * time.Millisecond,
			MaxDelay:          5 * time.Second,
			BackoffMultiplier: 2.0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: logger.OutputFile,
		},
	}
}

// requiredKeys перечисляет обязательные ключи в порядке проверки
var requiredKeys = []struct {
	key   string
	value func(c *Config) string
}{
	{"spotify.client_id", func(c *Config) string { return c.Spotify.ClientID }},
	{"spotify.client_secret", func(c *Config) string { return c.Spotify.ClientSecret }},
	{"spotify.redirect_uri", func(c *Config) string { return c.Spotify.RedirectURI }},
	{"spotify.scope", func(c *Config) string { return c.Spotify.Scope }},
	{"spotify.device_name", func(c *Config) string { return c.Spotify.DeviceName }},
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	for _, rk := range requiredKeys {
		if strings.TrimSpace(rk.value(c)) == "" {
			return fmt.Errorf("missing required config: %s", rk.key)
		}
	}

	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("search.limit must be between 1 and 50, got %d", c.Search.Limit)
	}

	if c.Volume.Initial < 0 || c.Volume.Initial > 100 {
		return fmt.Errorf("volume.initial must be between 0 and 100, got %d", c.Volume.Initial)
	}

	if c.Volume.Step < 1 || c.Volume.Step > 100 {
		return fmt.Errorf("volume.step must be between 1 and 100, got %d", c.Volume.Step)
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative")
	}

	for _, f := range c.Favorites {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Scopes возвращает список запрошенных разрешений
func (s SpotifyConfig) Scopes() []string {
	return strings.Fields(s.Scope)
}

// LoggerConfig переводит настройки логирования в конфигурацию логгера
func (c *Config) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	if c.Log.FilePath != "" {
		lc.FilePath = c.Log.FilePath
	}
	return lc
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
