// Package app содержит фабрику компонентов приложения.
package app

import (
	"io"

	"go.uber.org/zap"

	"spotcli/internal/command"
	"spotcli/internal/config"
	"spotcli/internal/dispatcher"
	"spotcli/internal/middleware"
	"spotcli/internal/registry"
	"spotcli/internal/session"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateRegistry создает реестр с глаголами и избранным из настроек
func (f *ComponentFactory) CreateRegistry() *registry.Registry {
	reg := registry.New(command.Verbs(), f.logger.Named("registry"))
	reg.RegisterFavorites(f.config.Favorites)

	f.logger.Debug("Registry created", zap.Int("entries", reg.Len()))
	return reg
}

// CreateSession создает состояние сессии с начальной громкостью
func (f *ComponentFactory) CreateSession() *session.State {
	return session.New(f.config.Volume.Initial)
}

// CreateDispatcher создает диспетчер команд
func (f *ComponentFactory) CreateDispatcher(remote dispatcher.Remote, reg *registry.Registry, state *session.State, out io.Writer) *dispatcher.Dispatcher {
	opts := dispatcher.Options{
		Favorites:   f.config.Favorites,
		SearchLimit: f.config.Search.Limit,
		VolumeStep:  f.config.Volume.Step,
	}
	return dispatcher.New(remote, reg, state, opts, out, f.logger.Named("dispatcher"))
}

// CreateHandler оборачивает диспетчер в recovery и логирование
func (f *ComponentFactory) CreateHandler(d *dispatcher.Dispatcher) middleware.Handler {
	return middleware.Chain(d.Execute,
		middleware.Logging(f.logger),
		middleware.Recovery(f.logger),
	)
}
