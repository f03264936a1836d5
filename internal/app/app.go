// Package app содержит основную логику приложения.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"spotcli/internal/config"
	"spotcli/internal/dispatcher"
	"spotcli/internal/domain/device"
	"spotcli/internal/domain/types"
	"spotcli/internal/middleware"
	"spotcli/internal/registry"
	"spotcli/internal/session"
)

// Runner запускает интерактивную программу с начальной моделью
type Runner func(ctx context.Context, m tea.Model) error

// Option настраивает App
type Option func(*App)

// WithRunner подменяет запуск программы bubbletea
func WithRunner(r Runner) Option {
	return func(a *App) {
		a.runner = r
	}
}

// WithOutput задает вывод для сообщений вне цикла
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// App владеет всеми компонентами сессии: конфигурацией, клиентом,
// реестром, состоянием и диспетчером
type App struct {
	config     *config.Config
	logger     *zap.Logger
	remote     dispatcher.Remote
	registry   *registry.Registry
	session    *session.State
	dispatcher *dispatcher.Dispatcher
	handler    middleware.Handler

	// buffer собирает вывод диспетчера для печати над строкой ввода
	buffer *bytes.Buffer
	out    io.Writer
	runner Runner
}

// New создает приложение с компонентами, собранными фабрикой
func New(cfg *config.Config, remote dispatcher.Remote, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	factory := NewComponentFactory(cfg, logger)
	buffer := &bytes.Buffer{}

	a := &App{
		config:   cfg,
		logger:   logger,
		remote:   remote,
		registry: factory.CreateRegistry(),
		session:  factory.CreateSession(),
		buffer:   buffer,
		out:      os.Stdout,
		runner:   runProgram,
	}
	a.dispatcher = factory.CreateDispatcher(remote, a.registry, a.session, buffer)
	a.handler = factory.CreateHandler(a.dispatcher)

	for _, opt := range opts {
		opt(a)
	}

	logger.Info("App structure created successfully",
		zap.Int("favorites", len(cfg.Favorites)),
		zap.Int("tokens", len(a.registry.Tokens())))
	return a, nil
}

// Run привязывает устройство и запускает цикл команд.
// Если устройство не найдено, цикл не стартует.
func (a *App) Run(ctx context.Context) error {
	d, err := a.resolveDevice(ctx)
	if err != nil {
		return types.NewStartupError(types.StageDevice, err)
	}

	a.session.BindDevice(d.ID, d.Name)
	a.logger.Info("Device bound",
		zap.String("device_id", d.ID),
		zap.String("device_name", d.Name))

	model := NewModel(ctx, a.handler, a.registry, a.buffer, a.logger)
	err = a.runner(ctx, model)
	if err != nil && !isInterrupt(err) {
		return fmt.Errorf("interactive loop failed: %w", err)
	}

	if err != nil {
		// Программа прервана по контексту и не успела напечатать сообщение
		fmt.Fprintln(a.out, exitMessage)
	}

	a.logger.Info("Interactive loop terminated")
	return nil
}

// Session возвращает состояние сессии
func (a *App) Session() *session.State {
	return a.session
}

// Registry возвращает реестр команд
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) resolveDevice(ctx context.Context) (device.Device, error) {
	devices, err := a.remote.Devices(ctx)
	if err != nil {
		return device.Device{}, err
	}
	return device.Resolve(devices, a.config.Spotify.DeviceName)
}

func runProgram(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func isInterrupt(err error) bool {
	return errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled)
}
