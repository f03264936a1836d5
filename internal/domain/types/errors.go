// Package types содержит типы ошибок клиента.
package types

import (
	"errors"
	"fmt"
)

// Стандартные ошибки клиента
var (
	ErrUnknownCommand    = errors.New("unrecognized command")
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrNothingToPlay     = errors.New("nothing to play")
	ErrNoSearchResults   = errors.New("no search results")
	ErrMissingConfigFile = errors.New("config file not found")
)

// Этапы запуска, на которых возможна фатальная ошибка
const (
	StageConfig = "config"
	StageLogger = "logger"
	StageAuth   = "auth"
	StageDevice = "device"
)

// StartupError представляет фатальную ошибку запуска: цикл команд не стартует
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// NewStartupError создает новую ошибку запуска
func NewStartupError(stage string, err error) *StartupError {
	return &StartupError{Stage: stage, Err: err}
}

// IsStartupError проверяет, является ли ошибка StartupError
func IsStartupError(err error) bool {
	var se *StartupError
	return errors.As(err, &se)
}

// DeviceNotFoundError сообщает, что устройство с указанным именем не найдено
type DeviceNotFoundError struct {
	Name      string
	Available []string
}

func (e *DeviceNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("device %q not found: no devices available", e.Name)
	}
	return fmt.Sprintf("device %q not found (available: %v)", e.Name, e.Available)
}

// CommandError представляет ошибку выполнения команды, цикл продолжает работу
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError создает новую ошибку команды
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// IsCommandError проверяет, является ли ошибка CommandError
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
