// Package logger содержит настройку логгера.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Варианты вывода логов
const (
	OutputFile   = "file"
	OutputStderr = "stderr"
	OutputBoth   = "both"
)

// Config описывает параметры логгера
type Config struct {
	Level      string
	Format     string // json или console
	Output     string // file, stderr или both
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
}

// DefaultConfig возвращает конфигурацию по умолчанию.
// Интерактивный клиент пишет логи только в файл, чтобы не ломать строку ввода.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		Output:     OutputFile,
		FilePath:   DefaultFilePath(),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// New создает новый логгер
func New(cfg Config) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	level := ParseLevel(cfg.Level)

	var cores []zapcore.Core

	if cfg.Output == OutputStderr || cfg.Output == OutputBoth {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}

	if cfg.Output == OutputFile || cfg.Output == OutputBoth {
		path := cfg.FilePath
		if path == "" {
			path = DefaultFilePath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("unsupported log output: %q", cfg.Output)
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel переводит строковый уровень в zapcore.Level, по умолчанию info
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// DefaultFilePath возвращает путь к файлу логов в каталоге состояния XDG
func DefaultFilePath() string {
	path, err := xdg.StateFile(filepath.Join("spotcli", "spotcli.log"))
	if err != nil {
		return filepath.Join("logs", "spotcli.log")
	}
	return path
}

// NewNop создает пустой логгер для случаев, когда логирование не нужно
func NewNop() *zap.Logger {
	return zap.NewNop()
}
