// Package middleware содержит middleware для логирования команд.
package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spotcli/internal/domain/types"
)

// Logging логирует каждую команду с длительностью и результатом
func Logging(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, line string) (bool, error) {
			start := time.Now()
			requestID := uuid.NewString()
			command := verb(line)

			logger.Debug("Processing command",
				zap.String("request_id", requestID),
				zap.String("command", command))

			exit, err := next(ctx, line)
			duration := time.Since(start)

			// Определяем тип ошибки для логирования
			switch {
			case err == nil:
				logger.Info("Command completed",
					zap.String("request_id", requestID),
					zap.String("command", command),
					zap.Duration("duration", duration))
			case errors.Is(err, types.ErrUnknownCommand),
				errors.Is(err, types.ErrInvalidArguments),
				errors.Is(err, types.ErrNothingToPlay),
				errors.Is(err, types.ErrNoSearchResults):
				logger.Info("Command rejected",
					zap.String("request_id", requestID),
					zap.String("command", command),
					zap.Error(err))
			default:
				logger.Error("Command failed",
					zap.String("request_id", requestID),
					zap.String("command", command),
					zap.Duration("duration", duration),
					zap.Error(err))
			}

			return exit, err
		}
	}
}
