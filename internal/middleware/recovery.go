// Package middleware содержит middleware для recovery и обработки ошибок.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"spotcli/internal/domain/types"
)

// ErrPanic возвращается вместо паники внутри обработчика
var ErrPanic = errors.New("internal error")

// Recovery перехватывает панику обработчика, логирует стек и
// возвращает ошибку команды. Цикл продолжает работу.
func Recovery(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, line string) (exit bool, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered",
						zap.String("command", verb(line)),
						zap.Any("panic", r),
						zap.String("stack", string(debug.Stack())))
					exit = false
					err = types.NewCommandError(verb(line), fmt.Errorf("%w: %v", ErrPanic, r))
				}
			}()
			return next(ctx, line)
		}
	}
}
