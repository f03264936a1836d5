// Package middleware содержит обертки над обработчиком строк ввода.
package middleware

import (
	"context"
	"strings"
)

// Handler обрабатывает строку ввода. Возвращает true, если цикл нужно завершить.
type Handler func(ctx context.Context, line string) (bool, error)

// Middleware оборачивает Handler
type Middleware func(next Handler) Handler

// Chain применяет middleware так, что первый в списке выполняется первым
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// verb возвращает первое слово строки для логов
func verb(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
