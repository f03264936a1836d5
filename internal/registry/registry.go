// Package registry реализует реестр команд: токены, которые можно ввести
// в строке и дополнить по Tab, и привязанные к ним URI.
package registry

import (
	"strings"

	"go.uber.org/zap"

	"spotcli/internal/domain/favorite"
)

// Entry представляет запись реестра
type Entry struct {
	Token string
	URI   string
}

// Registry хранит базовые токены (глаголы) и записи избранного.
// Набор для поиска и набор для дополнения строятся из одного среза,
// поэтому токен не может оказаться только в одном из них.
type Registry struct {
	base    []string
	entries []Entry
	logger  *zap.Logger
}

// New создает реестр с базовыми токенами.
// Базовые токены дополняются, но Lookup их не находит.
func New(base []string, logger *zap.Logger) *Registry {
	b := make([]string, len(base))
	copy(b, base)
	return &Registry{
		base:   b,
		logger: logger,
	}
}

// Register добавляет токен в начало реестра.
// Повторная регистрация заменяет URI и поднимает токен наверх:
// при совпадении побеждает последняя регистрация.
func (r *Registry) Register(token, uri string) {
	token = normalize(token)
	if token == "" {
		return
	}

	if i := r.index(token); i >= 0 {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
	}
	r.entries = append([]Entry{{Token: token, URI: uri}}, r.entries...)

	r.logger.Debug("Registered token", zap.String("token", token), zap.String("uri", uri))
}

// RegisterFavorites регистрирует избранное под токенами "<category>:<name>".
// Порядок сохраняется: первый элемент среза окажется первым в реестре.
func (r *Registry) RegisterFavorites(favs []favorite.Favorite) {
	for i := len(favs) - 1; i >= 0; i-- {
		r.Register(favs[i].Token(), favs[i].URI)
	}
}

// Lookup ищет токен по точному совпадению после нормализации пробелов.
// Отсутствие токена это обычный исход, а не ошибка.
func (r *Registry) Lookup(token string) (string, bool) {
	if i := r.index(normalize(token)); i >= 0 {
		return r.entries[i].URI, true
	}
	return "", false
}

// Reset заменяет все записи реестра. Базовые токены сохраняются.
func (r *Registry) Reset(entries []Entry) {
	r.entries = r.entries[:0]
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e.Token = normalize(e.Token)
		if _, dup := seen[e.Token]; dup || e.Token == "" {
			continue
		}
		seen[e.Token] = struct{}{}
		r.entries = append(r.entries, e)
	}

	r.logger.Debug("Registry reset", zap.Int("entries", len(r.entries)))
}

// Clear удаляет все записи, оставляя только базовые токены
func (r *Registry) Clear() {
	r.Reset(nil)
}

// Entries возвращает копию записей, последние зарегистрированные первыми
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len возвращает количество записей без базовых токенов
func (r *Registry) Len() int {
	return len(r.entries)
}

// Tokens возвращает все дополняемые токены: базовые, затем записи
func (r *Registry) Tokens() []string {
	out := make([]string, 0, len(r.base)+len(r.entries))
	out = append(out, r.base...)
	for _, e := range r.entries {
		out = append(out, e.Token)
	}
	return out
}

// Matches возвращает токены, начинающиеся с prefix, в порядке реестра
func (r *Registry) Matches(prefix string) []string {
	var out []string
	for _, t := range r.Tokens() {
		if strings.HasPrefix(t, prefix) {
			out = append(out, t)
		}
	}
	return out
}

// Complete перебирает варианты дополнения в стиле readline: state-й вариант
// для prefix. ok=false означает конец списка.
func (r *Registry) Complete(prefix string, state int) (string, bool) {
	matches := r.Matches(prefix)
	if state < 0 || state >= len(matches) {
		return "", false
	}
	return matches[state], true
}

func (r *Registry) index(token string) int {
	for i, e := range r.entries {
		if e.Token == token {
			return i
		}
	}
	return -1
}

// normalize схлопывает пробелы так же, как разбор строки команды,
// иначе дополненный токен не совпадет с зарегистрированным
func normalize(token string) string {
	return strings.Join(strings.Fields(token), " ")
}
