// Package dispatcher выполняет разобранные команды над удаленным плеером.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"spotcli/internal/command"
	"spotcli/internal/domain/device"
	"spotcli/internal/domain/favorite"
	"spotcli/internal/domain/types"
	"spotcli/internal/formatter"
	"spotcli/internal/registry"
	"spotcli/internal/session"
)

// Remote определяет операции удаленного сервиса, которые нужны диспетчеру
type Remote interface {
	Search(ctx context.Context, query string, categories []favorite.Category, limit int) (map[favorite.Category][]favorite.Favorite, error)
	Devices(ctx context.Context) ([]device.Device, error)

	Playlists(ctx context.Context) ([]favorite.Favorite, error)
	SavedAlbums(ctx context.Context) ([]favorite.Favorite, error)
	SavedShows(ctx context.Context) ([]favorite.Favorite, error)
	FollowedArtists(ctx context.Context) ([]favorite.Favorite, error)
	ArtistAlbums(ctx context.Context, artistURI string) ([]favorite.Favorite, error)

	StartPlayback(ctx context.Context, deviceID, uri string) error
	Resume(ctx context.Context, deviceID string) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
	SetVolume(ctx context.Context, deviceID string, percent int) error
}

// Options параметры диспетчера из конфигурации
type Options struct {
	Favorites   []favorite.Favorite
	SearchLimit int
	VolumeStep  int
}

// Dispatcher сопоставляет команды с вызовами Remote и состоянием сессии
type Dispatcher struct {
	remote   Remote
	registry *registry.Registry
	session  *session.State
	opts     Options
	out      io.Writer
	logger   *zap.Logger

	// results последний нумерованный список для select
	results []favorite.Favorite
}

// New создает диспетчер
func New(remote Remote, reg *registry.Registry, state *session.State, opts Options, out io.Writer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		remote:   remote,
		registry: reg,
		session:  state,
		opts:     opts,
		out:      out,
		logger:   logger,
	}
}

// Results возвращает последний нумерованный список
func (d *Dispatcher) Results() []favorite.Favorite {
	out := make([]favorite.Favorite, len(d.results))
	copy(out, d.results)
	return out
}

// Execute разбирает строку и выполняет команду
func (d *Dispatcher) Execute(ctx context.Context, line string) (bool, error) {
	return d.Dispatch(ctx, command.Parse(line))
}

// Dispatch выполняет команду. Возвращает true, если цикл нужно завершить.
// Ошибка относится только к этой команде, цикл продолжает работу.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command) (bool, error) {
	d.logger.Debug("Dispatching command",
		zap.Stringer("kind", cmd.Kind),
		zap.String("token", cmd.Token))

	switch cmd.Kind {
	case command.KindEmpty:
		return false, nil
	case command.KindExit:
		return true, nil
	case command.KindInvalid:
		return false, cmd.Err
	case command.KindPlay:
		if cmd.Token != "" {
			return false, d.playToken(ctx, cmd.Token)
		}
		return false, d.play(ctx)
	case command.KindToken:
		return false, d.playToken(ctx, cmd.Token)
	case command.KindPause:
		return false, d.transport(ctx, cmd.Kind, d.remote.Pause)
	case command.KindNext:
		return false, d.transport(ctx, cmd.Kind, d.remote.Next)
	case command.KindPrevious:
		return false, d.transport(ctx, cmd.Kind, d.remote.Previous)
	case command.KindVolumeUp:
		return false, d.changeVolume(ctx, d.session.Volume()+d.opts.VolumeStep)
	case command.KindVolumeDown:
		return false, d.changeVolume(ctx, d.session.Volume()-d.opts.VolumeStep)
	case command.KindVolumeSet:
		return false, d.changeVolume(ctx, cmd.Level)
	case command.KindVolumeShow:
		d.println(formatter.FormatVolume(d.session.Volume()))
		return false, nil
	case command.KindSearch:
		return false, d.search(ctx, cmd.Category, cmd.Query)
	case command.KindSelect:
		return false, d.selectResult(cmd.Index)
	case command.KindBrowse:
		return false, d.browse(ctx, cmd.Category)
	case command.KindArtistAlbums:
		return false, d.artistAlbums(ctx, cmd.Token)
	case command.KindFavorites:
		d.println(formatter.FormatFavorites(d.opts.Favorites))
		return false, nil
	case command.KindDevices:
		return false, d.devices(ctx)
	case command.KindHelp:
		d.println(formatter.FormatHelp())
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", types.ErrUnknownCommand, cmd.Kind)
	}
}

// play без аргумента: выбранный URI, иначе продолжение текущего
func (d *Dispatcher) play(ctx context.Context) error {
	deviceID := d.session.DeviceID()

	if selected := d.session.Selected(); selected != "" {
		if err := d.remote.StartPlayback(ctx, deviceID, selected); err != nil {
			return types.NewCommandError(command.VerbPlay, err)
		}
		d.session.SetCurrent(selected)
		d.println("playing " + selected)
		return nil
	}

	if d.session.Current() != "" {
		if err := d.remote.Resume(ctx, deviceID); err != nil {
			return types.NewCommandError(command.VerbPlay, err)
		}
		d.println("resumed")
		return nil
	}

	d.logger.Debug("Bare play without selection or current item")
	return types.ErrNothingToPlay
}

// playToken запускает URI, зарегистрированный под токеном
func (d *Dispatcher) playToken(ctx context.Context, token string) error {
	uri, ok := d.registry.Lookup(token)
	if !ok {
		d.logger.Info("Unrecognized command", zap.String("token", token))
		return fmt.Errorf("%w: %s", types.ErrUnknownCommand, token)
	}

	if err := d.remote.StartPlayback(ctx, d.session.DeviceID(), uri); err != nil {
		return types.NewCommandError(token, err)
	}

	d.session.SetCurrent(uri)
	d.println("playing " + token)
	return nil
}

func (d *Dispatcher) transport(ctx context.Context, kind command.Kind, op func(context.Context, string) error) error {
	if err := op(ctx, d.session.DeviceID()); err != nil {
		return types.NewCommandError(kind.String(), err)
	}
	return nil
}

// changeVolume отправляет уровень, ограниченный диапазоном [0, 100].
// Состояние сессии меняется только после успешного вызова.
func (d *Dispatcher) changeVolume(ctx context.Context, level int) error {
	previous := d.session.Volume()
	target := d.session.SetVolume(level)

	if err := d.remote.SetVolume(ctx, d.session.DeviceID(), target); err != nil {
		d.session.SetVolume(previous)
		return types.NewCommandError(command.VerbVolume, err)
	}

	d.println(formatter.FormatVolume(target))
	return nil
}

// search печатает результаты и запоминает их для select.
// Состояние сессии не меняется.
func (d *Dispatcher) search(ctx context.Context, category favorite.Category, query string) error {
	var categories []favorite.Category
	if category != "" {
		categories = []favorite.Category{category}
	}

	found, err := d.remote.Search(ctx, query, categories, d.opts.SearchLimit)
	if err != nil {
		return types.NewCommandError(command.VerbSearch, err)
	}

	var results []favorite.Favorite
	for _, c := range favorite.Categories {
		results = append(results, found[c]...)
	}

	d.results = results
	if len(results) == 0 {
		return fmt.Errorf("%w for %q", types.ErrNoSearchResults, query)
	}

	d.logger.Info("Search completed", zap.String("query", query), zap.Int("results", len(results)))
	d.println(formatter.FormatResults(fmt.Sprintf("Results for %q", query), results))
	return nil
}

// selectResult делает результат N ожидающим для play и регистрирует его токен
func (d *Dispatcher) selectResult(index int) error {
	if index < 1 || index > len(d.results) {
		return types.NewCommandError(command.VerbSelect,
			fmt.Errorf("%w: no result %d (last listing has %d)", types.ErrInvalidArguments, index, len(d.results)))
	}

	f := d.results[index-1]
	d.session.Select(f.URI)
	d.registry.Register(f.Token(), f.URI)

	d.println(fmt.Sprintf("selected %s, type 'play' to start", f.Token()))
	return nil
}

// browse загружает библиотеку пользователя для категории, объединяет
// с избранным из настроек и регистрирует все токены
func (d *Dispatcher) browse(ctx context.Context, category favorite.Category) error {
	var (
		library []favorite.Favorite
		err     error
	)

	switch category {
	case favorite.CategoryPodcast:
		library, err = d.remote.SavedShows(ctx)
	case favorite.CategoryAlbum:
		library, err = d.remote.SavedAlbums(ctx)
	case favorite.CategoryPlaylist:
		library, err = d.remote.Playlists(ctx)
	case favorite.CategoryArtist:
		library, err = d.remote.FollowedArtists(ctx)
	default:
		return fmt.Errorf("%w: cannot browse %s", types.ErrInvalidArguments, category)
	}
	if err != nil {
		return types.NewCommandError(category.Plural(), err)
	}

	merged := mergeFavorites(favorite.FilterByCategory(d.opts.Favorites, category), library)
	d.registry.RegisterFavorites(merged)
	d.results = merged

	if len(merged) == 0 {
		d.println(fmt.Sprintf("no %s found", category.Plural()))
		return nil
	}

	d.println(formatter.FormatResults(formatter.CategoryTitle(category), merged))
	return nil
}

// artistAlbums перечисляет все альбомы исполнителя и регистрирует их токены
func (d *Dispatcher) artistAlbums(ctx context.Context, artist string) error {
	name, uri, err := d.resolveArtist(artist)
	if err != nil {
		return types.NewCommandError(command.VerbAlbums, err)
	}

	albums, err := d.remote.ArtistAlbums(ctx, uri)
	if err != nil {
		return types.NewCommandError(command.VerbAlbums, err)
	}

	d.registry.RegisterFavorites(albums)
	d.results = albums

	if len(albums) == 0 {
		d.println(fmt.Sprintf("no albums found for %s", name))
		return nil
	}

	d.println(formatter.FormatResults("Albums of "+name, albums))
	return nil
}

// resolveArtist находит URI исполнителя: сначала токен реестра, затем
// имя среди последнего списка и избранного из настроек
func (d *Dispatcher) resolveArtist(artist string) (string, string, error) {
	if uri, ok := d.registry.Lookup(artist); ok {
		if !strings.Contains(uri, ":artist:") {
			return "", "", fmt.Errorf("%w: %s is not an artist", types.ErrInvalidArguments, artist)
		}
		return strings.TrimPrefix(artist, string(favorite.CategoryArtist)+":"), uri, nil
	}

	name := strings.TrimPrefix(artist, string(favorite.CategoryArtist)+":")
	candidates := append(
		favorite.FilterByCategory(d.results, favorite.CategoryArtist),
		favorite.FilterByCategory(d.opts.Favorites, favorite.CategoryArtist)...,
	)
	if f, ok := favorite.FindByName(candidates, name); ok {
		return f.Name, f.URI, nil
	}

	return "", "", fmt.Errorf("%w: unknown artist %q, try 'artists' or 'search artist'", types.ErrInvalidArguments, name)
}

func (d *Dispatcher) devices(ctx context.Context) error {
	devices, err := d.remote.Devices(ctx)
	if err != nil {
		return types.NewCommandError(command.VerbDevices, err)
	}
	d.println(formatter.FormatDevices(devices, d.session.DeviceID()))
	return nil
}

func (d *Dispatcher) println(s string) {
	if _, err := fmt.Fprintln(d.out, s); err != nil {
		d.logger.Warn("Failed to write output", zap.Error(err))
	}
}

// mergeFavorites объединяет списки, убирая повторяющиеся токены.
// Избранное из настроек идет первым.
func mergeFavorites(configured, library []favorite.Favorite) []favorite.Favorite {
	seen := make(map[string]struct{}, len(configured)+len(library))
	out := make([]favorite.Favorite, 0, len(configured)+len(library))

	for _, list := range [][]favorite.Favorite{configured, library} {
		for _, f := range list {
			if _, ok := seen[f.Token()]; ok {
				continue
			}
			seen[f.Token()] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
