// Package command разбирает строку ввода в команду.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"spotcli/internal/domain/favorite"
	"spotcli/internal/domain/types"
)

// Kind тип команды
type Kind int

// Типы команд
const (
	KindEmpty Kind = iota
	KindPlay
	KindPause
	KindNext
	KindPrevious
	KindVolumeUp
	KindVolumeDown
	KindVolumeSet
	KindVolumeShow
	KindSearch
	KindSelect
	KindBrowse
	KindArtistAlbums
	KindFavorites
	KindDevices
	KindHelp
	KindExit
	KindToken
	KindInvalid
)

var kindNames = map[Kind]string{
	KindEmpty:        "empty",
	KindPlay:         "play",
	KindPause:        "pause",
	KindNext:         "next",
	KindPrevious:     "previous",
	KindVolumeUp:     "volume_up",
	KindVolumeDown:   "volume_down",
	KindVolumeSet:    "volume_set",
	KindVolumeShow:   "volume_show",
	KindSearch:       "search",
	KindSelect:       "select",
	KindBrowse:       "browse",
	KindArtistAlbums: "artist_albums",
	KindFavorites:    "favorites",
	KindDevices:      "devices",
	KindHelp:         "help",
	KindExit:         "exit",
	KindToken:        "token",
	KindInvalid:      "invalid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command результат разбора строки
type Command struct {
	Kind Kind

	// Token строка для поиска в реестре (KindToken, KindPlay с аргументом,
	// исполнитель для KindArtistAlbums)
	Token string

	// Category категория поиска или просмотра
	Category favorite.Category

	// Query текст поиска
	Query string

	// Index номер результата для select, начиная с 1
	Index int

	// Level уровень громкости для KindVolumeSet
	Level int

	// Err причина для KindInvalid
	Err error
}

// Глаголы, которые показываются в дополнении
const (
	VerbPlay      = "play"
	VerbPause     = "pause"
	VerbNext      = "next"
	VerbPrevious  = "previous"
	VerbVolume    = "volume"
	VerbUp        = "+"
	VerbDown      = "-"
	VerbSearch    = "search"
	VerbSelect    = "select"
	VerbPodcasts  = "podcasts"
	VerbPlaylists = "playlists"
	VerbArtists   = "artists"
	VerbAlbums    = "albums"
	VerbFavorites = "favorites"
	VerbDevices   = "devices"
	VerbHelp      = "help"
	VerbExit      = "exit"
)

// Verbs возвращает глаголы для базового набора дополнения
func Verbs() []string {
	return []string{
		VerbPlay, VerbPause, VerbNext, VerbPrevious, VerbVolume,
		VerbSearch, VerbSelect,
		VerbPodcasts, VerbPlaylists, VerbArtists, VerbAlbums,
		VerbFavorites, VerbDevices, VerbHelp, VerbExit,
	}
}

// browseVerbs сопоставляет глаголы просмотра с категориями
var browseVerbs = map[string]favorite.Category{
	VerbPodcasts:  favorite.CategoryPodcast,
	VerbPlaylists: favorite.CategoryPlaylist,
	VerbArtists:   favorite.CategoryArtist,
	VerbAlbums:    favorite.CategoryAlbum,
}

// Parse разбирает строку: разбивает по пробелам и определяет команду.
// Неизвестное первое слово дает KindToken со всей нормализованной строкой.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: KindEmpty}
	}

	verb, args := fields[0], fields[1:]

	switch verb {
	case VerbPlay:
		if len(args) == 0 {
			return Command{Kind: KindPlay}
		}
		return Command{Kind: KindPlay, Token: strings.Join(args, " ")}
	case VerbPause:
		return Command{Kind: KindPause}
	case VerbNext:
		return Command{Kind: KindNext}
	case VerbPrevious, "prev":
		return Command{Kind: KindPrevious}
	case VerbUp:
		return Command{Kind: KindVolumeUp}
	case VerbDown:
		return Command{Kind: KindVolumeDown}
	case VerbVolume, "vol":
		return parseVolume(args)
	case VerbSearch:
		return parseSearch(args)
	case VerbSelect:
		return parseSelect(args)
	case VerbFavorites, "favs":
		return Command{Kind: KindFavorites}
	case VerbDevices:
		return Command{Kind: KindDevices}
	case VerbHelp, "?":
		return Command{Kind: KindHelp}
	case VerbExit, "quit":
		return Command{Kind: KindExit}
	}

	// albums <artist> перечисляет альбомы исполнителя
	if verb == VerbAlbums && len(args) > 0 {
		return Command{Kind: KindArtistAlbums, Token: strings.Join(args, " ")}
	}

	if category, ok := browseVerbs[verb]; ok && len(args) == 0 {
		return Command{Kind: KindBrowse, Category: category}
	}

	return Command{Kind: KindToken, Token: strings.Join(fields, " ")}
}

func parseVolume(args []string) Command {
	if len(args) == 0 {
		return Command{Kind: KindVolumeShow}
	}

	switch args[0] {
	case VerbUp:
		return Command{Kind: KindVolumeUp}
	case VerbDown:
		return Command{Kind: KindVolumeDown}
	}

	level, err := strconv.Atoi(args[0])
	if err != nil {
		return invalid("usage: volume [+|-|0-100]")
	}
	return Command{Kind: KindVolumeSet, Level: level}
}

func parseSearch(args []string) Command {
	var category favorite.Category
	if len(args) > 1 {
		if c, err := favorite.ParseCategory(args[0]); err == nil {
			category = c
			args = args[1:]
		}
	}

	if len(args) == 0 {
		return invalid("usage: search [artist|album|playlist|podcast|episode|track] <query>")
	}

	return Command{Kind: KindSearch, Category: category, Query: strings.Join(args, " ")}
}

func parseSelect(args []string) Command {
	if len(args) != 1 {
		return invalid("usage: select <number>")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		return invalid("usage: select <number>")
	}
	return Command{Kind: KindSelect, Index: index}
}

func invalid(usage string) Command {
	return Command{Kind: KindInvalid, Err: fmt.Errorf("%w: %s", types.ErrInvalidArguments, usage)}
}
