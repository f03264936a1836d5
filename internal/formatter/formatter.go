// Package formatter форматирует списки и сообщения для вывода в терминал.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spotcli/internal/domain/device"
	"spotcli/internal/domain/favorite"
	"spotcli/internal/domain/types"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// CategoryTitle возвращает заголовок категории во множественном числе
func CategoryTitle(c favorite.Category) string {
	return cases.Title(language.English).String(c.Plural())
}

// FormatFavorites форматирует избранное по категориям в порядке favorite.Categories
func FormatFavorites(favs []favorite.Favorite) string {
	if len(favs) == 0 {
		return dimStyle.Render("No favorites configured.")
	}

	var sb strings.Builder
	for _, category := range favorite.Categories {
		group := favorite.FilterByCategory(favs, category)
		if len(group) == 0 {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", CategoryTitle(category), humanize.Comma(int64(len(group))))))
		sb.WriteString("\n")
		for _, f := range group {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", tokenStyle.Render(f.Token()), dimStyle.Render(f.URI)))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatResults форматирует нумерованный список: имя, URI и ссылку.
// Номера соответствуют аргументу команды select.
func FormatResults(title string, results []favorite.Favorite) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", title, humanize.Comma(int64(len(results))))))
	sb.WriteString("\n")

	for i, f := range results {
		line := fmt.Sprintf("%3d. [%s] %s", i+1, f.Category, tokenStyle.Render(f.Name))
		if f.Description != "" {
			line += " " + dimStyle.Render("("+f.Description+")")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString("     " + f.URI + "\n")
		if f.ExternalURL != "" {
			sb.WriteString("     " + dimStyle.Render(f.ExternalURL) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatDevices форматирует список устройств, отмечая привязанное
func FormatDevices(devices []device.Device, boundID string) string {
	if len(devices) == 0 {
		return dimStyle.Render("No devices available.")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Devices"))
	sb.WriteString("\n")
	for _, d := range devices {
		marker := " "
		if d.ID == boundID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (%s) %d%%", marker, d.Name, d.Type, d.Volume)
		if d.Active {
			line += " " + activeStyle.Render("active")
		}
		sb.WriteString(line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// helpLines описание команд для help
var helpLines = [][2]string{
	{"play [token]", "play a registered token, the selected result, or resume"},
	{"pause | next | previous", "transport control"},
	{"+ | - | volume [N]", "change, set or show volume"},
	{"search [category] <query>", "search the catalog"},
	{"select <N>", "pick result N of the last listing for play"},
	{"podcasts | playlists | artists | albums", "list and register your library"},
	{"albums <artist>", "list every album of an artist"},
	{"favorites", "list configured favorites"},
	{"devices", "list playback devices"},
	{"<category>:<name>", "play a registered favorite"},
	{"exit", "quit"},
}

// FormatHelp форматирует справку по командам
func FormatHelp() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Commands"))
	sb.WriteString("\n")
	for _, l := range helpLines {
		sb.WriteString("  " + tokenStyle.Render(fmt.Sprintf("%-40s", l[0])) + " " + dimStyle.Render(l[1]) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatError форматирует ошибку команды для пользователя
func FormatError(err error) string {
	var cmdErr *types.CommandError
	switch {
	case errors.Is(err, types.ErrUnknownCommand):
		return errorStyle.Render(err.Error())
	case errors.As(err, &cmdErr):
		return errorStyle.Render(fmt.Sprintf("%s: %v", cmdErr.Command, cmdErr.Err))
	default:
		return errorStyle.Render(err.Error())
	}
}

// FormatVolume форматирует текущую громкость
func FormatVolume(level int) string {
	return fmt.Sprintf("volume: %d%%", level)
}
