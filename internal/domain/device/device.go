// Package device содержит модель устройства воспроизведения.
package device

import (
	"strings"

	"spotcli/internal/domain/types"
)

// Device представляет устройство Spotify Connect
type Device struct {
	ID     string
	Name   string
	Type   string
	Active bool
	Volume int
}

// Resolve находит устройство по имени: сначала точное совпадение,
// затем без учета регистра. Если ничего не найдено, возвращает
// DeviceNotFoundError со списком доступных имен.
func Resolve(devices []Device, name string) (Device, error) {
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}

	for _, d := range devices {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}

	available := make([]string, 0, len(devices))
	for _, d := range devices {
		available = append(available, d.Name)
	}
	return Device{}, &types.DeviceNotFoundError{Name: name, Available: available}
}
