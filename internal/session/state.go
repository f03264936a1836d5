// Package session содержит состояние текущей сессии воспроизведения.
package session

// Границы громкости устройства
const (
	MinVolume = 0
	MaxVolume = 100
)

// State хранит состояние сессии. Принадлежит циклу команд,
// который работает в одном потоке, поэтому блокировки не нужны.
type State struct {
	deviceID   string
	deviceName string
	current    string
	selected   string
	volume     int
}

// New создает состояние с начальной громкостью (приводится к [0, 100])
func New(initialVolume int) *State {
	return &State{volume: clamp(initialVolume)}
}

// BindDevice запоминает найденное устройство
func (s *State) BindDevice(id, name string) {
	s.deviceID = id
	s.deviceName = name
}

// DeviceID возвращает идентификатор устройства
func (s *State) DeviceID() string {
	return s.deviceID
}

// DeviceName возвращает имя устройства
func (s *State) DeviceName() string {
	return s.deviceName
}

// Current возвращает URI, который сейчас воспроизводится
func (s *State) Current() string {
	return s.current
}

// SetCurrent отмечает URI как воспроизводимый и сбрасывает ожидающий выбор
func (s *State) SetCurrent(uri string) {
	s.current = uri
	s.selected = ""
}

// Selected возвращает выбранный, но еще не запущенный URI
func (s *State) Selected() string {
	return s.selected
}

// Select запоминает выбор пользователя для следующей команды play
func (s *State) Select(uri string) {
	s.selected = uri
}

// Volume возвращает отслеживаемый уровень громкости
func (s *State) Volume() int {
	return s.volume
}

// AdjustVolume изменяет громкость на delta с насыщением на границах
func (s *State) AdjustVolume(delta int) int {
	s.volume = clamp(s.volume + delta)
	return s.volume
}

// SetVolume устанавливает громкость с насыщением на границах
func (s *State) SetVolume(level int) int {
	s.volume = clamp(level)
	return s.volume
}

func clamp(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
