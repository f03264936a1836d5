package app

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"spotcli/internal/formatter"
	"spotcli/internal/middleware"
	"spotcli/internal/registry"
)

const (
	prompt      = "spotify-cli> "
	exitMessage = "Exiting..."
)

// State состояние цикла команд
type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "terminated"
	}
	return "running"
}

// Model модель bubbletea: строка ввода с дополнением из реестра
type Model struct {
	ctx      context.Context
	input    textinput.Model
	handler  middleware.Handler
	registry *registry.Registry
	output   *bytes.Buffer
	logger   *zap.Logger
	state    State
}

// NewModel создает модель цикла команд
func NewModel(ctx context.Context, handler middleware.Handler, reg *registry.Registry, output *bytes.Buffer, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	ti.Focus()

	return Model{
		ctx:      ctx,
		input:    ti,
		handler:  handler,
		registry: reg,
		output:   output,
		logger:   logger,
		state:    StateRunning,
	}
}

// State возвращает текущее состояние цикла
func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateTerminated {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.state = StateTerminated
			return m, tea.Sequence(tea.Println(exitMessage), tea.Quit)
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.refreshSuggestions()
			if line == "" {
				return m, nil
			}

			lines, exit := m.submit(line)
			cmds := make([]tea.Cmd, 0, len(lines)+1)
			for _, l := range lines {
				cmds = append(cmds, tea.Println(l))
			}
			if exit {
				m.state = StateTerminated
				cmds = append(cmds, tea.Quit)
			}
			return m, tea.Sequence(cmds...)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m Model) View() string {
	if m.state == StateTerminated {
		return ""
	}
	return m.input.View()
}

// submit выполняет строку и возвращает строки для печати над вводом
func (m Model) submit(line string) ([]string, bool) {
	lines := []string{prompt + line}

	exit, err := m.handler(m.ctx, line)

	if out := strings.TrimRight(m.output.String(), "\n"); out != "" {
		lines = append(lines, out)
	}
	m.output.Reset()

	if err != nil {
		lines = append(lines, formatter.FormatError(err))
	}
	if exit {
		lines = append(lines, exitMessage)
	}
	return lines, exit
}

// refreshSuggestions подставляет токены реестра с введенным префиксом
func (m *Model) refreshSuggestions() {
	value := m.input.Value()
	if value == "" {
		m.input.SetSuggestions(nil)
		return
	}
	m.input.SetSuggestions(m.registry.Matches(value))
}
