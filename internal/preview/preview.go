// Package preview is an interactive terminal preview of the boss health
// display under a given configuration.
package preview

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gabe/bossbar/internal/config"
	"github.com/gabe/bossbar/internal/display"
	"github.com/gabe/bossbar/internal/tracker"
)

const (
	sampleMax  = 1000
	sampleStep = 50
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fab283"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#484848")).
			Padding(0, 1)
)

// Model is the bubbletea model of the preview.
type Model struct {
	cfg     *config.Config
	health  tracker.Health
	keys    keyMap
	help    help.Model
	reloads <-chan Reload
	err     error
}

// New creates a preview of cfg with a full-health sample boss. When reloads
// is non-nil the preview follows config changes received from it.
func New(cfg *config.Config, reloads <-chan Reload) Model {
	return Model{
		cfg:     cfg,
		health:  tracker.Health{Current: sampleMax, Max: sampleMax},
		keys:    defaultKeys,
		help:    help.New(),
		reloads: reloads,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForReload(m.reloads)
}

func waitForReload(reloads <-chan Reload) tea.Cmd {
	if reloads == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-reloads
		if !ok {
			return nil
		}
		return r
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Reload:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.cfg = msg.Config
			m.err = nil
		}
		return m, waitForReload(m.reloads)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Damage):
			m.health.Current = math.Max(0, m.health.Current-sampleStep)
		case key.Matches(msg, m.keys.Heal):
			// Overheal is allowed so the uncapped bar can be seen.
			m.health.Current += sampleStep
		case key.Matches(msg, m.keys.Kill):
			m.health.Current = 0
		case key.Matches(msg, m.keys.Reset):
			m.health.Current = m.health.Max
		case key.Matches(msg, m.keys.Mode):
			cfg := *m.cfg
			cfg.MiddlePrint = !cfg.MiddlePrint
			m.cfg = &cfg
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// Health returns the sample boss health currently shown.
func (m Model) Health() tracker.Health {
	return m.health
}

func (m Model) reading() display.Reading {
	team := "Boss"
	if teams := m.cfg.BossTeams(); len(teams) > 0 {
		team = capitalize(teams[0])
	}
	return display.Reading{Team: team, Boss: "Player", Health: m.health}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (m Model) View() string {
	r := m.reading()
	info, bar := display.Markup(r, m.cfg.HealthBarSize, m.cfg.MiddlePrint)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("bossbar preview"))
	sb.WriteString("\n\n")
	sb.WriteString(panelStyle.Render(display.Terminal(r, m.cfg.HealthBarSize)))
	sb.WriteString("\n\n")

	mode := "whisper"
	if m.cfg.MiddlePrint {
		mode = "middle print"
		sb.WriteString(mutedStyle.Render(display.MiddlePrint(info, bar)))
	} else {
		sb.WriteString(mutedStyle.Render(info + "\n" + bar))
	}
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("mode: " + mode))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(errorStyle.Render("config reload failed: " + m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

var startProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// Run shows the preview of cfg. With a non-empty watchPath the config file
// there is reloaded on every change.
func Run(ctx context.Context, cfg *config.Config, watchPath string) error {
	var reloads <-chan Reload
	if watchPath != "" {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var err error
		reloads, err = Watch(ctx, watchPath)
		if err != nil {
			return err
		}
	}
	return startProgram(New(cfg, reloads))
}
