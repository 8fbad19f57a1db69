// Package tui renders a cleaner run as a live terminal progress view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/humanitec/cursor-reset/internal/cleaner"
	"github.com/humanitec/cursor-reset/internal/message"
)

const maxVisibleLines = 12

// ErrInterrupted is returned when the view was closed before the run finished.
var ErrInterrupted = errors.New("interrupted")

// LineMsg carries one log line from the worker.
type LineMsg struct {
	Level message.Level
	Text  string
}

// DoneMsg carries the run's outcome.
type DoneMsg cleaner.Outcome

// ChannelLogger forwards every line to events as a LineMsg.
func ChannelLogger(events chan<- tea.Msg) message.Logger {
	return message.Func(func(level message.Level, text string) {
		events <- LineMsg{Level: level, Text: text}
	})
}

// waitFor blocks on the next worker event. A closed channel yields nil.
func waitFor(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

type progressModel struct {
	title   string
	events  <-chan tea.Msg
	spinner spinner.Model
	lines   []LineMsg
	done    bool
	outcome cleaner.Outcome
	quitted bool
}

func newProgressModel(title string, events <-chan tea.Msg) progressModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return progressModel{
		title:   title,
		events:  events,
		spinner: s,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.events))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LineMsg:
		m.lines = append(m.lines, msg)
		return m, waitFor(m.events)
	case DoneMsg:
		m.done = true
		m.outcome = cleaner.Outcome(msg)
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.quitted = true
			}
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("206"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func lineStyle(level message.Level) lipgloss.Style {
	switch level {
	case message.LevelSuccess:
		return successStyle
	case message.LevelWarning:
		return warningStyle
	case message.LevelError:
		return errorStyle
	case message.LevelDebug:
		return dimStyle
	}
	return lipgloss.NewStyle()
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	start := 0
	if len(m.lines) > maxVisibleLines {
		start = len(m.lines) - maxVisibleLines
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d earlier lines", start)))
		b.WriteString("\n")
	}
	for _, line := range m.lines[start:] {
		b.WriteString("  " + lineStyle(line.Level).Render(line.Text) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.quitted:
		b.WriteString(warningStyle.Render("Interrupted"))
	case !m.done:
		b.WriteString(m.spinner.View() + " Working...")
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+c: abort"))
	case m.outcome.Err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.outcome.Err.Error()))
	case m.outcome.Report != nil && m.outcome.Report.Success:
		b.WriteString(successStyle.Render("✓ Done"))
	default:
		b.WriteString(errorStyle.Render("✗ Finished with errors"))
	}
	b.WriteString("\n")

	return b.String()
}

// Title is the heading shown above the log lines.
func Title(appName string, mode cleaner.Mode) string {
	return fmt.Sprintf("%s reset: %s", appName, mode)
}

// Run executes mode on c while showing the progress view. mirror, when not
// nil, receives every line as well. Cancelling ctx closes the view, restores
// the terminal and returns ErrInterrupted.
func Run(ctx context.Context, c *cleaner.Cleaner, appName string, mode cleaner.Mode, mirror message.Logger) (*cleaner.Report, error) {
	events := make(chan tea.Msg, 64)
	send := ChannelLogger(events)
	log := message.Func(func(level message.Level, text string) {
		if mirror != nil {
			message.Log(mirror, level, "%s", text)
		}
		message.Log(send, level, "%s", text)
	})

	go func() {
		outcome := <-c.Start(mode, log)
		events <- DoneMsg(outcome)
		close(events)
	}()

	p := tea.NewProgram(
		newProgressModel(Title(appName, mode), events),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	return finish(p.Run())
}

// finish turns the program's final state into the run's result. A view that
// ended before the outcome arrived counts as interrupted.
func finish(final tea.Model, err error) (*cleaner.Report, error) {
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("failed to run progress view: %w", err)
	}

	m, ok := final.(progressModel)
	if !ok || m.quitted || !m.done {
		return nil, ErrInterrupted
	}
	return m.outcome.Report, m.outcome.Err
}
