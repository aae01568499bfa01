package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/fakecheck/session"
)

const maxBarWidth = 60

// SessionModel is the interactive front end of one upload session
type SessionModel struct {
	ctx        context.Context
	controller *session.Controller
	events     <-chan struct{}
	initial    string

	// Widgets
	input   textinput.Model
	bar     progress.Model
	spinner spinner.Model

	// Last known controller state
	snap session.Snapshot

	// notice is a validation message shown under the button
	notice   string
	width    int
	quitting bool
}

// NewSessionModel creates the TUI model. events must be fed by the controller listener,
// see Listener. A non-empty initial path is selected on start.
func NewSessionModel(ctx context.Context, c *session.Controller, events <-chan struct{}, initial string) SessionModel {
	input := textinput.New()
	input.Placeholder = "/path/to/video.mp4"
	input.Prompt = "📂 "
	input.Width = maxBarWidth
	input.Focus()

	return SessionModel{
		ctx:        ctx,
		controller: c,
		events:     events,
		initial:    initial,
		input:      input,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ProcessingStyle)),
		snap:       c.Snapshot(),
	}
}

// Init implements tea.Model
func (m SessionModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, waitForEvent(m.events)}
	if m.initial != "" {
		cmds = append(cmds, m.selectCmd(m.initial))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
		return m, nil

	case sessionChangedMsg:
		m.snap = m.controller.Snapshot()
		return m, waitForEvent(m.events)

	case selectFinishedMsg:
		m.snap = m.controller.Snapshot()
		if msg.Error != nil {
			m.notice = msg.Error.Error()
			return m, nil
		}
		m.notice = ""
		m.input.Reset()
		return m, nil

	case submitFinishedMsg:
		m.snap = m.controller.Snapshot()
		// Remote failures are shown as the result, only local rejections become notices
		if errors.Is(msg.Error, session.ErrNoMedia) || errors.Is(msg.Error, session.ErrInFlight) {
			m.notice = msg.Error.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		return m.handleSelect()

	case "ctrl+s":
		return m.handleSubmit()
	}

	// A dropped file arrives as a bracketed paste. It replaces whatever was typed
	// and is selected right away.
	if msg.Paste {
		m.input.Reset()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if msg.Paste {
		next, selectCmd := m.handleSelect()
		return next, tea.Batch(cmd, selectCmd)
	}
	return m, cmd
}

func (m SessionModel) handleSelect() (SessionModel, tea.Cmd) {
	path := CleanDroppedPath(m.input.Value())
	if path == "" {
		m.notice = session.ErrNoMedia.Error()
		return m, nil
	}
	if m.snap.Loading {
		m.notice = session.ErrInFlight.Error()
		return m, nil
	}
	m.notice = ""
	return m, m.selectCmd(path)
}

func (m SessionModel) handleSubmit() (SessionModel, tea.Cmd) {
	if m.snap.Loading {
		return m, nil
	}
	if m.snap.Media == nil {
		m.notice = session.ErrNoMedia.Error()
		return m, nil
	}
	m.notice = ""
	return m, m.submitCmd()
}

func (m SessionModel) selectCmd(path string) tea.Cmd {
	c, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return selectFinishedMsg{Path: path, Error: c.Select(ctx, path)}
	}
}

func (m SessionModel) submitCmd() tea.Cmd {
	c, ctx := m.controller, m.ctx
	return func() tea.Msg {
		_, err := c.Submit(ctx)
		return submitFinishedMsg{Error: err}
	}
}

func waitForEvent(events <-chan struct{}) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return sessionChangedMsg{}
	}
}

// View implements tea.Model
func (m SessionModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content strings.Builder

	content.WriteString(HeaderStyle.Render("FakeCheck - Deepfake Video Detection"))
	content.WriteString("\n\n")

	content.WriteString(DropZoneStyle.Render("Drag & drop a video here or type its path\n\n" + m.input.View()))
	content.WriteString("\n\n")

	if block := RenderPreview(m.snap.Media, m.snap.Preview); block != "" {
		content.WriteString(block)
		content.WriteString("\n\n")
	}

	content.WriteString(m.renderButton())
	content.WriteString("\n")

	if m.notice != "" {
		content.WriteString(ErrorStyle.Render("⚠️  " + m.notice))
		content.WriteString("\n")
	}

	if status := m.renderStatus(); status != "" {
		content.WriteString("\n")
		content.WriteString(status)
		content.WriteString("\n")
	}

	if m.snap.Status.Phase == session.PhaseUploading {
		content.WriteString(m.bar.ViewAs(float64(m.snap.Status.Percent) / 100))
		content.WriteString("\n")
	}

	if m.snap.Result != nil {
		content.WriteString("\n")
		content.WriteString(ResultBoxStyle.Render(RenderResult(m.snap.Result)))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(MutedStyle.Render("enter: select • ctrl+s: upload & analyze • esc: quit"))

	return content.String()
}

func (m SessionModel) renderButton() string {
	if m.snap.Loading {
		return DisabledButtonStyle.Render(m.spinner.View() + " Analyzing…")
	}
	return ButtonStyle.Render("Upload & Analyze")
}

func (m SessionModel) renderStatus() string {
	text := m.snap.Status.String()
	if text == "" {
		return ""
	}
	switch m.snap.Status.Phase {
	case session.PhaseCompleted:
		return SuccessStyle.Render("✅ " + text)
	case session.PhaseError:
		return ErrorStyle.Render("❌ " + text)
	default:
		return ProcessingStyle.Render(fmt.Sprintf("⏳ %s", text))
	}
}
