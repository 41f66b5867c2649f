// Package ui is the terminal front end of a studio session.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/reelstudio/internal/engine"
	"github.com/ivlev/reelstudio/internal/metrics"
	"github.com/ivlev/reelstudio/internal/renderer"
	"github.com/ivlev/reelstudio/internal/studio"
)

const barWidth = 24

type editTarget int

const (
	editNone editTarget = iota
	editIdea
	editCopy
	editScript
)

func (e editTarget) String() string {
	switch e {
	case editIdea:
		return "idea"
	case editCopy:
		return "scene copy"
	case editScript:
		return "script"
	}
	return ""
}

// tickMsg tells the model the engine has moved.
type tickMsg struct{}

// Refresh returns a channel that receives a signal after engine ticks and the
// engine option that feeds it. The send never blocks: a slow render just
// coalesces ticks.
func Refresh() (<-chan struct{}, engine.Option) {
	ch := make(chan struct{}, 1)
	return ch, engine.WithTickHandler(func(engine.Snapshot) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}

func waitForTick(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return tickMsg{}
	}
}

type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	active  lipgloss.Style
	panel   lipgloss.Style
	warning lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

type model struct {
	ctx     context.Context
	session *studio.Session
	refresh <-chan struct{}
	styles  styles

	selected int
	editing  editTarget
	input    []rune
	status   string
}

func newModel(ctx context.Context, s *studio.Session, refresh <-chan struct{}) model {
	return model{ctx: ctx, session: s, refresh: refresh, styles: newStyles()}
}

func (m model) Init() tea.Cmd { return waitForTick(m.refresh) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, waitForTick(m.refresh)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editing != editNone {
			m.updateEdit(msg)
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case " ":
		if m.session.TogglePlay(m.ctx) {
			m.status = "playing"
		} else {
			m.status = "paused"
		}
	case "s":
		m.session.Sync()
		m.status = "script synced"
	case "b":
		m.session.Regenerate()
		m.status = "script rebuilt from idea"
	case "f":
		m.session.CycleFormat()
	case "g":
		m.session.CycleBackground()
	case "+", "=":
		m.session.NudgeTempo(1)
	case "-", "_":
		m.session.NudgeTempo(-1)
	case "up", "k":
		m.selected--
	case "down", "j":
		m.selected++
	case "[":
		m.nudgeSelected(-1)
	case "]":
		m.nudgeSelected(1)
	case "e":
		m.startEdit(editIdea, m.session.View().Idea)
	case "c":
		r := m.session.View()
		if len(r.Scenes) > 0 {
			m.clampSelection(len(r.Scenes))
			m.startEdit(editCopy, r.Scenes[m.selected].Copy)
		}
	case "x":
		m.startEdit(editScript, escapeNewlines(m.session.View().Script))
	}
	m.clampSelection(len(m.session.View().Scenes))
	return m, nil
}

func (m *model) nudgeSelected(steps int) {
	if err := m.session.NudgeSceneDuration(m.selected, steps); err != nil {
		m.status = err.Error()
	}
}

func (m *model) clampSelection(n int) {
	m.selected = metrics.ClampIndex(m.selected, n)
}

func (m *model) startEdit(target editTarget, initial string) {
	m.editing = target
	m.input = []rune(initial)
}

func (m *model) updateEdit(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.commitEdit()
	case tea.KeyEsc:
		m.editing = editNone
		m.input = nil
		m.status = "edit cancelled"
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
}

func (m *model) commitEdit() {
	text := string(m.input)
	switch m.editing {
	case editIdea:
		m.session.SetIdea(text)
		m.status = "idea updated, press b to rebuild the script"
	case editCopy:
		if err := m.session.EditSceneCopy(m.selected, text); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("scene %d updated", m.selected+1)
		}
	case editScript:
		m.session.SetScript(unescapeNewlines(text))
		m.status = "script updated, press s to sync"
	}
	m.editing = editNone
	m.input = nil
}

// Scripts are edited on one line with literal \n separators.
func escapeNewlines(s string) string { return strings.ReplaceAll(s, "\n", `\n`) }

func unescapeNewlines(s string) string { return strings.ReplaceAll(s, `\n`, "\n") }

func (m model) View() string {
	r := m.session.View()
	st := m.styles
	var b strings.Builder

	state := "⏸ paused"
	if r.Playing {
		state = "▶ playing"
	}
	fmt.Fprintf(&b, "%s  %s\n", st.title.Render("Reel Studio"), st.muted.Render(r.Format.Label+" · "+r.Background.Label))
	fmt.Fprintf(&b, "%s  tempo %.2fx (trim %+.2f)  runtime %.1fs  retention %d  stage %d/%d\n",
		state, r.Tempo, r.TempoBoost, r.Runtime, r.RetentionScore, r.ActiveStage+1, len(r.Stages))
	fmt.Fprintf(&b, "reel  %s %3.0f%%\n\n", renderer.PercentBar(r.GlobalProgress, barWidth), r.GlobalProgress)

	now := fmt.Sprintf("%s\n%s\n%s",
		st.active.Render(r.Current.Tag),
		r.Current.Copy,
		st.muted.Render(strings.Join(nonEmpty(r.Current.Motion, r.Current.Overlay, r.Current.Beat), " · ")))
	b.WriteString(st.panel.Render(now))
	b.WriteString("\n\n")

	for i, sc := range r.Scenes {
		cursor := "  "
		if i == m.selected {
			cursor = st.accent.Render("> ")
		}
		var fraction float64
		switch {
		case i < r.ActiveIndex:
			fraction = 1
		case i == r.ActiveIndex:
			fraction = r.SceneFraction
		}
		line := fmt.Sprintf("%s%-10s %4.1fs %s", cursor, truncate(sc.Tag, 10), sc.Duration, renderer.ProgressBar(fraction, barWidth/2))
		if i == r.ActiveIndex {
			line = st.active.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	for _, stage := range r.Stages {
		mark := "[ ]"
		switch stage.Status {
		case metrics.StageComplete:
			mark = "[x]"
		case metrics.StageActive:
			mark = "[>]"
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, stage.Label, st.muted.Render(stage.Description))
	}

	fmt.Fprintf(&b, "\nidea: %s\n", st.muted.Render(truncate(r.Idea, 72)))

	if m.editing != editNone {
		fmt.Fprintf(&b, "%s %s█\n", st.warning.Render("edit "+m.editing.String()+":"), string(m.input))
		b.WriteString(st.muted.Render("enter save · esc cancel"))
		return b.String()
	}
	if m.status != "" {
		b.WriteString(st.warning.Render(m.status) + "\n")
	}
	b.WriteString(st.muted.Render("space play · s sync · b rebuild · f format · g background · +/- tempo · ↑/↓ scene · [/] duration · e idea · c copy · x script · q quit"))
	return b.String()
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Run starts the TUI and blocks until the user quits or ctx is done.
// refresh is the channel returned by Refresh, wired into the session's engine.
func Run(ctx context.Context, s *studio.Session, refresh <-chan struct{}, autoplay bool) error {
	if autoplay {
		s.Play(ctx)
	}
	defer s.Pause()

	p := tea.NewProgram(newModel(ctx, s, refresh), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
