package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelstudio/internal/config"
	"github.com/ivlev/reelstudio/internal/logging"
	"github.com/ivlev/reelstudio/internal/preset"
	"github.com/ivlev/reelstudio/internal/studio"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := config.Default()
	cfg.TickInterval = time.Hour
	s, err := studio.New(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return newModel(context.Background(), s, nil)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	var tm tea.Model = m
	for _, msg := range msgs {
		tm, _ = tm.Update(msg)
	}
	return tm.(model)
}

func TestCycleFormatKey(t *testing.T) {
	m := press(t, newTestModel(t), keys("f"))
	r := m.session.View()
	assert.Equal(t, preset.StoryBuilder, r.Format.ID)
	assert.Contains(t, m.View(), "Story Builder")
}

func TestTogglePlayKey(t *testing.T) {
	m := press(t, newTestModel(t), tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.session.View().Playing)
	assert.Equal(t, "playing", m.status)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.session.View().Playing)
}

func TestTempoKeys(t *testing.T) {
	m := press(t, newTestModel(t), keys("+"), keys("+"), keys("-"))
	assert.InDelta(t, 0.05, m.session.View().TempoBoost, 1e-9)
}

func TestSelectionClamps(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected)

	for i := 0; i < 10; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(m.session.View().Scenes)-1, m.selected)
}

func TestDurationKeys(t *testing.T) {
	m := press(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyDown})
	before := m.session.View().Scenes[1].Duration
	m = press(t, m, keys("]"), keys("]"))
	assert.InDelta(t, before+0.2, m.session.View().Scenes[1].Duration, 0.051)

	m = press(t, m, keys("["))
	assert.InDelta(t, before+0.1, m.session.View().Scenes[1].Duration, 0.051)
}

func TestEditIdea(t *testing.T) {
	m := press(t, newTestModel(t), keys("e"))
	require.Equal(t, editIdea, m.editing)
	m.input = nil

	m = press(t, m, keys("Tea"), tea.KeyMsg{Type: tea.KeySpace}, keys("timex"), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "Tea time", string(m.input))
	assert.Contains(t, m.View(), "Tea time█")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "Tea time", m.session.View().Idea)

	// q while editing is text, not quit.
	m = press(t, m, keys("e"), keys("q"))
	assert.True(t, strings.HasSuffix(string(m.input), "q"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "Tea time", m.session.View().Idea)
}

func TestEditScriptNeedsSync(t *testing.T) {
	m := press(t, newTestModel(t), keys("x"))
	assert.Contains(t, string(m.input), `\nScene 2`)

	m.input = []rune(`One: a\nTwo: b`)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.session.View().Scenes, 5)

	m = press(t, m, keys("s"))
	assert.Len(t, m.session.View().Scenes, 2)
}

func TestEditCopy(t *testing.T) {
	m := press(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyDown}, keys("c"))
	m.input = []rune("fresh copy")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "fresh copy", m.session.View().Scenes[1].Copy)
}

func TestQuit(t *testing.T) {
	_, cmd := newTestModel(t).Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewListsStages(t *testing.T) {
	out := newTestModel(t).View()
	for _, st := range preset.Stages() {
		assert.Contains(t, out, st.Label)
	}
	assert.Contains(t, out, "[>] Script Intelligence")
	assert.Contains(t, out, "retention")
}

func TestRefreshChannel(t *testing.T) {
	ch, opt := Refresh()
	assert.NotNil(t, opt)
	assert.Len(t, ch, 0)
	assert.Equal(t, 1, cap(ch))
}

func TestTickRearmsWait(t *testing.T) {
	m := newTestModel(t)
	ch := make(chan struct{}, 1)
	m.refresh = ch
	_, cmd := m.Update(tickMsg{})
	require.NotNil(t, cmd)

	ch <- struct{}{}
	assert.Equal(t, tickMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
