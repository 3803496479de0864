package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/obaydah/miftah/internal/engine"
	"github.com/obaydah/miftah/internal/grapheme"
	"github.com/obaydah/miftah/internal/model"
	"github.com/obaydah/miftah/internal/store"
	"github.com/obaydah/miftah/internal/texts"
)

func newTestModel(t *testing.T, article string, words int) *Model {
	return newTestModelWithDuration(t, article, words, 30*time.Second)
}

func newTestModelWithDuration(t *testing.T, article string, words int, duration time.Duration) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "miftah.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	provider, err := texts.NewProvider(article)
	require.NoError(t, err)

	cfg := model.GameConfig{Lang: "ar", Words: words, Duration: duration}
	return NewModel(cfg, st, nil, provider, grapheme.Default(), nil)
}

func typeInto(m *Model, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			key = tea.KeyMsg{Type: tea.KeySpace}
		}
		_, cmd = m.Update(key)
	}
	return cmd
}

func TestModelFinishesAndStoresGame(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, m.session.Source())
	require.Equal(t, engine.Finished, m.session.State())
	require.True(t, m.saved)

	games, err := m.store.ListGames(context.Background(), model.HistoryConfig{Lang: "ar"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, 100, games[0].Accuracy)
	require.Equal(t, "complete", games[0].Cause)
}

func TestModelResetStartsFreshSession(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, m.session.Source())
	firstID := m.session.ID()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, engine.Idle, m.session.State())
	require.NotEqual(t, firstID, m.session.ID())
	require.Equal(t, 30*time.Second, m.session.Limit())
	require.False(t, m.saved)
}

func TestModelDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, "ك")
	staleID := m.session.ID()
	m.resetSession()

	typeInto(m, "ك")
	m.Update(tickMsg{id: staleID})
	require.Equal(t, engine.Active, m.session.State())
}

func TestModelReschedulesTickWhileActive(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, "ك")
	require.Equal(t, engine.Active, m.session.State())

	_, cmd := m.Update(tickMsg{id: m.session.ID()})
	require.Equal(t, engine.Active, m.session.State())
	require.NotNil(t, cmd, "tick chain must continue while the session runs")
}

func TestModelFinalizesOnTimeoutTick(t *testing.T) {
	m := newTestModelWithDuration(t, "كتب ولد", 2, 10*time.Millisecond)

	typeInto(m, "ك")
	time.Sleep(20 * time.Millisecond)

	m.Update(tickMsg{id: m.session.ID()})
	require.Equal(t, engine.Finished, m.session.State())
	require.Equal(t, engine.CauseTimeout, m.session.Cause())
	require.True(t, m.saved)

	games, err := m.store.ListGames(context.Background(), model.HistoryConfig{Lang: "ar"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "timeout", games[0].Cause)
}

func TestModelSkipsSubmitWithoutClient(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, m.session.Source())
	require.Equal(t, submitNone, m.submit)
}

func TestModelEnterIgnoredWhileActive(t *testing.T) {
	m := newTestModel(t, "كتب ولد", 2)

	typeInto(m, "ك")
	id := m.session.ID()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, id, m.session.ID())
	require.Equal(t, engine.Active, m.session.State())
}
