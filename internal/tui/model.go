package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/obaydah/miftah/internal/engine"
	"github.com/obaydah/miftah/internal/grapheme"
	"github.com/obaydah/miftah/internal/leaderboard"
	"github.com/obaydah/miftah/internal/model"
	"github.com/obaydah/miftah/internal/store"
	"github.com/obaydah/miftah/internal/texts"
)

type submitState int

const (
	submitNone submitState = iota
	submitPending
	submitDone
	submitFailed
)

// tickMsg carries the session it was scheduled for so that ticks from
// an abandoned session are dropped instead of expiring the next one.
type tickMsg struct {
	id uuid.UUID
}

type submitResultMsg struct {
	id      uuid.UUID
	entries []leaderboard.Entry
	err     error
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.GameConfig
	store    *store.Store
	lb       *leaderboard.Client
	provider *texts.Provider
	seg      grapheme.Segmenter
	log      *slog.Logger

	width  int
	height int

	session *engine.Session
	saved   bool

	localBest    int
	hasLocalBest bool

	submit    submitState
	submitErr error
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.GameConfig, st *store.Store, lb *leaderboard.Client, provider *texts.Provider, seg grapheme.Segmenter, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	m := &Model{
		config:   cfg,
		store:    st,
		lb:       lb,
		provider: provider,
		seg:      seg,
		log:      log,
	}
	m.loadLocalBest()
	m.resetSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case submitResultMsg:
		m.handleSubmitResult(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyTab:
		if m.session.State() == engine.Finished {
			m.resetSession()
		}
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		m.session.Backspace()
		return m, nil
	case tea.KeySpace:
		return m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		return m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) handleRunes(runes []rune) (tea.Model, tea.Cmd) {
	wasIdle := m.session.State() == engine.Idle
	now := time.Now()
	for _, r := range runes {
		m.session.Type(r, now)
	}
	if m.session.State() == engine.Finished {
		return m, m.finalize()
	}
	if wasIdle && m.session.State() == engine.Active {
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.session.ID() {
		return m, nil
	}
	if m.session.Tick(time.Now()) {
		return m, m.tickCmd()
	}
	return m, m.finalize()
}

func (m *Model) tickCmd() tea.Cmd {
	id := m.session.ID()
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// finalize persists the finished game and, when the score beats the
// local best on an authenticated client, submits it to the server.
func (m *Model) finalize() tea.Cmd {
	metrics, ok := m.session.Metrics()
	if !ok || m.saved {
		return nil
	}
	m.saved = true

	endedAt := time.Now()
	rec := model.GameRecord{
		SessionID:    m.session.ID().String(),
		StartedAt:    endedAt.Add(-m.session.Elapsed()),
		EndedAt:      endedAt,
		Lang:         m.config.Lang,
		Words:        m.config.Words,
		WPM:          metrics.WPM,
		Accuracy:     metrics.Accuracy,
		CorrectChars: m.session.Correct(),
		TypedChars:   m.session.TypedLen(),
		DurationMs:   m.session.Elapsed().Milliseconds(),
		FinishCause:  m.session.Cause().String(),
	}
	ctx := context.Background()
	if _, err := m.store.InsertGame(ctx, rec); err != nil {
		m.log.Error("failed to save game", "error", err)
	}

	if !m.shouldSubmit(metrics.WPM) || !m.session.ClaimReport() {
		return nil
	}
	m.submit = submitPending
	return m.submitCmd(rec)
}

func (m *Model) shouldSubmit(wpm int) bool {
	if m.lb == nil || !m.lb.Configured() || !m.lb.Authenticated() {
		return false
	}
	if wpm <= 0 {
		return false
	}
	return !m.hasLocalBest || wpm > m.localBest
}

func (m *Model) submitCmd(rec model.GameRecord) tea.Cmd {
	id := m.session.ID()
	score := leaderboard.Score{
		SessionID: rec.SessionID,
		WPM:       rec.WPM,
		Accuracy:  rec.Accuracy,
	}
	lb := m.lb
	return func() tea.Msg {
		entries, err := lb.Submit(context.Background(), score)
		return submitResultMsg{id: id, entries: entries, err: err}
	}
}

func (m *Model) handleSubmitResult(msg submitResultMsg) {
	if msg.id != m.session.ID() {
		// The result belongs to a previous game; the row is already
		// stored locally, so only the marker update matters.
		if msg.err == nil {
			m.markSubmitted(msg.id.String())
		}
		return
	}
	if msg.err != nil {
		m.submit = submitFailed
		m.submitErr = msg.err
		m.log.Warn("score submission failed", "error", msg.err)
		return
	}
	m.submit = submitDone
	m.markSubmitted(msg.id.String())
	if metrics, ok := m.session.Metrics(); ok {
		if !m.hasLocalBest || metrics.WPM > m.localBest {
			m.localBest = metrics.WPM
			m.hasLocalBest = true
		}
	}
}

func (m *Model) markSubmitted(sessionID string) {
	if err := m.store.MarkSubmitted(context.Background(), sessionID); err != nil {
		m.log.Error("failed to mark game as submitted", "error", err)
	}
}

func (m *Model) loadLocalBest() {
	best, ok, err := m.store.BestWPM(context.Background(), m.config.Lang)
	if err != nil {
		m.log.Error("failed to load best score", "error", err)
		return
	}
	m.localBest = best
	m.hasLocalBest = ok
}

func (m *Model) resetSession() {
	text := m.provider.Pick(m.config.Words)
	m.session = engine.NewSession(text, m.config.Duration, m.seg)
	m.saved = false
	m.submit = submitNone
	m.submitErr = nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.session.State() == engine.Finished {
		return m.viewResult()
	}
	return m.viewTyping()
}

func (m *Model) viewTyping() string {
	clusters := buildStyledClusters(m.session.Rendered())
	if m.width == 0 || m.height == 0 {
		return renderStyledClusters(clusters)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledClusters(clusters, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	header := m.renderHeader()
	footer := m.renderFooter()
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return headerLine + "\n" + body + "\n" + footerLine
}

func (m *Model) viewResult() string {
	metrics, ok := m.session.Metrics()
	if !ok {
		return ""
	}
	lines := []string{
		resultStyle.Render(fmt.Sprintf("%d WPM", metrics.WPM)),
		fmt.Sprintf("Accuracy %d%%", metrics.Accuracy),
		fmt.Sprintf("Duration %s", m.session.Elapsed().Round(time.Second)),
	}
	if note := m.submitNote(); note != "" {
		lines = append(lines, "", footerStyle.Render(note))
	}
	lines = append(lines, "", footerStyle.Render("enter to play again · esc to quit"))
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) submitNote() string {
	switch m.submit {
	case submitPending:
		return "submitting score..."
	case submitDone:
		return "new personal best submitted"
	case submitFailed:
		return fmt.Sprintf("submission failed: %v", m.submitErr)
	default:
		return ""
	}
}

func (m *Model) renderHeader() string {
	remaining := m.session.Remaining(time.Now())
	secs := int(remaining.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return headerStyle.Render(fmt.Sprintf("%d:%02d", secs/60, secs%60))
}

func (m *Model) renderFooter() string {
	total := m.session.ExpectedLen()
	progress := 0
	if total > 0 {
		progress = m.session.TypedLen() * 100 / total
		if progress > 100 {
			progress = 100
		}
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.hasLocalBest {
		segments = append(segments, fmt.Sprintf("Best %d WPM", m.localBest))
	}
	if m.lb != nil && m.lb.Configured() && !m.lb.Authenticated() {
		segments = append(segments, "offline (no token)")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
