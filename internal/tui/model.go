// Package tui implements the spectator terminal client (§6 outbound
// events, "spectator_joined"/"_left"): a read-only Bubble Tea view onto
// one table's live game, grounded on the teacher's internal/tui
// TUIModel shape but stripped of action input — a spectator never
// drives the engine, only watches it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cardtable/tablesvc/internal/dispatch"
	"github.com/cardtable/tablesvc/internal/game"
)

// WireMsg wraps one decoded server message for delivery into the
// Bubble Tea update loop via tea.Program.Send, since the websocket
// reader runs on its own goroutine outside of Bubble Tea's command
// machinery.
type WireMsg struct {
	Kind    dispatch.OutboundKind
	Game    *dispatch.GameSnapshot
	Payload map[string]any
}

// ConnErrMsg reports a fatal connection failure to the model.
type ConnErrMsg struct{ Err error }

// Model is the spectator view: a scrolling event log plus a live
// summary of the game's current phase, scores, and trick.
type Model struct {
	tableName string
	logger    *log.Logger

	logViewport viewport.Model
	gameLog     []string
	game        *dispatch.GameSnapshot

	width, height int
	quitting      bool
	connErr       error
}

// NewModel constructs a spectator model for tableName.
func NewModel(tableName string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")
	return &Model{
		tableName:   tableName,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		gameLog:     []string{fmt.Sprintf("Spectating %q...", tableName)},
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.logViewport.ScrollUp(1)
		case "down", "j":
			m.logViewport.ScrollDown(1)
		}
	case WireMsg:
		m.applyWireMsg(msg)
	case ConnErrMsg:
		m.connErr = msg.Err
		m.addLogEntry(ErrorStyle.Render("connection error: " + msg.Err.Error()))
	}
	return m, nil
}

func (m *Model) applyWireMsg(msg WireMsg) {
	if msg.Game != nil {
		m.game = msg.Game
	}
	m.addLogEntry(describeEvent(msg))
}

func (m *Model) addLogEntry(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logger.Debug("event", "line", line)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sidebarContent := m.renderSidebar()
	sidebarWidth := 32
	sidebarHeight := m.height - 2
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	logWidth := m.width - sidebarWidth - 4
	logHeight := m.height - 2
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(logWidth).
		Height(logHeight)
	logPane := logStyle.Render(m.logViewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" " + m.tableName + " ") + "\n\n")

	if m.game == nil {
		b.WriteString(InfoStyle.Render("waiting for game state...") + "\n")
		return b.String()
	}

	g := m.game
	b.WriteString(fmt.Sprintf("phase: %s\n", g.Phase))
	b.WriteString(fmt.Sprintf("round: %d\n", g.RoundIndex))
	if g.TrumpSuit != "" {
		b.WriteString(TrumpStyle.Render("trump: "+string(g.TrumpSuit)) + "\n")
	}
	if g.CurrentBid != nil {
		b.WriteString(fmt.Sprintf("bid: seat %d for %d\n", g.CurrentBid.Seat, g.CurrentBid.Points))
	}
	b.WriteString("\n")
	for _, seat := range []game.SeatPosition{0, 1, 2, 3} {
		line := fmt.Sprintf("seat %d", seat)
		if seat == g.CurrentSeat {
			b.WriteString(CurrentSeatStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(SeatStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("team 1: %d\n", g.TeamScores[game.Team1]))
	b.WriteString(fmt.Sprintf("team 2: %d\n", g.TeamScores[game.Team2]))

	if g.CurrentTrick != nil && len(g.CurrentTrick.Plays) > 0 {
		b.WriteString("\ncurrent trick:\n")
		for _, p := range g.CurrentTrick.Plays {
			b.WriteString(fmt.Sprintf("  seat %d: %s\n", p.Seat, p.Card))
		}
	}
	return b.String()
}

// describeEvent renders one wire message as a single human-readable
// log line, pulling the fields that matter for each outbound kind.
func describeEvent(msg WireMsg) string {
	switch msg.Kind {
	case dispatch.OutboundBidMade:
		switch {
		case msg.Payload["AllPass"] != nil:
			return InfoStyle.Render("all players passed, redealing")
		case msg.Payload["NextPhase"] != nil:
			return SuccessStyle.Render(fmt.Sprintf("bidding complete: seat %v wins with trump %v", msg.Payload["Bidder"], msg.Payload["TrumpSuit"]))
		case msg.Payload["Points"] != nil:
			return fmt.Sprintf("seat %v bids %v %v", msg.Payload["Seat"], msg.Payload["Points"], msg.Payload["Suit"])
		default:
			return fmt.Sprintf("seat %v passes", msg.Payload["Seat"])
		}
	case dispatch.OutboundCardPlayed:
		return fmt.Sprintf("seat %v plays %v", msg.Payload["Seat"], msg.Payload["Card"])
	case dispatch.OutboundTrickCompleted:
		return SuccessStyle.Render(fmt.Sprintf("trick won by seat %v (%v points)", msg.Payload["Winner"], msg.Payload["Points"]))
	case dispatch.OutboundRoundCompleted:
		return SuccessStyle.Render("round completed")
	case dispatch.OutboundGameStarted:
		return SuccessStyle.Render("game started")
	case dispatch.OutboundGameEnded:
		return SuccessStyle.Render(fmt.Sprintf("game ended, winning team %v", msg.Payload["WinningTeam"]))
	case dispatch.OutboundGameTimeout:
		return ErrorStyle.Render(fmt.Sprintf("seat %v timed out", msg.Payload["seat"]))
	case dispatch.OutboundError:
		return ErrorStyle.Render(fmt.Sprintf("error: %v", msg.Payload["message"]))
	default:
		return string(msg.Kind)
	}
}
