// Package tui is the terminal client: a Bubble Tea program rendering the
// room state pushed by the server, with a command line for declarations.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/internal/protocol"
)

type tickMsg time.Time

// Model is the Bubble Tea model for the camarero client.
type Model struct {
	logger *log.Logger
	client *Client
	roomID string

	logViewport  viewport.Model
	commandInput textinput.Model
	waitSpinner  spinner.Model

	playerID string
	state    *protocol.RoomStateData
	pending  *protocol.PendingActionData
	gameLog  []string
	now      time.Time

	width    int
	height   int
	quitting bool
}

// NewModel creates a client model bound to an established connection.
func NewModel(client *Client, roomID string, logger *log.Logger) *Model {
	lipgloss.SetColorProfile(termenv.ColorProfile())

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "serve <player> <category>|<dish>|<variant>, discard <n>, ring, resolve, start, quit"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 80
	ti.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		logger:       logger.WithPrefix("tui"),
		client:       client,
		roomID:       roomID,
		logViewport:  vp,
		commandInput: ti,
		waitSpinner:  sp,
		now:          time.Now(),
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitSpinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			input := strings.TrimSpace(m.commandInput.Value())
			m.commandInput.SetValue("")
			if input != "" {
				m.runCommand(input)
			}
			if m.quitting {
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}
		}

	case tickMsg:
		m.now = time.Time(msg)
		cmds = append(cmds, tick())

	case JoinedMsg:
		m.playerID = msg.PlayerID
		m.addLog(InfoStyle.Render(fmt.Sprintf("Joined room %s as %s (host: %s)", msg.RoomID, msg.PlayerID, msg.Host)))

	case StateMsg:
		state := protocol.RoomStateData(msg)
		m.state = &state
		if state.Status != game.StatusInProgress {
			m.pending = nil
		}

	case PendingMsg:
		pending := protocol.PendingActionData(msg)
		m.pending = &pending

	case ResolutionMsg:
		m.pending = nil
		m.addLog(SuccessStyle.Render(msg.Message))

	case GameOverMsg:
		m.addLog(HeaderStyle.Render("Game over"))
		for i, s := range msg.Standings {
			m.addLog(fmt.Sprintf("%d. %s — %d points, %d complaints (score %d)", i+1, s.Name, s.Points, s.Complaints, s.Score))
		}

	case ServerErrorMsg:
		m.addLog(ErrorStyle.Render(fmt.Sprintf("%s: %s", msg.Code, msg.Message)))

	case DisconnectedMsg:
		m.addLog(ErrorStyle.Render("Disconnected from server"))
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	}

	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	cmds = append(cmds, cmd)
	m.waitSpinner, cmd = m.waitSpinner.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// runCommand parses and dispatches one line of input.
func (m *Model) runCommand(input string) {
	name, args := parseCommand(input)

	var err error
	switch name {
	case "quit", "exit":
		m.quitting = true

	case "start":
		var seed int64
		if len(args) > 0 {
			seed, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				m.addLog(ErrorStyle.Render("usage: start [seed]"))
				return
			}
		}
		err = m.client.Start(m.roomID, seed)

	case "serve":
		target, category, dish, variant, perr := parseServeArgs(args)
		if perr != nil {
			m.addLog(ErrorStyle.Render(perr.Error()))
			return
		}
		err = m.client.Serve(m.roomID, target, category, dish, variant)

	case "discard":
		if len(args) != 1 {
			m.addLog(ErrorStyle.Render("usage: discard <center position or card id>"))
			return
		}
		err = m.client.Discard(m.roomID, m.resolveCardID(args[0]))

	case "ring":
		err = m.client.Ring(m.roomID)

	case "resolve":
		err = m.client.Resolve(m.roomID)

	default:
		m.addLog(ErrorStyle.Render("unknown command: " + name))
		return
	}

	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
	}
}

func parseCommand(input string) (string, []string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}

// parseServeArgs understands "serve <player> <category>|<dish>|<variant>".
// The guess keeps its spaces, so only the pipes separate it.
func parseServeArgs(args []string) (target, category, dish, variant string, err error) {
	usage := fmt.Errorf("usage: serve <player> <category>|<dish>|<variant>")
	if len(args) < 2 {
		return "", "", "", "", usage
	}
	target = args[0]
	guess := strings.Split(strings.Join(args[1:], " "), "|")
	if len(guess) != 3 {
		return "", "", "", "", usage
	}
	category = strings.TrimSpace(guess[0])
	dish = strings.TrimSpace(guess[1])
	variant = strings.TrimSpace(guess[2])
	if category == "" || dish == "" || variant == "" {
		return "", "", "", "", usage
	}
	return target, category, dish, variant, nil
}

// resolveCardID accepts either a 1-based center position or a raw card id.
func (m *Model) resolveCardID(arg string) string {
	if m.state == nil {
		return arg
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(m.state.Center) {
		return m.state.Center[n-1].ID
	}
	return arg
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.state == nil {
		return m.waitSpinner.View() + " Connecting..."
	}

	header := HeaderStyle.Render(fmt.Sprintf(" Il Camarero — %s [%s] ", m.roomID, m.state.Status))

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent) + 2

	sidebar := m.renderSidebar()
	sidebarWidth := max(28, lipgloss.Width(sidebar))

	bodyHeight := max(1, m.height-actionHeight-lipgloss.Height(header)-4)
	logWidth := max(1, m.width-sidebarWidth-4)

	m.logViewport.Width = logWidth
	m.logViewport.Height = bodyHeight
	m.logViewport.SetContent(m.renderTable() + "\n" + strings.Join(m.gameLog, "\n"))

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(bodyHeight).
		Render(m.logViewport.View())

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(sidebar)

	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#A0522D")).
		Width(max(1, m.width-2)).
		Render(actionContent)

	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, header, body, actionPane)
}

// renderTable shows the shared table: the face-up kitchen row and the
// viewer's own hand.
func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(InfoStyle.Render(fmt.Sprintf("Kitchen (%d left in deck):", m.state.KitchenSize)))
	b.WriteString("\n")
	for i, c := range m.state.Center {
		b.WriteString(CardStyle.Render(fmt.Sprintf("  %d. %s", i+1, c)))
		b.WriteString("\n")
	}

	for _, p := range m.state.Players {
		if p.ID != m.playerID {
			continue
		}
		b.WriteString(InfoStyle.Render("Your orders:"))
		b.WriteString("\n")
		for _, c := range p.Hand {
			line := "  " + c.String()
			if c.Served {
				b.WriteString(ServedStyle.Render(line + " ✓"))
			} else {
				b.WriteString(CardStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderSidebar lists players with scores, marking the turn holder and host.
func (m *Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(InfoStyle.Render("Players:"))
	b.WriteString("\n")
	for _, p := range m.state.Players {
		line := fmt.Sprintf("%s  %dp %dq (%d)", p.Name, p.Points, p.Complaints, p.Score)
		switch {
		case p.ID == m.state.CurrentTurn:
			b.WriteString(TurnStyle.Render("→ " + line))
		case p.ID == m.state.Host:
			b.WriteString(HostStyle.Render("  " + line + " ♦"))
		default:
			b.WriteString(CardStyle.Render("  " + line))
		}
		if !p.Connected {
			b.WriteString(InfoStyle.Render(" (away)"))
		}
		b.WriteString("\n")
	}

	if m.state.Status == game.StatusInProgress {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Discards left: %d", m.state.DiscardsLeft)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderActionPane shows the pending challenge window and the command input.
func (m *Model) renderActionPane() string {
	var b strings.Builder

	if m.pending != nil {
		remaining := max(0, int(m.pending.Deadline.Sub(m.now).Round(time.Second).Seconds()))
		what := m.pending.CardID
		if m.pending.Kind == "serve" {
			what = fmt.Sprintf("%s: %s (%s) to %s", m.pending.Category, m.pending.Dish, m.pending.Variant, m.pending.Target)
		}
		b.WriteString(PendingStyle.Render(fmt.Sprintf("%s by %s — %s — %ds to ring the bell", m.pending.Kind, m.pending.Actor, what, remaining)))
		if len(m.pending.Challengers) > 0 {
			b.WriteString(PendingStyle.Render("  bells: " + strings.Join(m.pending.Challengers, ", ")))
		}
		b.WriteString("\n")
	} else if m.state.CurrentTurn == m.playerID {
		b.WriteString(TurnStyle.Render("Your turn."))
		b.WriteString("\n")
	}

	b.WriteString(m.commandInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("serve <player> <category>|<dish>|<variant> • discard <n> • ring • resolve • start [seed] • Ctrl+C to quit"))

	return b.String()
}
