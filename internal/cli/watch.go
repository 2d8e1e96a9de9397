package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/rpsarena/engine/internal/rps"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a tournament bracket resolve live",
	Run: func(cmd *cobra.Command, args []string) {
		runWatch()
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

// outcomeMsg wraps a streamed match outcome as a bubbletea message.
type outcomeMsg rps.MatchOutcome

// watchModel is the bubbletea model for the bracket-watch TUI: an
// append-only log of match outcomes in a scrollable viewport.
type watchModel struct {
	logger   *log.Logger
	viewport viewport.Model
	lines    []string
	outcomes <-chan rps.MatchOutcome
	width    int
	height   int
	quitting bool
}

func newWatchModel(outcomes <-chan rps.MatchOutcome) *watchModel {
	vp := viewport.New(80, 20)
	return &watchModel{
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "watch"}),
		viewport: vp,
		outcomes: outcomes,
	}
}

func waitForOutcome(outcomes <-chan rps.MatchOutcome) tea.Cmd {
	return func() tea.Msg {
		outcome, ok := <-outcomes
		if !ok {
			return tea.Quit()
		}
		return outcomeMsg(outcome)
	}
}

func (m *watchModel) Init() tea.Cmd {
	return waitForOutcome(m.outcomes)
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		}
	case outcomeMsg:
		m.lines = append(m.lines, renderOutcome(rps.MatchOutcome(msg)))
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
		return m, waitForOutcome(m.outcomes)
	}
	return m, nil
}

func (m *watchModel) View() string {
	if m.quitting {
		return ""
	}
	return headerStyle.Render("rps arena — bracket watch") + "\n" + m.viewport.View()
}

func renderOutcome(outcome rps.MatchOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", outcome.MatchID, outcome.State)
	for i, p := range outcome.Participants {
		if p.Winner {
			fmt.Fprintf(&b, "  %s", winnerStyle.Render(p.Name))
		} else {
			fmt.Fprintf(&b, "  %s", p.Name)
		}
		if i < len(outcome.Participants)-1 {
			b.WriteString(" vs")
		}
	}
	if outcome.Note != "" {
		fmt.Fprintf(&b, "  %s", noteStyle.Render(outcome.Note))
	}
	return b.String()
}

func runWatch() {
	wsURL := strings.Replace(apiURL, "http", "ws", 1)
	u, err := url.Parse(wsURL)
	if err != nil {
		fmt.Printf("Invalid api-url: %v\n", err)
		os.Exit(1)
	}
	u.Path = "/v1/tournaments/ws"
	if apiKey != "" {
		q := u.Query()
		q.Set("api_key", apiKey)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Printf("Failed to connect: %v\nIs the server running?\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	outcomes := make(chan rps.MatchOutcome)
	go func() {
		defer close(outcomes)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var outcome rps.MatchOutcome
			if err := json.Unmarshal(data, &outcome); err != nil {
				continue
			}
			outcomes <- outcome
		}
	}()

	program := tea.NewProgram(newWatchModel(outcomes))
	if _, err := program.Run(); err != nil {
		fmt.Printf("TUI error: %v\n", err)
		os.Exit(1)
	}
}
