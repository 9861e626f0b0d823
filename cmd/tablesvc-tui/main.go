package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardtable/tablesvc/internal/dispatch"
	"github.com/cardtable/tablesvc/internal/tui"
)

// CLI is tablesvc-tui's flag set: where to connect and which table to
// spectate, grounded on the teacher's holdem-client kong.CLI shape.
type CLI struct {
	Server  string `kong:"short='s',default='ws://localhost:8080/ws',help='Server websocket URL'"`
	Table   string `kong:"short='t',required,help='Table id to spectate'"`
	Name    string `kong:"default='spectator',help='Display name to announce in the lobby'"`
	LogFile string `kong:"name='log-file',default='tablesvc-tui.log',help='Where to write diagnostic logs (kept off the alt-screen TUI)'"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("tablesvc-tui"),
		kong.Description("200 spectator terminal client"),
		kong.UsageOnError(),
	)

	logFile, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		kctx.Exit(1)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{ReportTimestamp: true})

	conn, _, err := websocket.DefaultDialer.Dial(cli.Server, nil)
	if err != nil {
		fmt.Printf("failed to connect to %s: %v\n", cli.Server, err)
		kctx.Exit(1)
	}
	defer conn.Close()

	if err := sendInbound(conn, dispatch.InboundJoinLobby, dispatch.JoinLobbyPayload{PlayerName: cli.Name}); err != nil {
		fmt.Printf("failed to join lobby: %v\n", err)
		kctx.Exit(1)
	}
	if err := sendInbound(conn, dispatch.InboundJoinSpectator, dispatch.JoinSpectatorPayload{TableID: cli.Table}); err != nil {
		fmt.Printf("failed to join as spectator: %v\n", err)
		kctx.Exit(1)
	}

	model := tui.NewModel(cli.Table, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go readLoop(conn, program, logger)

	if _, err := program.Run(); err != nil {
		fmt.Printf("error running TUI: %v\n", err)
		kctx.Exit(1)
	}
}

// readLoop forwards every decoded server message into the Bubble Tea
// program via Send, since the websocket read loop lives on its own
// goroutine outside Bubble Tea's command machinery.
func readLoop(conn *websocket.Conn, program *tea.Program, logger *log.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			program.Send(tui.ConnErrMsg{Err: err})
			return
		}

		var wire struct {
			Kind    dispatch.OutboundKind  `json:"kind"`
			Game    *dispatch.GameSnapshot `json:"game,omitempty"`
			Payload map[string]any         `json:"payload,omitempty"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			logger.Error("failed to decode server message", "err", err)
			continue
		}
		program.Send(tui.WireMsg{Kind: wire.Kind, Game: wire.Game, Payload: wire.Payload})
	}
}

// sendInbound marshals payload as a dispatch.Inbound envelope and
// writes it to conn.
func sendInbound(conn *websocket.Conn, kind dispatch.InboundKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope := struct {
		Kind    dispatch.InboundKind `json:"kind"`
		Payload json.RawMessage      `json:"payload"`
	}{Kind: kind, Payload: raw}
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, body)
}
