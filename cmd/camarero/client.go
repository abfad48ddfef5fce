package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilcamarero/camarero/cmd/camarero/shared"
	"github.com/ilcamarero/camarero/internal/tui"
)

// ClientCmd connects the terminal client to a running server
type ClientCmd struct {
	URL    string `kong:"default='ws://localhost:8080',help='Server URL'"`
	Room   string `kong:"default='mesa',help='Room to join'"`
	Name   string `kong:"required,help='Player name'"`
	Avatar string `kong:"help='Avatar shown to other players'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	client, err := tui.Dial(c.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	model := tui.NewModel(client, c.Room, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go client.Listen(program.Send)

	if err := client.Join(c.Room, c.Name, c.Avatar); err != nil {
		return err
	}

	_, err = program.Run()
	return err
}
