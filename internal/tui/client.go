package tui

import (
	"encoding/json"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ilcamarero/camarero/internal/protocol"
)

// Messages the client pushes into the Bubble Tea program

type StateMsg protocol.RoomStateData

type PendingMsg protocol.PendingActionData

type ResolutionMsg protocol.ResolutionData

type GameOverMsg protocol.GameOverData

type JoinedMsg protocol.RoomJoinedData

type ServerErrorMsg protocol.ErrorData

type DisconnectedMsg struct{ Err error }

// Client is the WebSocket side of the TUI: it sends commands and decodes
// server events into tea messages.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger
	mu     sync.Mutex // guards writes
}

// Dial connects to a camarero server at the given ws:// URL.
func Dial(url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url+"/ws", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Client{conn: conn, logger: logger.WithPrefix("client")}, nil
}

// Listen decodes server messages until the connection dies, pushing each one
// into the program via send. Run it in its own goroutine.
func (c *Client) Listen(send func(tea.Msg)) {
	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			send(DisconnectedMsg{Err: err})
			return
		}

		decoded, err := decode(&msg)
		if err != nil {
			c.logger.Error("Failed to decode message", "type", msg.Type, "error", err)
			continue
		}
		if decoded != nil {
			send(decoded)
		}
	}
}

func decode(msg *protocol.Message) (tea.Msg, error) {
	switch msg.Type {
	case protocol.MessageTypeRoomState:
		var data protocol.RoomStateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return StateMsg(data), nil

	case protocol.MessageTypePendingAction:
		var data protocol.PendingActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return PendingMsg(data), nil

	case protocol.MessageTypeResolution:
		var data protocol.ResolutionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return ResolutionMsg(data), nil

	case protocol.MessageTypeGameOver:
		var data protocol.GameOverData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return GameOverMsg(data), nil

	case protocol.MessageTypeRoomJoined:
		var data protocol.RoomJoinedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return JoinedMsg(data), nil

	case protocol.MessageTypeError:
		var data protocol.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, err
		}
		return ServerErrorMsg(data), nil
	}

	return nil, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) write(messageType protocol.MessageType, data interface{}) error {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Join asks to join a room under the given name.
func (c *Client) Join(roomID, name, avatar string) error {
	return c.write(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{
		RoomID:     roomID,
		PlayerName: name,
		Avatar:     avatar,
	})
}

// Start asks the server to deal a new game.
func (c *Client) Start(roomID string, seed int64) error {
	return c.write(protocol.MessageTypeStartGame, protocol.StartGameData{RoomID: roomID, Seed: seed})
}

// Serve declares a serve against a target player.
func (c *Client) Serve(roomID, target, category, dish, variant string) error {
	return c.write(protocol.MessageTypeServe, protocol.ServeData{
		RoomID:   roomID,
		Target:   target,
		Category: category,
		Dish:     dish,
		Variant:  variant,
	})
}

// Discard declares discarding a center card.
func (c *Client) Discard(roomID, cardID string) error {
	return c.write(protocol.MessageTypeDiscard, protocol.DiscardData{RoomID: roomID, CardID: cardID})
}

// Ring rings the bell against the pending action.
func (c *Client) Ring(roomID string) error {
	return c.write(protocol.MessageTypeRingBell, protocol.RingBellData{RoomID: roomID})
}

// Resolve forces the challenge window closed.
func (c *Client) Resolve(roomID string) error {
	return c.write(protocol.MessageTypeResolveNow, protocol.ResolveNowData{RoomID: roomID})
}
