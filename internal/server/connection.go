package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ilcamarero/camarero/internal/protocol"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *protocol.Message
	playerID    string
	roomID      string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	roomService *RoomService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, roomService *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *protocol.Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		roomService: roomService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *protocol.Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room ID
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed   = websocket.ErrCloseSent
	ErrServiceUnavailable = errors.New("room service not available")
	ErrNotInRoom          = errors.New("join the room first")
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg protocol.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case protocol.MessageTypeJoinRoom:
		var data protocol.JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case protocol.MessageTypeLeaveRoom:
		var data protocol.LeaveRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave room data")
			return
		}
		c.handleLeaveRoom(data)

	case protocol.MessageTypeStartGame:
		var data protocol.StartGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start game data")
			return
		}
		if err := c.inRoom(data.RoomID, func(roomID, playerID string) error {
			return c.roomService.StartGame(roomID, playerID, data.Seed)
		}); err != nil {
			c.sendError("start_failed", err.Error())
		}

	case protocol.MessageTypeServe:
		var data protocol.ServeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse serve data")
			return
		}
		if err := c.inRoom(data.RoomID, func(roomID, playerID string) error {
			return c.roomService.Serve(roomID, playerID, data)
		}); err != nil {
			c.sendError("serve_failed", err.Error())
		}

	case protocol.MessageTypeDiscard:
		var data protocol.DiscardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse discard data")
			return
		}
		if err := c.inRoom(data.RoomID, func(roomID, playerID string) error {
			return c.roomService.Discard(roomID, playerID, data.CardID)
		}); err != nil {
			c.sendError("discard_failed", err.Error())
		}

	case protocol.MessageTypeRingBell:
		var data protocol.RingBellData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse ring bell data")
			return
		}
		if err := c.inRoom(data.RoomID, func(roomID, playerID string) error {
			return c.roomService.RingBell(roomID, playerID)
		}); err != nil {
			c.sendError("ring_failed", err.Error())
		}

	case protocol.MessageTypeResolveNow:
		var data protocol.ResolveNowData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse resolve data")
			return
		}
		if err := c.inRoom(data.RoomID, func(roomID, playerID string) error {
			return c.roomService.ResolveNow(roomID, playerID)
		}); err != nil {
			c.sendError("resolve_failed", err.Error())
		}

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleJoinRoom(data protocol.JoinRoomData) {
	c.logger.Info("Join room request", "roomId", data.RoomID, "playerName", data.PlayerName)

	if c.roomService == nil {
		c.sendError("service_unavailable", "Room service not available")
		return
	}
	if data.PlayerName == "" {
		c.sendError("invalid_join", "Player name required")
		return
	}

	// Identity goes on the connection before the join so the room's ack and
	// first state broadcast can find it; Join sends them synchronously.
	c.SetPlayer(data.PlayerName)
	c.SetRoom(data.RoomID)

	if err := c.roomService.JoinRoom(data.RoomID, data.PlayerName, data.PlayerName, data.Avatar); err != nil {
		c.SetPlayer("")
		c.SetRoom("")
		c.sendError("join_failed", err.Error())
		return
	}
}

func (c *Connection) handleLeaveRoom(data protocol.LeaveRoomData) {
	c.logger.Info("Leave room request", "roomId", data.RoomID, "player", c.GetPlayer())

	if err := c.inRoom(data.RoomID, c.roomService.LeaveRoom); err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}
	c.SetRoom("")
}

// inRoom runs a room command with this connection's identity after checking
// the client actually joined the room it is addressing.
func (c *Connection) inRoom(roomID string, fn func(roomID, playerID string) error) error {
	if c.roomService == nil {
		return ErrServiceUnavailable
	}
	playerID := c.GetPlayer()
	if playerID == "" || c.GetRoom() != roomID {
		return ErrNotInRoom
	}
	return fn(roomID, playerID)
}
