package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/internal/protocol"
)

// wsClient is a raw WebSocket client for driving the server in tests.
type wsClient struct {
	t        *testing.T
	conn     *websocket.Conn
	playerID string
}

func findFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

func startTestServer(t *testing.T, port int) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	cfg := DefaultServerConfig()
	// A long window keeps timers out of the picture; tests resolve early.
	cfg.Server.ChallengeWindowMS = 60000

	s := NewServer(fmt.Sprintf("127.0.0.1:%d", port), logger)
	s.SetRoomService(NewRoomService(cfg, logger, quartz.NewReal(), s))

	go func() { _ = s.Start() }()
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func dialClient(t *testing.T, port int, playerID string) *wsClient {
	t.Helper()
	url := fmt.Sprintf("ws://127.0.0.1:%d/ws", port)

	var conn *websocket.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err, "server never came up")

	c := &wsClient{t: t, conn: conn, playerID: playerID}
	t.Cleanup(func() { _ = conn.Close() })
	return c
}

func (c *wsClient) send(messageType protocol.MessageType, data interface{}) {
	c.t.Helper()
	msg, err := protocol.NewMessage(messageType, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

// waitFor reads messages until one of the wanted type arrives.
func (c *wsClient) waitFor(messageType protocol.MessageType) *protocol.Message {
	c.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(c.t, c.conn.SetReadDeadline(deadline))
		var msg protocol.Message
		require.NoError(c.t, c.conn.ReadJSON(&msg), "waiting for %s", messageType)
		if msg.Type == messageType {
			return &msg
		}
	}
}

// waitForState reads room states until the predicate holds.
func (c *wsClient) waitForState(pred func(protocol.RoomStateData) bool) protocol.RoomStateData {
	c.t.Helper()
	for {
		msg := c.waitFor(protocol.MessageTypeRoomState)
		var state protocol.RoomStateData
		require.NoError(c.t, json.Unmarshal(msg.Data, &state))
		if pred(state) {
			return state
		}
	}
}

func TestServerFullGameFlow(t *testing.T) {
	port := findFreePort(t)
	startTestServer(t, port)

	clients := make(map[string]*wsClient)
	for _, id := range []string{"ana", "beto", "carla"} {
		c := dialClient(t, port, id)
		c.send(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{RoomID: "mesa", PlayerName: id})
		c.waitFor(protocol.MessageTypeRoomJoined)
		clients[id] = c
	}

	// The host waits until the roster is complete, then deals.
	clients["ana"].waitForState(func(s protocol.RoomStateData) bool { return len(s.Players) == 3 })
	clients["ana"].send(protocol.MessageTypeStartGame, protocol.StartGameData{RoomID: "mesa", Seed: 7})

	// Each client gets exactly one IN_PROGRESS broadcast at deal time, so the
	// deal state has to be captured here rather than waited for again later.
	var turnHolder, cardID string
	for id, c := range clients {
		state := c.waitForState(func(s protocol.RoomStateData) bool { return s.Status == game.StatusInProgress })
		turnHolder = state.CurrentTurn
		require.Len(t, state.Center, game.CenterSize)
		cardID = state.Center[0].ID

		// Redaction over the wire: full own hand, nothing of anyone else's.
		for _, view := range state.Players {
			assert.Equal(t, 5, view.HandSize)
			if view.ID == id {
				assert.Len(t, view.Hand, 5)
			} else {
				assert.Empty(t, view.Hand)
			}
		}
	}

	// The turn holder discards a center card and forces resolution.
	actor := clients[turnHolder]

	actor.send(protocol.MessageTypeDiscard, protocol.DiscardData{RoomID: "mesa", CardID: cardID})
	for _, c := range clients {
		c.waitFor(protocol.MessageTypePendingAction)
	}

	actor.send(protocol.MessageTypeResolveNow, protocol.ResolveNowData{RoomID: "mesa"})
	for _, c := range clients {
		msg := c.waitFor(protocol.MessageTypeResolution)
		var res protocol.ResolutionData
		require.NoError(t, json.Unmarshal(msg.Data, &res))
		assert.Contains(t, res.Message, "discarded without complaints")
		assert.Equal(t, map[string]int{turnHolder: game.UncontestedDiscardPoints}, res.Points)

		next := c.waitForState(func(s protocol.RoomStateData) bool { return len(s.DiscardPile) == 1 })
		assert.Equal(t, cardID, next.DiscardPile[0].ID)
		assert.NotEqual(t, turnHolder, next.CurrentTurn)
	}
}

func TestServerRejectsActionsFromOutsiders(t *testing.T) {
	port := findFreePort(t)
	startTestServer(t, port)

	c := dialClient(t, port, "ana")

	// Commands before joining a room are refused.
	c.send(protocol.MessageTypeStartGame, protocol.StartGameData{RoomID: "mesa"})
	msg := c.waitFor(protocol.MessageTypeError)
	var errData protocol.ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "start_failed", errData.Code)

	// A lobby of one cannot start a game.
	c.send(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{RoomID: "mesa", PlayerName: "ana"})
	c.waitFor(protocol.MessageTypeRoomJoined)
	c.send(protocol.MessageTypeStartGame, protocol.StartGameData{RoomID: "mesa"})
	msg = c.waitFor(protocol.MessageTypeError)
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "start_failed", errData.Code)
}

func TestServerFailedJoinLeavesNoIdentity(t *testing.T) {
	port := findFreePort(t)
	startTestServer(t, port)

	ana := dialClient(t, port, "ana")
	ana.send(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{RoomID: "mesa", PlayerName: "ana"})
	ana.waitFor(protocol.MessageTypeRoomJoined)

	// A second connection claiming a taken name is refused, and the refused
	// connection must not keep the identity it tried to join with.
	imposter := dialClient(t, port, "imposter")
	imposter.send(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{RoomID: "mesa", PlayerName: "ana"})
	msg := imposter.waitFor(protocol.MessageTypeError)
	var errData protocol.ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "join_failed", errData.Code)

	imposter.send(protocol.MessageTypeRingBell, protocol.RingBellData{RoomID: "mesa"})
	msg = imposter.waitFor(protocol.MessageTypeError)
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "ring_failed", errData.Code)
	assert.Contains(t, errData.Message, "join the room first")
}
