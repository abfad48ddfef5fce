package protocol

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoinRoom   MessageType = "join_room"
	MessageTypeLeaveRoom  MessageType = "leave_room"
	MessageTypeStartGame  MessageType = "start_game"
	MessageTypeServe      MessageType = "serve"
	MessageTypeDiscard    MessageType = "discard"
	MessageTypeRingBell   MessageType = "ring_bell"
	MessageTypeResolveNow MessageType = "resolve_now"

	// Server to client messages
	MessageTypeRoomJoined    MessageType = "room_joined"
	MessageTypeRoomState     MessageType = "room_state"
	MessageTypePendingAction MessageType = "pending_action"
	MessageTypeResolution    MessageType = "resolution"
	MessageTypeGameOver      MessageType = "game_over"
	MessageTypeError         MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
