package ws

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/zombeers/internal/models"
)

// MessageType is the type of a client to server message
type MessageType string

const (
	MessageCreateRoom     MessageType = "createRoom"
	MessageJoinRoom       MessageType = "joinRoom"
	MessageRequestState   MessageType = "requestState"
	MessageAddPlayer      MessageType = "addPlayer"
	MessageRemovePlayer   MessageType = "removePlayer"
	MessageStartGame      MessageType = "startGame"
	MessagePlayerAction   MessageType = "playerAction"
	MessageUpdateSettings MessageType = "updateSettings"
	MessageResetGame      MessageType = "resetGame"
	MessageNewGameSetup   MessageType = "newGameSetup"
)

// Server to client message types that are not room events
const (
	typeReply     = "reply"
	typeConnected = "connected"
)

// Envelope is a client to server frame
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outbound is a server to client frame
type outbound struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload"`
}

type connectedPayload struct {
	SessionID string `json:"sessionId"`
}

type roomPayload struct {
	RoomCode string `json:"roomCode"`
}

type addPlayerPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type removePlayerPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type playerActionPayload struct {
	RoomCode string            `json:"roomCode"`
	PlayerID string            `json:"playerId"`
	Action   models.ActionType `json:"action"`
}

type updateSettingsPayload struct {
	RoomCode    string `json:"roomCode"`
	NewSettings any    `json:"newSettings"`
}

type createRoomReply struct {
	RoomCode string            `json:"roomCode"`
	State    *models.RoomState `json:"state"`
}

type joinRoomReply struct {
	Success  bool              `json:"success"`
	State    *models.RoomState `json:"state,omitempty"`
	RoomCode string            `json:"roomCode,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type requestStateReply struct {
	Success bool              `json:"success"`
	State   *models.RoomState `json:"state,omitempty"`
	Message string            `json:"message,omitempty"`
}

// decodeRoomCode reads a room code payload given either as a bare JSON
// string or as an object with a roomCode field
func decodeRoomCode(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	var code string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &code); err != nil {
			return "", false
		}
		return code, code != ""
	}

	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", false
	}
	return payload.RoomCode, payload.RoomCode != ""
}

// decodePayload unmarshals an object payload
func decodePayload(raw json.RawMessage, v any) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
