package websocket

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/reach-skyline/chat-service/chat"
	"github.com/reach-skyline/chat-service/utils"
)

// Error codes sent back to a misbehaving connection. A bad frame only ever
// fails that connection's request; it never affects other clients.
const (
	codeBadPayload    = "bad_payload"
	codeInvalidToken  = "invalid_token"
	codeNotIdentified = "not_identified"
	codeNotJoined     = "not_joined"
	codeForbidden     = "forbidden"
	codeRoomNotFound  = "room_not_found"
	codeEmptyMessage  = "empty_message"
	codeInternalError = "internal_error"
)

// EventUnreadChanged tells a recipient to re-fetch its unread snapshot.
const EventUnreadChanged = "unread_changed"

// roomLocks serializes append+broadcast per room so connections never see
// messages out of append order. Contention is two participants at most.
var roomLocks sync.Map

func lockRoom(roomID uint) *sync.Mutex {
	mu, _ := roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type intent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// IdentifyPayload carries the token binding a connection to a user.
type IdentifyPayload struct {
	Token string `json:"token"`
}

// RoomPayload references a room for join/leave intents.
type RoomPayload struct {
	RoomID uint `json:"room_id"`
}

// SendPayload is an outgoing chat message. At least one of Body and FilePath
// must be set.
type SendPayload struct {
	RoomID   uint   `json:"room_id"`
	Body     string `json:"body"`
	FilePath string `json:"file_path"`
	TaskCode string `json:"task_code"`
}

// HandleIntent processes one inbound frame from a connection.
func HandleIntent(client *Client, raw []byte) {
	var msg intent
	if err := json.Unmarshal(raw, &msg); err != nil {
		sendErrorToClient(client, codeBadPayload, "malformed frame")
		return
	}

	switch msg.Type {
	case "identify":
		handleIdentify(client, msg.Payload)
	case "join_room":
		handleJoin(client, msg.Payload)
	case "leave_room":
		handleLeave(client, msg.Payload)
	case "message":
		handleSend(client, msg.Payload)
	default:
		sendErrorToClient(client, codeBadPayload, "unknown intent type")
	}
}

func handleIdentify(client *Client, raw json.RawMessage) {
	var payload IdentifyPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == "" {
		sendErrorToClient(client, codeBadPayload, "identify requires a token")
		return
	}

	userID, err := utils.ParseToken(payload.Token)
	if err != nil {
		sendErrorToClient(client, codeInvalidToken, "invalid or expired token")
		return
	}

	client.hub.identify(client, userID)
	client.sendEvent("identified", map[string]string{"user_id": userID})
}

func handleJoin(client *Client, raw json.RawMessage) {
	if !client.identified() {
		sendErrorToClient(client, codeNotIdentified, "identify before joining rooms")
		return
	}

	var payload RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == 0 {
		sendErrorToClient(client, codeBadPayload, "join_room requires a room_id")
		return
	}

	// Re-validate participancy against the registry on every join rather
	// than trusting client-supplied ids.
	room, err := chat.GetRoom(payload.RoomID)
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			sendErrorToClient(client, codeRoomNotFound, "room not found")
			return
		}
		log.Error().Err(err).Uint("room_id", payload.RoomID).Msg("join room lookup")
		sendErrorToClient(client, codeInternalError, "failed to join room")
		return
	}
	if !room.HasParticipant(client.userID) {
		sendErrorToClient(client, codeForbidden, "you are not a participant of this room")
		return
	}

	client.joinRoom(room.ID)
	client.sendEvent("room_joined", room)
}

func handleLeave(client *Client, raw json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == 0 {
		sendErrorToClient(client, codeBadPayload, "leave_room requires a room_id")
		return
	}

	// No-op if the client is not a member.
	client.leaveRoom(payload.RoomID)
}

func handleSend(client *Client, raw json.RawMessage) {
	if !client.identified() {
		sendErrorToClient(client, codeNotIdentified, "identify before sending messages")
		return
	}

	var payload SendPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == 0 {
		sendErrorToClient(client, codeBadPayload, "message requires a room_id")
		return
	}

	if !client.inRoom(payload.RoomID) {
		sendErrorToClient(client, codeNotJoined, "join the room before sending")
		return
	}

	room, err := chat.GetRoom(payload.RoomID)
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			sendErrorToClient(client, codeRoomNotFound, "room not found")
			return
		}
		log.Error().Err(err).Uint("room_id", payload.RoomID).Msg("send room lookup")
		sendErrorToClient(client, codeInternalError, "failed to send message")
		return
	}

	receiverID, ok := room.OtherParticipant(client.userID)
	if !ok {
		sendErrorToClient(client, codeForbidden, "you are not a participant of this room")
		return
	}

	mu := lockRoom(room.ID)
	mu.Lock()
	message, err := chat.Append(room.ID, client.userID, receiverID, payload.Body, payload.FilePath, payload.TaskCode)
	if err == nil {
		// The message is committed: broadcast to everyone joined to the
		// room while still holding the room's send order.
		BroadcastToRoom(room.ID, "message", message)
	}
	mu.Unlock()

	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			sendErrorToClient(client, codeEmptyMessage, "message has no body and no attachment")
		case errors.Is(err, chat.ErrNotParticipant):
			sendErrorToClient(client, codeForbidden, "you are not a participant of this room")
		default:
			// The append did not commit, so the client can safely resend.
			log.Error().Err(err).Uint("room_id", room.ID).Msg("append message")
			sendErrorToClient(client, codeInternalError, "failed to send message")
		}
		return
	}

	// Bump the recipient's unread badge.
	if err := chat.IncrementUnread(receiverID, message.TaskCode); err != nil {
		log.Error().Err(err).Str("recipient", receiverID).Msg("increment unread counter")
		return
	}
	NotifyUser(receiverID, EventUnreadChanged, nil)
}

func sendErrorToClient(client *Client, code, errorMessage string) {
	client.sendEvent("error", map[string]string{
		"code":    code,
		"message": errorMessage,
	})
}
