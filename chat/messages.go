package chat

import (
	"fmt"

	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
)

// Append validates and stores one message. The sender and receiver must be
// the room's two participants, and at least one of body/attachmentPath must
// be non-empty. Timestamps and the tie-breaking sequence are assigned
// server-side on insert; messages are immutable once stored.
func Append(roomID uint, senderID, receiverID, body, attachmentPath, taskCode string) (*models.ChatMessage, error) {
	room, err := GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	if !room.HasParticipant(senderID) || !room.HasParticipant(receiverID) || senderID == receiverID {
		return nil, ErrNotParticipant
	}
	if body == "" && attachmentPath == "" {
		return nil, ErrEmptyMessage
	}

	message := models.ChatMessage{
		ChatRoomID:     roomID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Body:           body,
		AttachmentPath: attachmentPath,
		TaskCode:       taskCode,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	return &message, nil
}

// History returns all messages of a room in ascending creation order, ids
// breaking timestamp ties. It is a point-in-time snapshot and safe to call
// repeatedly.
func History(roomID uint) ([]models.ChatMessage, error) {
	if _, err := GetRoom(roomID); err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	if err := database.DB.
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	return messages, nil
}
