package models

import (
	"time"
)

// ChatMessage is one immutable chat event inside a room. Body may be empty
// for attachment-only messages, AttachmentPath may be empty for text-only
// ones; never both. History ordering is (created_at, id) ascending — the
// autoincrement id breaks timestamp ties.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ChatRoomID     uint      `gorm:"not null;index:idx_room_order" json:"room_id"`
	SenderID       string    `gorm:"size:20;not null" json:"sender_id"`
	ReceiverID     string    `gorm:"size:20;not null" json:"receiver_id"`
	Body           string    `gorm:"type:text" json:"body"`
	AttachmentPath string    `gorm:"size:255" json:"attachment_path,omitempty"`
	TaskCode       string    `gorm:"size:50;index" json:"task_code"`
	CreatedAt      time.Time `gorm:"index:idx_room_order" json:"created_at"`
}
