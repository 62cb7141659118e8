package models

import (
	"time"
)

// ChatRoom is a standing one-on-one conversation scoped to a single task.
// The two fixed participants are the assigned employee and their team lead.
// At most one room exists per (task, employee, team lead) triple.
type ChatRoom struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     string    `gorm:"size:50;not null;uniqueIndex:idx_task_participants" json:"task_id"`
	EmployeeID string    `gorm:"size:20;not null;uniqueIndex:idx_task_participants" json:"employee_id"`
	TeamLeadID string    `gorm:"size:20;not null;uniqueIndex:idx_task_participants" json:"team_lead_id"`
	Department string    `gorm:"size:50;not null" json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// Participants returns the two identities allowed to send and receive
// in this room.
func (r *ChatRoom) Participants() (string, string) {
	return r.EmployeeID, r.TeamLeadID
}

// HasParticipant reports whether userID is one of the room's two participants.
func (r *ChatRoom) HasParticipant(userID string) bool {
	return userID == r.EmployeeID || userID == r.TeamLeadID
}

// OtherParticipant returns the participant that is not userID. The second
// return value is false when userID is not a participant at all.
func (r *ChatRoom) OtherParticipant(userID string) (string, bool) {
	switch userID {
	case r.EmployeeID:
		return r.TeamLeadID, true
	case r.TeamLeadID:
		return r.EmployeeID, true
	}
	return "", false
}
