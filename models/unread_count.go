package models

// UnreadCount tracks messages a recipient has not yet seen, bucketed by task
// code. Rows exist only while the count is nonzero; a missing row means zero.
type UnreadCount struct {
	RecipientID string `gorm:"primaryKey;size:20" json:"recipient_id"`
	TaskCode    string `gorm:"primaryKey;size:50" json:"task_code"`
	Count       int64  `gorm:"not null" json:"count"`
}
