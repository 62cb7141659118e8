package chat

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
)

// IncrementUnread bumps the counter for (recipient, task code) by one. The
// increment is a single upsert statement, so concurrent deliveries never
// lose updates. It runs unconditionally for every delivered message; the
// recipient's mark-read call is what clears it.
func IncrementUnread(recipientID, taskCode string) error {
	counter := models.UnreadCount{
		RecipientID: recipientID,
		TaskCode:    taskCode,
		Count:       1,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipient_id"}, {Name: "task_code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&counter).Error
	if err != nil {
		return fmt.Errorf("increment unread counter: %w", err)
	}
	return nil
}

// MarkRead resets the recipient's counter for a task. Absence already means
// zero, so deleting an entry that does not exist is a no-op.
func MarkRead(recipientID, taskCode string) error {
	err := database.DB.
		Where("recipient_id = ? AND task_code = ?", recipientID, taskCode).
		Delete(&models.UnreadCount{}).Error
	if err != nil {
		return fmt.Errorf("reset unread counter: %w", err)
	}
	return nil
}

// UnreadSnapshot returns every nonzero counter for a recipient, keyed by
// task code. Used to populate badges on load and reconnect.
func UnreadSnapshot(recipientID string) (map[string]int64, error) {
	var counters []models.UnreadCount
	if err := database.DB.
		Where("recipient_id = ? AND count > 0", recipientID).
		Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("fetch unread counters: %w", err)
	}

	snapshot := make(map[string]int64, len(counters))
	for _, c := range counters {
		snapshot[c.TaskCode] = c.Count
	}
	return snapshot, nil
}
