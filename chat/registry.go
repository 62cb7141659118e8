package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
)

// ResolveOrCreateRoom returns the room for a (task, employee, team lead)
// triple, creating it on first contact. The composite unique index on the
// triple makes concurrent first contact safe: if both participants race past
// the lookup, the loser's insert hits the constraint and the existing room is
// fetched instead.
func ResolveOrCreateRoom(taskID, employeeID, teamLeadID, department string) (*models.ChatRoom, error) {
	if taskID == "" || employeeID == "" || teamLeadID == "" || employeeID == teamLeadID {
		return nil, ErrInvalidParticipants
	}

	var room models.ChatRoom
	err := database.DB.
		Where("task_id = ? AND employee_id = ? AND team_lead_id = ?", taskID, employeeID, teamLeadID).
		First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up room: %w", err)
	}

	room = models.ChatRoom{
		TaskID:     taskID,
		EmployeeID: employeeID,
		TeamLeadID: teamLeadID,
		Department: department,
	}
	if createErr := database.DB.Create(&room).Error; createErr != nil {
		// Likely lost a create race; the unique index guarantees the winner's
		// row is the one to return.
		var existing models.ChatRoom
		if err := database.DB.
			Where("task_id = ? AND employee_id = ? AND team_lead_id = ?", taskID, employeeID, teamLeadID).
			First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create room: %w", createErr)
	}

	return &room, nil
}

// GetRoom fetches a room by id.
func GetRoom(roomID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := database.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("look up room: %w", err)
	}
	return &room, nil
}
