package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/reach-skyline/chat-service/chat"
	"github.com/reach-skyline/chat-service/storage"
	"github.com/reach-skyline/chat-service/websocket"
)

// AttachmentStore holds chat file uploads; set during startup.
var AttachmentStore *storage.LocalStore

type InitChatInput struct {
	TaskID     string `json:"task_id" binding:"required" example:"T-1042"`
	EmployeeID string `json:"employee_id" binding:"required" example:"EMP007"`
	TeamLeadID string `json:"team_lead_id" binding:"required" example:"EMP001"`
	Department string `json:"department" binding:"required" example:"Branding"`
}

// InitChat godoc
// @Summary Resolve or create the chat room for a task
// @Description Returns the room for the (task, employee, team lead) triple, creating it on first contact. Idempotent.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body InitChatInput true "Room resolution"
// @Success 200 {object} models.ChatRoom "Resolved room"
// @Failure 400 {object} map[string]string "Invalid participants"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not a participant"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/init [post]
func InitChat(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input InitChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only the two participants may open the room.
	if userID != input.EmployeeID && userID != input.TeamLeadID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this chat"})
		return
	}

	room, err := chat.ResolveOrCreateRoom(input.TaskID, input.EmployeeID, input.TeamLeadID, input.Department)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidParticipants) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat participants"})
			return
		}
		log.Error().Err(err).Str("task_id", input.TaskID).Msg("resolve chat room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize chat"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetHistory godoc
// @Summary Get the full message history of a room
// @Description Returns all messages of a room in ascending creation order
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 400 {object} map[string]string "Invalid room ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/history/{id} [get]
func GetHistory(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := chat.GetRoom(uint(roomID))
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		log.Error().Err(err).Uint64("room_id", roomID).Msg("fetch room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	if !room.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	messages, err := chat.History(room.ID)
	if err != nil {
		log.Error().Err(err).Uint("room_id", room.ID).Msg("fetch history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetUnreadCounts godoc
// @Summary Get the caller's unread counters
// @Description Returns a task code to count mapping with every nonzero unread counter
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Unread counters by task code"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/unread [get]
func GetUnreadCounts(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	snapshot, err := chat.UnreadSnapshot(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("fetch unread snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch unread counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": snapshot})
}

// MarkRead godoc
// @Summary Reset the caller's unread counter for a task
// @Description Clears the counter for the task code and signals the caller's live connections. Idempotent.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskCode path string true "Task code"
// @Success 200 {object} map[string]string "Marked as read"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/mark-read/{taskCode} [post]
func MarkRead(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	taskCode := c.Param("taskCode")

	if err := chat.MarkRead(userID, taskCode); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("task_code", taskCode).Msg("mark read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	// Let the caller's open UIs drop the badge without polling.
	websocket.NotifyUser(userID, websocket.EventUnreadChanged, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

// UploadAttachment godoc
// @Summary Upload a chat attachment
// @Description Stores the file and returns the path a message can carry
// @Tags chat
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Attachment"
// @Success 200 {object} map[string]string "Stored file path"
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/upload [post]
func UploadAttachment(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	name, err := AttachmentStore.Save(header)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is too large"})
			return
		}
		log.Error().Err(err).Str("filename", header.Filename).Msg("store attachment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_path":     "/api/chat/files/" + name,
		"original_name": header.Filename,
	})
}

// GetAttachment godoc
// @Summary Download a stored chat attachment
// @Tags chat
// @Produce octet-stream
// @Param filename path string true "Stored filename"
// @Success 200 {file} binary "File contents"
// @Failure 404 {object} map[string]string "File not found"
// @Router /api/chat/files/{filename} [get]
func GetAttachment(c *gin.Context) {
	path, err := AttachmentStore.Path(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.File(path)
}
