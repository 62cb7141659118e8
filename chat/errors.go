package chat

import "errors"

var (
	// ErrInvalidParticipants is returned when a room is requested with a
	// missing id or with the employee and team lead being the same person.
	ErrInvalidParticipants = errors.New("invalid room participants")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotParticipant is returned when a sender or recipient is not one of
	// the room's two registered participants.
	ErrNotParticipant = errors.New("user is not a room participant")

	// ErrEmptyMessage is returned when a message carries neither body text
	// nor an attachment.
	ErrEmptyMessage = errors.New("message has no body and no attachment")
)
