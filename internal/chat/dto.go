package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
)

// SendMessageRequest is the payload for posting one chat line.
type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Body        string    `json:"body" validate:"required,max=4000"`
}

// MessageDTO is the transport shape of one persisted message.
type MessageDTO struct {
	ID              uuid.UUID        `json:"id"`
	ConversationKey string           `json:"conversation_key"`
	SenderID        uuid.UUID        `json:"sender_id"`
	SenderName      string           `json:"sender_name"`
	SenderType      enums.SenderType `json:"sender_type"`
	SenderImage     *string          `json:"sender_image,omitempty"`
	Body            string           `json:"body"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ChatDTO is one inbox row: the conversation summary for a participant pair,
// presented from the requesting user's side.
type ChatDTO struct {
	ConversationKey string    `json:"conversation_key"`
	ParticipantA    uuid.UUID `json:"participant_a"`
	ParticipantB    uuid.UUID `json:"participant_b"`
	OtherID         uuid.UUID `json:"other_id"`
	OtherName       string    `json:"other_name"`
	OtherImage      *string   `json:"other_image,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastSenderID    uuid.UUID `json:"last_sender_id"`
	LastSenderName  string    `json:"last_sender_name"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Event is the payload broadcast over redis and each websocket.
type Event struct {
	Type            string      `json:"type"`
	ConversationKey string      `json:"conversation_key"`
	Message         *MessageDTO `json:"message,omitempty"`
}

// EventTypeMessage marks a newly persisted chat line.
const EventTypeMessage = "message"

// MessageFromModel converts a persisted message row.
func MessageFromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:              m.ID,
		ConversationKey: m.ConversationKey,
		SenderID:        m.SenderID,
		SenderName:      m.SenderName,
		SenderType:      m.SenderType,
		SenderImage:     m.SenderImage,
		Body:            m.Body,
		CreatedAt:       m.CreatedAt,
	}
}

// ChatFromModel converts a persisted chat summary row.
func ChatFromModel(c *models.Chat) *ChatDTO {
	if c == nil {
		return nil
	}
	return &ChatDTO{
		ConversationKey: c.ConversationKey,
		ParticipantA:    c.ParticipantA,
		ParticipantB:    c.ParticipantB,
		LastMessage:     c.LastMessage,
		LastSenderID:    c.LastSenderID,
		LastSenderName:  c.LastSenderName,
		UpdatedAt:       c.UpdatedAt,
	}
}
