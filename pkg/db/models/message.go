package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/enums"
)

// Message is one append-only chat line. Messages are never mutated or
// deleted; they are the source of truth for a conversation's content.
type Message struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationKey string           `gorm:"column:conversation_key;type:text;not null;index"`
	SenderID        uuid.UUID        `gorm:"column:sender_id;type:uuid;not null"`
	SenderName      string           `gorm:"column:sender_name;type:text;not null"`
	SenderType      enums.SenderType `gorm:"column:sender_type;type:text;not null"`
	SenderImage     *string          `gorm:"column:sender_image"`
	Body            string           `gorm:"column:body;type:text;not null"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
}
