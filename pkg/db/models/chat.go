package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is the per-pair conversation summary shown in the inbox. It is keyed
// by the deterministic conversation key (sorted participant ids) and upserted
// on every send, so exactly one row exists per participant pair.
type Chat struct {
	ConversationKey string    `gorm:"column:conversation_key;type:text;primaryKey"`
	ParticipantA    uuid.UUID `gorm:"column:participant_a;type:uuid;not null;index"`
	ParticipantB    uuid.UUID `gorm:"column:participant_b;type:uuid;not null;index"`
	LastMessage     string    `gorm:"column:last_message;type:text;not null"`
	LastSenderID    uuid.UUID `gorm:"column:last_sender_id;type:uuid;not null"`
	LastSenderName  string    `gorm:"column:last_sender_name;type:text;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}
