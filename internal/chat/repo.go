package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
)

// Repository exposes chat and message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateMessage appends one message row. Messages are never updated.
func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// UpsertChat writes the conversation summary for a pair, inserting on first
// contact and refreshing the last-message columns on every later send.
func (r *Repository) UpsertChat(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"last_message",
				"last_sender_id",
				"last_sender_name",
				"updated_at",
			}),
		}).
		Create(chat).Error
}

// ListMessages returns a conversation's messages in send order.
func (r *Repository) ListMessages(ctx context.Context, conversationKey string, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_key = ?", conversationKey).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListChatsForUser returns every conversation the user participates in,
// most recently active first.
func (r *Repository) ListChatsForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// FindChat loads one conversation summary by key.
func (r *Repository) FindChat(ctx context.Context, conversationKey string) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, "conversation_key = ?", conversationKey).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}
