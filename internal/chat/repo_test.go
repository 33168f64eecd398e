package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	chats := `
CREATE TABLE IF NOT EXISTS chats (
  conversation_key TEXT PRIMARY KEY,
  participant_a TEXT NOT NULL,
  participant_b TEXT NOT NULL,
  last_message TEXT NOT NULL,
  last_sender_id TEXT NOT NULL,
  last_sender_name TEXT NOT NULL,
  updated_at DATETIME NOT NULL
);`
	messages := `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  conversation_key TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  sender_name TEXT NOT NULL,
  sender_type TEXT NOT NULL,
  sender_image TEXT,
  body TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS chats`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS messages`).Error)
	require.NoError(t, db.Exec(chats).Error)
	require.NoError(t, db.Exec(messages).Error)
	return db
}

func TestChatRepoUpsertDeduplicatesByKey(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	key := ConversationKey(userA, userB)
	first, second := SortParticipants(userA, userB)

	require.NoError(t, repo.UpsertChat(ctx, &models.Chat{
		ConversationKey: key,
		ParticipantA:    first,
		ParticipantB:    second,
		LastMessage:     "hello",
		LastSenderID:    userA,
		LastSenderName:  "ana",
		UpdatedAt:       time.Now().UTC(),
	}))

	// The reply arrives with participants derived from the other direction;
	// it must update the same row, not create a second one.
	require.NoError(t, repo.UpsertChat(ctx, &models.Chat{
		ConversationKey: ConversationKey(userB, userA),
		ParticipantA:    first,
		ParticipantB:    second,
		LastMessage:     "hi back",
		LastSenderID:    userB,
		LastSenderName:  "nova",
		UpdatedAt:       time.Now().UTC().Add(time.Minute),
	}))

	var count int64
	require.NoError(t, db.Model(&models.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	chat, err := repo.FindChat(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "hi back", chat.LastMessage)
	assert.Equal(t, userB, chat.LastSenderID)
	assert.Equal(t, "nova", chat.LastSenderName)
	assert.Equal(t, first, chat.ParticipantA, "participants are fixed at first contact")
}

func TestChatRepoListMessagesInSendOrder(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	key := ConversationKey(userA, userB)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, body := range []string{"first", "second", "third"} {
		_, err := repo.CreateMessage(ctx, &models.Message{
			ConversationKey: key,
			SenderID:        userA,
			SenderName:      "ana",
			SenderType:      enums.SenderTypeUser,
			Body:            body,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	msgs, err := repo.ListMessages(ctx, key, 2, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)

	rest, err := repo.ListMessages(ctx, key, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "third", rest[0].Body)
}

func TestChatRepoListChatsForUser(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	me := uuid.New()
	friend := uuid.New()
	stranger1 := uuid.New()
	stranger2 := uuid.New()

	seed := func(a, b uuid.UUID, last string, at time.Time) {
		first, second := SortParticipants(a, b)
		require.NoError(t, repo.UpsertChat(ctx, &models.Chat{
			ConversationKey: ConversationKey(a, b),
			ParticipantA:    first,
			ParticipantB:    second,
			LastMessage:     last,
			LastSenderID:    a,
			LastSenderName:  "seed",
			UpdatedAt:       at,
		}))
	}

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	seed(me, friend, "older", base)
	seed(me, stranger1, "newer", base.Add(time.Hour))
	seed(stranger1, stranger2, "not mine", base.Add(2*time.Hour))

	chats, err := repo.ListChatsForUser(ctx, me, 10, 0)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "newer", chats[0].LastMessage, "most recently active first")
	assert.Equal(t, "older", chats[1].LastMessage)
}
