package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type sqliteTransactor struct {
	db *gorm.DB
}

func (s sqliteTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type stubUserDirectory struct {
	users map[uuid.UUID]*models.User
}

func (s stubUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubStarDirectory struct {
	stars map[uuid.UUID]*models.Star
}

func (s stubStarDirectory) FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error) {
	if star, ok := s.stars[id]; ok {
		return star, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type capturePublisher struct {
	key     string
	payload []byte
}

func (c *capturePublisher) PublishChatEvent(ctx context.Context, conversationKey string, payload []byte) error {
	c.key = conversationKey
	c.payload = payload
	return nil
}

type chatFixture struct {
	svc       Service
	db        *gorm.DB
	publisher *capturePublisher
	sender    *models.User
	recipient *models.User
}

func newChatFixture(t *testing.T, senderStar *models.Star) chatFixture {
	t.Helper()

	db := setupChatTestDB(t)
	sender := &models.User{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}
	recipient := &models.User{ID: uuid.New(), Username: "nova", Email: "nova@example.com"}

	stars := map[uuid.UUID]*models.Star{}
	if senderStar != nil {
		senderStar.ID = sender.ID
		stars[sender.ID] = senderStar
	}

	publisher := &capturePublisher{}
	svc, err := NewService(ServiceParams{
		Transactor: sqliteTransactor{db: db},
		Reader:     NewRepository(db),
		Users: stubUserDirectory{users: map[uuid.UUID]*models.User{
			sender.ID:    sender,
			recipient.ID: recipient,
		}},
		Stars:     stubStarDirectory{stars: stars},
		Publisher: publisher,
	})
	require.NoError(t, err)

	return chatFixture{svc: svc, db: db, publisher: publisher, sender: sender, recipient: recipient}
}

func TestSendMessagePersistsAndPublishes(t *testing.T) {
	fx := newChatFixture(t, nil)
	ctx := context.Background()

	msg, err := fx.svc.SendMessage(ctx, fx.sender.ID, SendMessageRequest{
		RecipientID: fx.recipient.ID,
		Body:        "  hello there  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Body)
	assert.Equal(t, enums.SenderTypeUser, msg.SenderType)
	assert.Equal(t, "ana", msg.SenderName)

	key := ConversationKey(fx.sender.ID, fx.recipient.ID)
	assert.Equal(t, key, msg.ConversationKey)

	var chatCount, msgCount int64
	require.NoError(t, fx.db.Model(&models.Chat{}).Count(&chatCount).Error)
	require.NoError(t, fx.db.Model(&models.Message{}).Count(&msgCount).Error)
	assert.Equal(t, int64(1), chatCount)
	assert.Equal(t, int64(1), msgCount)

	assert.Equal(t, key, fx.publisher.key)
	var evt Event
	require.NoError(t, json.Unmarshal(fx.publisher.payload, &evt))
	assert.Equal(t, EventTypeMessage, evt.Type)
	require.NotNil(t, evt.Message)
	assert.Equal(t, "hello there", evt.Message.Body)
}

func TestSendMessageBothDirectionsShareOneChat(t *testing.T) {
	fx := newChatFixture(t, nil)
	ctx := context.Background()

	_, err := fx.svc.SendMessage(ctx, fx.sender.ID, SendMessageRequest{
		RecipientID: fx.recipient.ID,
		Body:        "hello",
	})
	require.NoError(t, err)

	_, err = fx.svc.SendMessage(ctx, fx.recipient.ID, SendMessageRequest{
		RecipientID: fx.sender.ID,
		Body:        "hi back",
	})
	require.NoError(t, err)

	var chatCount int64
	require.NoError(t, fx.db.Model(&models.Chat{}).Count(&chatCount).Error)
	assert.Equal(t, int64(1), chatCount)

	chats, err := fx.svc.ListChats(ctx, fx.sender.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "hi back", chats[0].LastMessage)
	assert.Equal(t, "nova", chats[0].LastSenderName)

	assert.Equal(t, fx.recipient.ID, chats[0].OtherID)
	assert.Equal(t, "nova", chats[0].OtherName)

	msgs, err := fx.svc.ListMessages(ctx, fx.sender.ID, fx.recipient.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Body, "send order")
	assert.Equal(t, "hi back", msgs[1].Body)
}

func TestSendMessageStarSenderCarriesProfile(t *testing.T) {
	picture := "profilePictures/nova/headshot.jpg"
	fx := newChatFixture(t, &models.Star{Name: "Ana Star", ProfilePicture: &picture})
	ctx := context.Background()

	msg, err := fx.svc.SendMessage(ctx, fx.sender.ID, SendMessageRequest{
		RecipientID: fx.recipient.ID,
		Body:        "book me",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SenderTypeStar, msg.SenderType)
	require.NotNil(t, msg.SenderImage)
	assert.Equal(t, picture, *msg.SenderImage)
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	fx := newChatFixture(t, nil)

	_, err := fx.svc.SendMessage(context.Background(), fx.sender.ID, SendMessageRequest{
		RecipientID: fx.recipient.ID,
		Body:        "   ",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSendMessageRejectsSelf(t *testing.T) {
	fx := newChatFixture(t, nil)

	_, err := fx.svc.SendMessage(context.Background(), fx.sender.ID, SendMessageRequest{
		RecipientID: fx.sender.ID,
		Body:        "hello me",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	fx := newChatFixture(t, nil)

	_, err := fx.svc.SendMessage(context.Background(), fx.sender.ID, SendMessageRequest{
		RecipientID: uuid.New(),
		Body:        "hello",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

type noopTransactor struct{}

func (noopTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return nil
}

type cannedChatReader struct{ rows []models.Chat }

func (r cannedChatReader) ListMessages(ctx context.Context, conversationKey string, limit, offset int) ([]models.Message, error) {
	return nil, nil
}

func (r cannedChatReader) ListChatsForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	return r.rows, nil
}

func TestListChatsCollapsesDuplicateConversations(t *testing.T) {
	user := uuid.New()
	other := uuid.New()
	key := ConversationKey(user, other)

	// Rows arrive updated_at DESC, so when the reader hands back two entries
	// for the same conversation the first one must win.
	reader := cannedChatReader{rows: []models.Chat{
		{ConversationKey: key, ParticipantA: user, ParticipantB: other, LastMessage: "newest", LastSenderID: other},
		{ConversationKey: key, ParticipantA: user, ParticipantB: other, LastMessage: "stale", LastSenderID: user},
	}}
	svc, err := NewService(ServiceParams{
		Transactor: noopTransactor{},
		Reader:     reader,
		Users: stubUserDirectory{users: map[uuid.UUID]*models.User{
			other: {ID: other, Username: "nova"},
		}},
		Stars: stubStarDirectory{},
	})
	require.NoError(t, err)

	chats, err := svc.ListChats(context.Background(), user, 10, 0)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "newest", chats[0].LastMessage)
	assert.Equal(t, other, chats[0].OtherID)
	assert.Equal(t, "nova", chats[0].OtherName)
}
