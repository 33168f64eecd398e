package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starconnect/starconnect-backend/pkg/db/models"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
	"github.com/starconnect/starconnect-backend/pkg/pagination"
)

// Service defines the two-party chat operations.
type Service interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error)
	ListMessages(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]MessageDTO, error)
	ListChats(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ChatDTO, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type chatReader interface {
	ListMessages(ctx context.Context, conversationKey string, limit, offset int) ([]models.Message, error)
	ListChatsForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error)
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type starDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Star, error)
}

type eventPublisher interface {
	PublishChatEvent(ctx context.Context, conversationKey string, payload []byte) error
}

type service struct {
	tx        transactor
	reader    chatReader
	users     userDirectory
	stars     starDirectory
	publisher eventPublisher
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies for the chat service.
type ServiceParams struct {
	Transactor transactor
	Reader     chatReader
	Users      userDirectory
	Stars      starDirectory
	Publisher  eventPublisher
	Logger     *logger.Logger
}

// NewService constructs the chat service.
func NewService(params ServiceParams) (Service, error) {
	if params.Transactor == nil {
		return nil, fmt.Errorf("transactor is required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("chat reader is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.Stars == nil {
		return nil, fmt.Errorf("star directory is required")
	}
	return &service{
		tx:        params.Transactor,
		reader:    params.Reader,
		users:     params.Users,
		stars:     params.Stars,
		publisher: params.Publisher,
		logg:      params.Logger,
	}, nil
}

// SendMessage persists the message and the conversation summary in one
// transaction, then fans the event out over redis. The chat row is upserted by
// conversation key, so both directions of a pair share a single conversation.
func (s *service) SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	if senderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if req.RecipientID == uuid.Nil || req.RecipientID == senderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient must be another user")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sender")
	}
	if _, err := s.users.FindByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipient")
	}

	senderType, senderImage, err := s.senderIdentity(ctx, senderID)
	if err != nil {
		return nil, err
	}

	key := ConversationKey(senderID, req.RecipientID)
	first, second := SortParticipants(senderID, req.RecipientID)
	now := time.Now().UTC()

	msg := &models.Message{
		ConversationKey: key,
		SenderID:        senderID,
		SenderName:      sender.Username,
		SenderType:      senderType,
		SenderImage:     senderImage,
		Body:            body,
		CreatedAt:       now,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.CreateMessage(ctx, msg); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist message")
		}
		chat := &models.Chat{
			ConversationKey: key,
			ParticipantA:    first,
			ParticipantB:    second,
			LastMessage:     body,
			LastSenderID:    senderID,
			LastSenderName:  sender.Username,
			UpdatedAt:       now,
		}
		if err := repo.UpsertChat(ctx, chat); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert conversation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := MessageFromModel(msg)
	s.publish(ctx, key, dto)
	return dto, nil
}

func (s *service) ListMessages(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]MessageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if otherID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation partner is required")
	}

	// The key is derived from the caller's own id, so callers can only ever
	// read conversations they participate in.
	key := ConversationKey(userID, otherID)
	rows, err := s.reader.ListMessages(ctx, key, pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *MessageFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListChats(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ChatDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.reader.ListChatsForUser(ctx, userID, pagination.NormalizeLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list chats")
	}

	// Rows are keyed by conversation, but dedupe defensively anyway: the
	// most recent entry per key wins. Rows arrive updated_at DESC.
	seen := map[string]struct{}{}
	out := make([]ChatDTO, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if _, dup := seen[row.ConversationKey]; dup {
			continue
		}
		seen[row.ConversationKey] = struct{}{}

		dto := ChatFromModel(row)
		dto.OtherID = row.ParticipantA
		if dto.OtherID == userID {
			dto.OtherID = row.ParticipantB
		}
		dto.OtherName, dto.OtherImage = s.displayIdentity(ctx, dto.OtherID)
		out = append(out, *dto)
	}
	return out, nil
}

// displayIdentity resolves the counterparty's name and image, preferring the
// star profile over the bare account. Lookup failures degrade to empty
// fields rather than failing the whole inbox.
func (s *service) displayIdentity(ctx context.Context, id uuid.UUID) (string, *string) {
	if star, err := s.stars.FindByID(ctx, id); err == nil {
		return star.Name, star.ProfilePicture
	}
	if user, err := s.users.FindByID(ctx, id); err == nil {
		return user.Username, nil
	}
	return "", nil
}

// senderIdentity resolves how the sender should be labeled: users with a star
// profile send as "star" and carry their profile picture.
func (s *service) senderIdentity(ctx context.Context, senderID uuid.UUID) (enums.SenderType, *string, error) {
	star, err := s.stars.FindByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return enums.SenderTypeUser, nil, nil
		}
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sender star profile")
	}
	return enums.SenderTypeStar, star.ProfilePicture, nil
}

// publish fans the event out to all API replicas. Delivery is best effort:
// the message is already committed, so a publish failure only delays the
// realtime view until the next fetch.
func (s *service) publish(ctx context.Context, key string, msg *MessageDTO) {
	if s.publisher == nil {
		return
	}
	if s.logg != nil {
		ctx = s.logg.WithConversationKey(ctx, key)
	}
	payload, err := json.Marshal(Event{
		Type:            EventTypeMessage,
		ConversationKey: key,
		Message:         msg,
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "marshal chat event", err)
		}
		return
	}
	if err := s.publisher.PublishChatEvent(ctx, key, payload); err != nil && s.logg != nil {
		s.logg.Error(ctx, "publish chat event", err)
	}
}
