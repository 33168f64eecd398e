package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/internal/chat"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type fakeChatService struct {
	sent     *chat.MessageDTO
	sendErr  error
	messages []chat.MessageDTO
	chats    []chat.ChatDTO

	lastSender uuid.UUID
	lastReq    chat.SendMessageRequest
}

func (f *fakeChatService) SendMessage(ctx context.Context, senderID uuid.UUID, req chat.SendMessageRequest) (*chat.MessageDTO, error) {
	f.lastSender = senderID
	f.lastReq = req
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.sent, nil
}

func (f *fakeChatService) ListMessages(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]chat.MessageDTO, error) {
	return f.messages, nil
}

func (f *fakeChatService) ListChats(ctx context.Context, userID uuid.UUID, limit, offset int) ([]chat.ChatDTO, error) {
	return f.chats, nil
}

func TestSendMessageCreated(t *testing.T) {
	userID := uuid.New()
	recipientID := uuid.New()
	svc := &fakeChatService{sent: &chat.MessageDTO{ID: uuid.New(), Body: "hello"}}
	handler := SendMessage(svc, nil)

	body := []byte(`{"recipient_id":"` + recipientID.String() + `","body":"hello"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/chat/messages", body, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastSender != userID {
		t.Fatalf("sender must come from the auth context, got %s", svc.lastSender)
	}
	if svc.lastReq.RecipientID != recipientID {
		t.Fatalf("recipient not forwarded, got %s", svc.lastReq.RecipientID)
	}
}

func TestSendMessageValidationError(t *testing.T) {
	svc := &fakeChatService{sendErr: pkgerrors.New(pkgerrors.CodeValidation, "message body is required")}
	handler := SendMessage(svc, nil)

	body := []byte(`{"recipient_id":"` + uuid.NewString() + `","body":"x"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/chat/messages", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListMessagesRequiresOtherID(t *testing.T) {
	handler := ListMessages(&fakeChatService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/chat/messages", nil, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without other_id, got %d", rec.Code)
	}
}

func TestListChatsRequiresAuth(t *testing.T) {
	handler := ListChats(&fakeChatService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
