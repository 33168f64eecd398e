package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/starconnect/starconnect-backend/api/responses"
	"github.com/starconnect/starconnect-backend/api/validators"
	"github.com/starconnect/starconnect-backend/internal/chat"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
	"github.com/starconnect/starconnect-backend/pkg/metrics"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS middleware on the upgrade
		// request itself.
		return true
	},
}

const (
	wsReadLimit    = 64 * 1024
	wsReadDeadline = 90 * time.Second
)

// chatClientMessage is what the frontend sends over the socket.
type chatClientMessage struct {
	Type        string `json:"type"` // "subscribe", "unsubscribe", "message", "ping"
	OtherID     string `json:"other_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Body        string `json:"body,omitempty"`
}

// ListChats returns the caller's inbox.
func ListChats(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, offset, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chats, err := svc.ListChats(r.Context(), userID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chats)
	}
}

// ListMessages returns the conversation with one other participant.
func ListMessages(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		otherID, err := uuid.Parse(r.URL.Query().Get("other_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid other_id"))
			return
		}

		limit, offset, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msgs, err := svc.ListMessages(r.Context(), userID, otherID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, msgs)
	}
}

// SendMessage posts one chat line over plain HTTP.
func SendMessage(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req chat.SendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.SendMessage(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

// ChatWebSocket upgrades the request and serves the realtime chat session.
// The auth middleware has already verified the token (header or access_token
// query param) and seeded the user id into the request context.
func ChatWebSocket(svc chat.Service, hub *chat.Hub, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			return
		}
		defer conn.Close()

		// The hub writes from its own goroutines while this handler acks
		// directly; both sides must share one write lock.
		sock := chat.NewSafeConn(conn)

		m.WebsocketOpened()
		defer m.WebsocketClosed()

		ctx := r.Context()
		detachers := map[string]func(){}
		defer func() {
			for _, detach := range detachers {
				detach()
			}
		}()

		conn.SetReadLimit(wsReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

			var msg chatClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			switch msg.Type {
			case "subscribe":
				otherID, err := uuid.Parse(msg.OtherID)
				if err != nil {
					continue
				}
				key := chat.ConversationKey(userID, otherID)
				if _, ok := detachers[key]; !ok {
					detachers[key] = hub.Attach(key, sock)
				}
			case "unsubscribe":
				otherID, err := uuid.Parse(msg.OtherID)
				if err != nil {
					continue
				}
				key := chat.ConversationKey(userID, otherID)
				if detach, ok := detachers[key]; ok {
					detach()
					delete(detachers, key)
				}
			case "message":
				recipientID, err := uuid.Parse(msg.RecipientID)
				if err != nil {
					continue
				}
				sent, err := svc.SendMessage(ctx, userID, chat.SendMessageRequest{
					RecipientID: recipientID,
					Body:        msg.Body,
				})
				if err != nil {
					_ = sock.WriteJSON(map[string]string{
						"type":  "error",
						"error": "failed to send message",
					})
					if logg != nil {
						logg.Error(ctx, "websocket send message", err)
					}
					continue
				}
				// Ack directly to the sender; fan-out to everyone else
				// happens through the hub.
				_ = sock.WriteJSON(chat.Event{
					Type:            "message_ack",
					ConversationKey: sent.ConversationKey,
					Message:         sent,
				})
			case "ping":
				_ = sock.WriteJSON(map[string]string{"type": "pong"})
			default:
				// Ignore unknown types.
			}
		}
	}
}
