package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/auth"
	"github.com/fanlink/fanlink/internal/services/chat"
)

// Handler upgrades websocket connections and drives the per-connection
// session lifecycle: authenticate, register presence, announce, flush the
// offline mailbox, then serve inbound events until disconnect.
type Handler struct {
	auth     *auth.Service
	chat     *chat.Service
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket session handler
func NewHandler(authService *auth.Service, chatService *chat.Service, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		auth: authService,
		chat: chatService,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With(slog.String("component", "session")),
	}
}

// ServeHTTP authenticates the connection attempt and, on success, upgrades
// it and runs the session. Authentication failure rejects the request
// before any session state exists.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		h.logger.Warn("connection auth failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(user, conn, h.logger)
	go client.writePump()
	h.runSession(client)
}

// runSession owns the connection from registration to teardown
func (h *Handler) runSession(client *Client) {
	user := client.user
	logger := h.logger.With(
		slog.String("user_id", string(user.ID)),
		slog.String("name", user.Name),
		slog.String("role", string(user.Role)))
	logger.Info("client connected")

	registry := h.chat.Registry()
	registry.Register(user.ID, client)
	h.hub.Register(client)
	h.hub.BroadcastEvent(model.NewUserOnlineEvent(user))

	// The mailbox flush precedes acceptance of any inbound message
	ctx := context.Background()
	if err := h.chat.FlushMailbox(ctx, user.ID, client); err != nil {
		logger.Error("mailbox flush failed", slog.String("error", err.Error()))
	}

	defer func() {
		registry.Unregister(user.ID, client)
		h.hub.Unregister(client)
		h.hub.BroadcastEvent(model.NewUserOfflineEvent(user.ID))
		client.close()
		logger.Info("client disconnected")
	}()

	h.readLoop(ctx, client)
}

// readLoop reads inbound events and dispatches them one at a time, so no
// two messages from the same connection are ever processed out of order
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				client.logger.Warn("read failed", slog.String("error", err.Error()))
			}
			return
		}
		h.dispatch(ctx, client, data)
	}
}

// dispatch handles a single inbound event
func (h *Handler) dispatch(ctx context.Context, client *Client, data []byte) {
	var ev model.InboundEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		_ = client.Send(model.NewChatErrorEvent("malformed event"))
		return
	}

	switch ev.Type {
	case model.EventPrivateMessage:
		var payload model.PrivateMessagePayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			_ = client.Send(model.NewChatErrorEvent("malformed privateMessage payload"))
			return
		}
		if _, err := h.chat.Send(ctx, client.user, client, payload.To, payload.Message); err != nil {
			h.reportSendError(client, err)
		}

	default:
		_ = client.Send(model.NewChatErrorEvent(fmt.Sprintf("unknown event %q", ev.Type)))
	}
}

// reportSendError surfaces a routing failure to the offending sender only.
// Validation failures carry their own message; anything else is reported
// as a generic failure so no internal detail leaks to the network boundary.
func (h *Handler) reportSendError(client *Client, err error) {
	switch {
	case errors.Is(err, model.ErrSelfMessage),
		errors.Is(err, model.ErrSameRole),
		errors.Is(err, model.ErrUnknownRecipient):
		_ = client.Send(model.NewChatErrorEvent(err.Error()))
	default:
		client.logger.Error("message routing failed", slog.String("error", err.Error()))
		_ = client.Send(model.NewChatErrorEvent("message could not be sent"))
	}
}
