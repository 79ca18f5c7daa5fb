package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// Inbound frame types.
const (
	FrameMessage    = "message"
	FrameQuickReply = "quick_reply"
	FrameCart       = "cart"
	FramePing       = "ping"
)

// Outbound frame types.
const (
	FrameSession = "session"
	FrameHistory = "history"
	FrameTyping  = "typing"
	FrameError   = "error"
	FramePong    = "pong"
)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	ItemID int    `json:"item_id,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type          string                 `json:"type"`
	SessionID     string                 `json:"session_id,omitempty"`
	Authenticated bool                   `json:"authenticated,omitempty"`
	Text          string                 `json:"text,omitempty"`
	Message       *conversation.Message  `json:"message,omitempty"`
	Messages      []conversation.Message `json:"messages,omitempty"`
	QuickReplies  []string               `json:"quick_replies,omitempty"`
}

// HandleWebSocket upgrades to WebSocket and runs the chat loop for one
// session. ?session= resumes an existing session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID != "" {
		if existing, err := h.sessions.Get(sessionID); err == nil && !owns(r.Context(), existing, user) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(r.Context(), conn, sessionID, user)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(ctx context.Context, conn *websocket.Conn, sessionID string, user *conversation.User) {
	o := h.sessions.Open(ctx, sessionID, user)
	logger := h.logger.With("conversation_id", o.ID())

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:          FrameSession,
		SessionID:     o.ID(),
		Authenticated: user != nil,
		QuickReplies:  h.quickReplies,
	})
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: FrameHistory, Messages: o.Conversation().Messages()})

	logger.Info("webchat: connection opened", "authenticated", user != nil)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			logger.Debug("webchat: connection closed", "error", err)
			return
		}
		if err := websocket.JSON.Send(conn, h.handleFrame(ctx, conn, o, msg)); err != nil {
			logger.Debug("webchat: send failed", "error", err)
			return
		}
	}
}

// handleFrame processes one inbound frame and returns the frame to answer
// with. A typing frame is pushed first for submissions.
func (h *Handler) handleFrame(ctx context.Context, conn *websocket.Conn, o *conversation.Orchestrator, msg InboundMessage) OutboundMessage {
	switch msg.Type {
	case FramePing:
		return OutboundMessage{Type: FramePong}
	case FrameMessage, FrameQuickReply:
		if strings.TrimSpace(msg.Text) == "" {
			return OutboundMessage{Type: FrameError, Text: "message is empty"}
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: FrameTyping})
		var (
			reply conversation.Message
			err   error
		)
		if msg.Type == FrameQuickReply {
			reply, err = o.SubmitExternal(ctx, msg.Text)
		} else {
			reply, err = o.Submit(ctx, msg.Text)
		}
		if err != nil {
			h.logger.Error("webchat: submit failed", "error", err, "conversation_id", o.ID())
			return OutboundMessage{Type: FrameError, Text: "Sorry, something went wrong. Please try again."}
		}
		return OutboundMessage{Type: FrameMessage, Message: &reply}
	case FrameCart:
		reply, err := o.AddToCart(ctx, msg.ItemID)
		switch {
		case errors.Is(err, conversation.ErrNotAuthenticated):
			return OutboundMessage{Type: FrameError, Text: "Please log in to add items to cart"}
		case errors.Is(err, knowledge.ErrUnknownItem):
			return OutboundMessage{Type: FrameError, Text: "unknown item"}
		case err != nil:
			return OutboundMessage{Type: FrameError, Text: "Error adding to cart"}
		}
		return OutboundMessage{Type: FrameMessage, Message: &reply}
	default:
		return OutboundMessage{Type: FrameError, Text: "unsupported frame type"}
	}
}
