package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/knowledge"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// Handler serves the chat widget over HTTP and WebSocket.
type Handler struct {
	sessions     *conversation.Manager
	quickReplies []string
	logger       *logging.Logger
}

// NewHandler creates a web chat handler. An empty quickReplies list uses
// conversation.DefaultQuickReplies.
func NewHandler(sessions *conversation.Manager, quickReplies []string, logger *logging.Logger) *Handler {
	if sessions == nil {
		panic("webchat: session manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if len(quickReplies) == 0 {
		quickReplies = conversation.DefaultQuickReplies
	}
	return &Handler{sessions: sessions, quickReplies: quickReplies, logger: logger}
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID     string                 `json:"session_id"`
	Authenticated bool                   `json:"authenticated"`
	Messages      []conversation.Message `json:"messages"`
	QuickReplies  []string               `json:"quick_replies"`
}

// MessagesResponse carries messages appended by a request, or a history page.
type MessagesResponse struct {
	Messages []conversation.Message `json:"messages"`
	State    string                 `json:"state"`
}

type openRequest struct {
	SessionID string `json:"session_id"`
}

type textRequest struct {
	Text string `json:"text"`
}

type cartRequest struct {
	ItemID int `json:"item_id"`
}

// HandleOpen starts (or resumes) a chat session for the caller.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	user, _ := middleware.UserFromContext(r.Context())

	if req.SessionID != "" {
		if existing, err := h.sessions.Get(req.SessionID); err == nil && !owns(r.Context(), existing, user) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
	}

	o := h.sessions.Open(r.Context(), req.SessionID, user)
	writeJSON(w, http.StatusCreated, SessionResponse{
		SessionID:     o.ID(),
		Authenticated: user != nil,
		Messages:      o.Conversation().Messages(),
		QuickReplies:  h.quickReplies,
	})
}

// HandleMessage submits typed text to a session.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, false)
}

// HandleQuickReply submits a quick-reply chip to a session.
func (h *Handler) HandleQuickReply(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, true)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request, external bool) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		reply conversation.Message
		err   error
	)
	if external {
		reply, err = o.SubmitExternal(r.Context(), req.Text)
	} else {
		reply, err = o.Submit(r.Context(), req.Text)
	}
	if errors.Is(err, conversation.ErrEmptyMessage) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger.Error("webchat: submit failed", "error", err, "conversation_id", o.ID())
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, MessagesResponse{
		Messages: withUserMessage(o, reply),
		State:    o.State().String(),
	})
}

// HandleHistory returns the session's messages, optionally only those after
// the ?since= sequence number.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	msgs := o.Conversation().Messages()
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || since < 0 {
			writeError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		msgs = o.Conversation().Since(since)
	}
	if msgs == nil {
		msgs = []conversation.Message{}
	}
	writeJSON(w, http.StatusOK, MessagesResponse{Messages: msgs, State: o.State().String()})
}

// HandleAddToCart orders a recommended item for the session's user.
func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := o.AddToCart(r.Context(), req.ItemID)
	switch {
	case errors.Is(err, conversation.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Please log in to add items to cart")
	case errors.Is(err, knowledge.ErrUnknownItem):
		writeError(w, http.StatusNotFound, "unknown item")
	case err != nil:
		writeError(w, http.StatusBadGateway, "could not add item to cart")
	default:
		writeJSON(w, http.StatusOK, MessagesResponse{Messages: []conversation.Message{msg}, State: o.State().String()})
	}
}

// HandleClose ends a session.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	o, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Close(o.ID())
	w.WriteHeader(http.StatusNoContent)
}

// HandleQuickReplies lists the quick-reply chips.
func (h *Handler) HandleQuickReplies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"quick_replies": h.quickReplies})
}

// session resolves {id} and checks the caller may use it. Sessions owned by
// another user are reported as missing.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*conversation.Orchestrator, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	o, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	user, _ := middleware.UserFromContext(r.Context())
	if !owns(r.Context(), o, user) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return o, true
}

func owns(ctx context.Context, o *conversation.Orchestrator, user *conversation.User) bool {
	owner, hasOwner := o.Owner(ctx)
	if !hasOwner {
		return true
	}
	return user != nil && user.ID == owner.ID
}

// withUserMessage returns the user message that triggered reply followed by
// reply itself.
func withUserMessage(o *conversation.Orchestrator, reply conversation.Message) []conversation.Message {
	out := make([]conversation.Message, 0, 2)
	if reply.ReplyTo > 0 {
		for _, m := range o.Conversation().Since(reply.ReplyTo - 1) {
			if m.Seq == reply.ReplyTo {
				out = append(out, m)
				break
			}
		}
	}
	return append(out, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
