package webchat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/generation"
	"github.com/shivraj110504/RuralCare/internal/http/middleware"
	"github.com/shivraj110504/RuralCare/internal/orders"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

type quotaLLM struct{}

func (quotaLLM) Complete(context.Context, generation.Request) (generation.Response, error) {
	return generation.Response{}, &quotaError{}
}

type quotaError struct{}

func (*quotaError) Error() string { return "quota exceeded" }

var asha = &conversation.User{ID: "user-1", Name: "Asha", Email: "asha@example.com"}

// withTestUser stands in for SupabaseAuth: X-Test-User selects the caller.
func withTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Test-User") {
		case "asha":
			r = r.WithContext(middleware.WithUser(r.Context(), asha))
		case "other":
			r = r.WithContext(middleware.WithUser(r.Context(), &conversation.User{ID: "user-2"}))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T) (http.Handler, *conversation.Manager, *orders.MemoryStore) {
	t.Helper()
	store := orders.NewMemoryStore()
	manager := conversation.NewManager(conversation.Dependencies{
		Generator: generation.NewGenerator(quotaLLM{}, logging.Discard()),
		Cart:      orders.NewCartService(store, nil, 0, logging.Discard()),
		Logger:    logging.Discard(),
	})
	h := NewHandler(manager, nil, logging.Discard())

	r := chi.NewRouter()
	r.Use(withTestUser)
	r.Get("/chat/quick-replies", h.HandleQuickReplies)
	r.Get("/chat/ws", h.HandleWebSocket)
	r.Route("/chat/sessions", func(r chi.Router) {
		r.Post("/", h.HandleOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.HandleClose)
			r.Get("/messages", h.HandleHistory)
			r.Post("/messages", h.HandleMessage)
			r.Post("/quick-replies", h.HandleQuickReply)
			r.Post("/cart", h.HandleAddToCart)
		})
	})
	return r, manager, store
}

func do(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func openSession(t *testing.T, h http.Handler, user string) SessionResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/chat/sessions/", user, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeMessages(t *testing.T, rec *httptest.ResponseRecorder) MessagesResponse {
	t.Helper()
	var resp MessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestOpenSessionWelcomes(t *testing.T) {
	h, _, _ := newTestServer(t)

	signedIn := openSession(t, h, "asha")
	assert.NotEmpty(t, signedIn.SessionID)
	assert.True(t, signedIn.Authenticated)
	require.Len(t, signedIn.Messages, 1)
	assert.Contains(t, signedIn.Messages[0].Text, "Hello Asha!")
	assert.Equal(t, conversation.DefaultQuickReplies, signedIn.QuickReplies)

	anon := openSession(t, h, "")
	assert.False(t, anon.Authenticated)
	assert.Contains(t, anon.Messages[0].Text, "Please log in")
}

func TestSubmitMessageReturnsExchange(t *testing.T) {
	h, _, _ := newTestServer(t)
	s := openSession(t, h, "asha")

	rec := do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/messages", "asha", map[string]string{"text": "I have a fever"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMessages(t, rec)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, conversation.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, "I have a fever", resp.Messages[0].Text)
	assert.Contains(t, resp.Messages[1].Text, "Paracetamol")
	assert.NotEmpty(t, resp.Messages[1].Recommendations)
	assert.Equal(t, "idle", resp.State)

	rec = do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/quick-replies", "asha", map[string]string{"text": "asdkjaskjd"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeMessages(t, rec)
	assert.Equal(t, generation.QuotaFallback, resp.Messages[len(resp.Messages)-1].Text)
}

func TestSubmitEmptyMessage(t *testing.T) {
	h, manager, _ := newTestServer(t)
	s := openSession(t, h, "asha")

	rec := do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/messages", "asha", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	o, err := manager.Get(s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Conversation().Len())
}

func TestHistoryAndSince(t *testing.T) {
	h, _, _ := newTestServer(t)
	s := openSession(t, h, "asha")
	do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/messages", "asha", map[string]string{"text": "hello"})

	rec := do(t, h, http.MethodGet, "/chat/sessions/"+s.SessionID+"/messages", "asha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMessages(t, rec).Messages, 3)

	rec = do(t, h, http.MethodGet, "/chat/sessions/"+s.SessionID+"/messages?since=2", "asha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMessages(t, rec).Messages, 1)

	rec = do(t, h, http.MethodGet, "/chat/sessions/"+s.SessionID+"/messages?since=abc", "asha", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	h, _, _ := newTestServer(t)
	s := openSession(t, h, "asha")

	for _, user := range []string{"", "other"} {
		rec := do(t, h, http.MethodGet, "/chat/sessions/"+s.SessionID+"/messages", user, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/chat/sessions/", "other", map[string]string{"session_id": s.SessionID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/chat/sessions/missing/messages", "asha", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCart(t *testing.T) {
	h, _, store := newTestServer(t)
	s := openSession(t, h, "asha")

	rec := do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/cart", "asha", map[string]int{"item_id": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMessages(t, rec)
	require.Len(t, resp.Messages, 1)
	assert.Contains(t, resp.Messages[0].Text, "Great! I've added Ibuprofen 400mg to your cart.")

	placed, err := store.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, 90, placed[0].Total)

	rec = do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/cart", "asha", map[string]int{"item_id": 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCartAnonymous(t *testing.T) {
	h, _, _ := newTestServer(t)
	s := openSession(t, h, "")

	rec := do(t, h, http.MethodPost, "/chat/sessions/"+s.SessionID+"/cart", "", map[string]int{"item_id": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloseSession(t *testing.T) {
	h, manager, _ := newTestServer(t)
	s := openSession(t, h, "asha")

	rec := do(t, h, http.MethodDelete, "/chat/sessions/"+s.SessionID+"/", "asha", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := manager.Get(s.SessionID)
	assert.ErrorIs(t, err, conversation.ErrSessionNotFound)
}

func TestQuickReplies(t *testing.T) {
	h, _, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/chat/quick-replies", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Headache / Migraine")
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws" + query
	cfg, err := websocket.NewConfig(url, srv.URL)
	require.NoError(t, err)
	cfg.Header.Set("X-Test-User", "asha")
	conn, err := websocket.DialConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocketConversation(t *testing.T) {
	h, _, _ := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dialWS(t, srv, "")

	session := receive(t, conn)
	assert.Equal(t, FrameSession, session.Type)
	assert.NotEmpty(t, session.SessionID)
	assert.True(t, session.Authenticated)

	history := receive(t, conn)
	assert.Equal(t, FrameHistory, history.Type)
	require.Len(t, history.Messages, 1)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: FramePing}))
	assert.Equal(t, FramePong, receive(t, conn).Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: FrameMessage, Text: "cough"}))
	assert.Equal(t, FrameTyping, receive(t, conn).Type)
	reply := receive(t, conn)
	require.Equal(t, FrameMessage, reply.Type)
	require.NotNil(t, reply.Message)
	assert.Contains(t, reply.Message.Text, "Dextromethorphan")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: FrameCart, ItemID: 10}))
	cart := receive(t, conn)
	require.Equal(t, FrameMessage, cart.Type)
	assert.Contains(t, cart.Message.Text, "Dextromethorphan syrup")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: FrameMessage, Text: " "}))
	assert.Equal(t, FrameError, receive(t, conn).Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "bogus"}))
	assert.Equal(t, FrameError, receive(t, conn).Type)
}

func TestWebSocketResumesSession(t *testing.T) {
	h, manager, _ := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	o := manager.Open(context.Background(), "resume-me", asha)
	_, err := o.Submit(context.Background(), "headache")
	require.NoError(t, err)

	conn := dialWS(t, srv, "?session=resume-me")
	assert.Equal(t, "resume-me", receive(t, conn).SessionID)
	history := receive(t, conn)
	assert.Len(t, history.Messages, 3)
}
