package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/webchat"
)

// chatBackend is one conversation, in-process or remote.
type chatBackend interface {
	History() []conversation.Message
	QuickReplies() []string
	Submit(ctx context.Context, text string, quickReply bool) (conversation.Message, error)
	AddToCart(ctx context.Context, itemID int) (conversation.Message, error)
	Close() error
}

type localBackend struct {
	o            *conversation.Orchestrator
	quickReplies []string
	close        func()
}

func (b *localBackend) History() []conversation.Message {
	return b.o.Conversation().Messages()
}

func (b *localBackend) QuickReplies() []string {
	return b.quickReplies
}

func (b *localBackend) Submit(ctx context.Context, text string, quickReply bool) (conversation.Message, error) {
	if quickReply {
		return b.o.SubmitExternal(ctx, text)
	}
	return b.o.Submit(ctx, text)
}

func (b *localBackend) AddToCart(ctx context.Context, itemID int) (conversation.Message, error) {
	msg, err := b.o.AddToCart(ctx, itemID)
	if errors.Is(err, conversation.ErrNotAuthenticated) {
		return msg, errors.New("please log in to add items to cart (set CHAT_USER_ID)")
	}
	return msg, err
}

func (b *localBackend) Close() error {
	if b.close != nil {
		b.close()
	}
	return nil
}

const remoteReplyTimeout = 2 * time.Minute

type remoteBackend struct {
	conn         *websocket.Conn
	sessionID    string
	history      []conversation.Message
	quickReplies []string
}

// dialRemote connects to the chat websocket and reads the session and history
// frames the server sends first.
func dialRemote(ctx context.Context, rawURL, token, sessionID string) (*remoteBackend, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if sessionID != "" {
		q := u.Query()
		q.Set("session", sessionID)
		u.RawQuery = q.Encode()
	}

	header := http.Header{}
	header.Set("Origin", originFor(u))
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s", u.Redacted(), resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	b := &remoteBackend{conn: conn}
	for b.sessionID == "" || b.history == nil {
		frame, err := b.read()
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		switch frame.Type {
		case webchat.FrameSession:
			b.sessionID = frame.SessionID
			b.quickReplies = frame.QuickReplies
		case webchat.FrameHistory:
			b.history = frame.Messages
			if b.history == nil {
				b.history = []conversation.Message{}
			}
		}
	}
	return b, nil
}

// originFor maps ws(s)://host to http(s)://host; the server rejects
// handshakes without an Origin.
func originFor(u *url.URL) string {
	scheme := "http"
	if strings.EqualFold(u.Scheme, "wss") || strings.EqualFold(u.Scheme, "https") {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}

func (b *remoteBackend) History() []conversation.Message {
	return b.history
}

func (b *remoteBackend) QuickReplies() []string {
	return b.quickReplies
}

func (b *remoteBackend) Submit(_ context.Context, text string, quickReply bool) (conversation.Message, error) {
	frameType := webchat.FrameMessage
	if quickReply {
		frameType = webchat.FrameQuickReply
	}
	return b.roundTrip(webchat.InboundMessage{Type: frameType, Text: text})
}

func (b *remoteBackend) AddToCart(_ context.Context, itemID int) (conversation.Message, error) {
	return b.roundTrip(webchat.InboundMessage{Type: webchat.FrameCart, ItemID: itemID})
}

// roundTrip sends one frame and waits for its answer, skipping typing
// indicators.
func (b *remoteBackend) roundTrip(msg webchat.InboundMessage) (conversation.Message, error) {
	if err := b.conn.WriteJSON(msg); err != nil {
		return conversation.Message{}, fmt.Errorf("send: %w", err)
	}
	for {
		frame, err := b.read()
		if err != nil {
			return conversation.Message{}, err
		}
		switch frame.Type {
		case webchat.FrameTyping:
			continue
		case webchat.FrameError:
			return conversation.Message{}, errors.New(frame.Text)
		case webchat.FrameMessage:
			if frame.Message == nil {
				return conversation.Message{}, errors.New("empty message frame")
			}
			return *frame.Message, nil
		}
	}
}

func (b *remoteBackend) read() (webchat.OutboundMessage, error) {
	var frame webchat.OutboundMessage
	_ = b.conn.SetReadDeadline(time.Now().Add(remoteReplyTimeout))
	if err := b.conn.ReadJSON(&frame); err != nil {
		return frame, fmt.Errorf("receive: %w", err)
	}
	return frame, nil
}

func (b *remoteBackend) Close() error {
	_ = b.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return b.conn.Close()
}
