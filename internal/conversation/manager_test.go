package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivraj110504/RuralCare/pkg/logging"
)

func TestManagerOpenGetClose(t *testing.T) {
	m := NewManager(Dependencies{Logger: logging.Discard()})

	o := m.Open(context.Background(), "session-1", testUser)
	require.NotNil(t, o)
	assert.Equal(t, "session-1", o.ID())
	assert.Equal(t, 1, o.Conversation().Len(), "open appends the welcome message")

	again := m.Open(context.Background(), "session-1", nil)
	assert.Same(t, o, again)
	assert.Equal(t, 1, again.Conversation().Len())

	got, err := m.Get("session-1")
	require.NoError(t, err)
	assert.Same(t, o, got)

	assert.True(t, m.Close("session-1"))
	assert.False(t, m.Close("session-1"))
	_, err = m.Get("session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerGeneratesSessionIDs(t *testing.T) {
	m := NewManager(Dependencies{Logger: logging.Discard()})
	a := m.Open(context.Background(), "", nil)
	b := m.Open(context.Background(), "  ", nil)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	m := NewManager(Dependencies{Logger: logging.Discard()})
	signedIn := m.Open(context.Background(), "a", testUser)
	anon := m.Open(context.Background(), "b", nil)

	reply, err := signedIn.Submit(context.Background(), "fever")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Fever")

	reply, err = anon.Submit(context.Background(), "fever")
	require.NoError(t, err)
	assert.Equal(t, LoginMessage, reply.Text)

	assert.Equal(t, 3, signedIn.Conversation().Len())
	assert.Equal(t, 3, anon.Conversation().Len())
}

func TestManagerCloseIdle(t *testing.T) {
	m := NewManager(Dependencies{Logger: logging.Discard()})
	m.Open(context.Background(), "old", nil)

	assert.Equal(t, 0, m.CloseIdle(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, m.CloseIdle(time.Millisecond))
	assert.Equal(t, 0, m.Len())
}
