package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConversationService() (*ConversationService, *time.Duration) {
	s := NewConversationService()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	offset := new(time.Duration)
	s.now = func() time.Time { return base.Add(*offset) }
	return s, offset
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestConversationService()

	id, err := s.CreateConversation()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	conv := s.GetConversation(id)
	require.NotNil(t, conv)
	assert.Equal(t, id, conv.ID)
	assert.Empty(t, conv.Messages())

	assert.Nil(t, s.GetConversation("conv_does-not-exist"))
}

func TestAppendOrdering(t *testing.T) {
	s, _ := newTestConversationService()
	id, err := s.CreateConversation()
	require.NoError(t, err)
	conv := s.GetConversation(id)
	require.NotNil(t, conv)

	s.AddMessage(conv, RoleUser, "p1")
	s.AddMessage(conv, RoleAssistant, "r1")
	s.AddMessage(conv, RoleUser, "p2")

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, Message{Role: RoleUser, Content: "p1"}, messages[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "r1"}, messages[1])
	assert.Equal(t, Message{Role: RoleUser, Content: "p2"}, messages[2])
}

func TestSlidingExpiry(t *testing.T) {
	s, offset := newTestConversationService()
	id, err := s.CreateConversation()
	require.NoError(t, err)

	// Access at minute 29 refreshes the window...
	*offset = 29 * time.Minute
	require.NotNil(t, s.GetConversation(id))

	// ...so the conversation is still alive at minute 58.
	*offset = 58 * time.Minute
	require.NotNil(t, s.GetConversation(id))

	// Left untouched past the TTL it expires.
	*offset = 58*time.Minute + 31*time.Minute
	assert.Nil(t, s.GetConversation(id))
	assert.Equal(t, 0, s.Count())
}

func TestExpiryWithoutAccess(t *testing.T) {
	s, offset := newTestConversationService()
	id, err := s.CreateConversation()
	require.NoError(t, err)

	*offset = 31 * time.Minute
	assert.Nil(t, s.GetConversation(id))
}

func TestAppendRefreshesWindow(t *testing.T) {
	s, offset := newTestConversationService()
	id, err := s.CreateConversation()
	require.NoError(t, err)
	conv := s.GetConversation(id)
	require.NotNil(t, conv)

	*offset = 25 * time.Minute
	s.AddMessage(conv, RoleUser, "still here")

	*offset = 50 * time.Minute
	assert.NotNil(t, s.GetConversation(conv.ID))
}

func TestDeleteConversation(t *testing.T) {
	s, _ := newTestConversationService()
	id, err := s.CreateConversation()
	require.NoError(t, err)

	assert.True(t, s.DeleteConversation(id))
	assert.False(t, s.DeleteConversation(id))
	assert.Nil(t, s.GetConversation(id))
}

func TestSweep(t *testing.T) {
	s, offset := newTestConversationService()
	stale, err := s.CreateConversation()
	require.NoError(t, err)

	*offset = 20 * time.Minute
	fresh, err := s.CreateConversation()
	require.NoError(t, err)

	*offset = 35 * time.Minute
	s.Sweep()

	assert.Equal(t, 1, s.Count())
	assert.Nil(t, s.GetConversation(stale))
	assert.NotNil(t, s.GetConversation(fresh))
}
