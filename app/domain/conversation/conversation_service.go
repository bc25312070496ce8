package conversation

import (
	"fmt"
	"sync"
	"time"

	"mew.ai/puml-api-gateway/app/domain/shared/ttlutil"
	"mew.ai/puml-api-gateway/app/utils/idgen"
	"mew.ai/puml-api-gateway/app/utils/logger"
)

// IDPrefix marks conversation IDs. Cache entries use a different prefix so
// the two ID spaces are never interchangeable.
const IDPrefix = "conv"

// ConversationService owns the in-memory conversation store. Unlike the
// diagram cache, expiry is a sliding window: every successful read and
// every append refreshes the conversation's lifetime.
type ConversationService struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	ttl           time.Duration
	now           func() time.Time
}

func NewConversationService() *ConversationService {
	return &ConversationService{
		conversations: make(map[string]*Conversation),
		ttl:           ttlutil.DefaultTTL,
		now:           time.Now,
	}
}

// CreateConversation allocates a new empty conversation and returns its ID.
// ID generation only fails when the OS entropy source is broken.
func (s *ConversationService) CreateConversation() (string, error) {
	id, err := idgen.GenerateSecureID(IDPrefix, 24)
	if err != nil {
		return "", fmt.Errorf("conversation store: id generation failed: %w", err)
	}

	s.mu.Lock()
	s.conversations[id] = newConversation(id, s.now())
	s.mu.Unlock()
	return id, nil
}

// GetConversation returns a live conversation by ID, or nil. An expired
// conversation is removed on access; a successful read refreshes the
// sliding expiry window.
func (s *ConversationService) GetConversation(id string) *Conversation {
	s.mu.RLock()
	conv, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	now := s.now()
	if ttlutil.Expired(conv.LastAccessedAt(), s.ttl, now) {
		s.mu.Lock()
		delete(s.conversations, id)
		s.mu.Unlock()
		return nil
	}

	conv.touch(now)
	return conv
}

// AddMessage appends a message to a conversation and refreshes its expiry
// window.
func (s *ConversationService) AddMessage(conv *Conversation, role, content string) {
	conv.append(role, content, s.now())
}

// DeleteConversation removes a conversation unconditionally and reports
// whether anything was removed.
func (s *ConversationService) DeleteConversation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return false
	}
	delete(s.conversations, id)
	return true
}

// Sweep removes every conversation idle longer than the TTL.
func (s *ConversationService) Sweep() {
	now := s.now()

	s.mu.RLock()
	expired := make([]string, 0)
	for id, conv := range s.conversations {
		if ttlutil.Expired(conv.LastAccessedAt(), s.ttl, now) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	// Re-check under the write lock: a concurrent read may have refreshed
	// the sliding window since the scan.
	s.mu.Lock()
	for _, id := range expired {
		if conv, ok := s.conversations[id]; ok && ttlutil.Expired(conv.LastAccessedAt(), s.ttl, now) {
			delete(s.conversations, id)
		}
	}
	s.mu.Unlock()

	logger.GetLogger().WithField("evicted", len(expired)).Debug("conversation store sweep")
}

// Count returns the number of conversations currently held.
func (s *ConversationService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
