package diagram

import (
	"context"
	"sync"
	"time"

	"mew.ai/puml-api-gateway/app/domain/shared/ttlutil"
	"mew.ai/puml-api-gateway/app/infrastructure/renderer"
	"mew.ai/puml-api-gateway/app/utils/idgen"
	"mew.ai/puml-api-gateway/app/utils/logger"
)

// IDPrefix marks cache entry IDs. Conversations use a different prefix so
// the two ID spaces are never interchangeable.
const IDPrefix = "puml"

// CacheService owns the in-memory, content-addressed diagram cache. Entries
// expire a fixed 30 minutes after creation; reads never extend the lifetime.
// Eviction happens both on access and in the periodic Sweep, so callers
// never observe a stale entry between sweeps while memory stays bounded
// under low read traffic.
type CacheService struct {
	mu       sync.RWMutex
	entries  map[string]*CacheEntry
	renderer renderer.Renderer
	ttl      time.Duration
	now      func() time.Time
}

func NewCacheService(r renderer.Renderer) *CacheService {
	return &CacheService{
		entries:  make(map[string]*CacheEntry),
		renderer: r,
		ttl:      ttlutil.DefaultTTL,
		now:      time.Now,
	}
}

// StorePuml caches PlantUML source without rendering and returns its ID. If
// the same source is already cached and alive, the existing ID is returned
// instead of creating a duplicate. An expired duplicate is treated as
// absent; the sweep reaps it later.
func (s *CacheService) StorePuml(puml string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeLocked(puml)
}

// StoreAllFormats caches PlantUML source and guarantees all three rendition
// slots are populated before returning. A live entry that is already fully
// rendered is returned as-is; rendering is expensive and idempotent, so it
// is never repeated once satisfied.
func (s *CacheService) StoreAllFormats(ctx context.Context, puml string) (string, error) {
	s.mu.Lock()
	id := s.storeLocked(puml)
	entry := s.entries[id]
	s.mu.Unlock()

	if err := s.EnsureRendered(ctx, entry); err != nil {
		return "", err
	}
	return id, nil
}

// storeLocked performs the dedup scan and insert. The scan is linear over
// live entries; the cache is small and short-lived enough that a content
// digest index has not been worth the bookkeeping.
func (s *CacheService) storeLocked(puml string) string {
	now := s.now()
	for id, entry := range s.entries {
		if entry.Puml == puml && !ttlutil.Expired(entry.CreatedAt, s.ttl, now) {
			return id
		}
	}

	id, err := idgen.GenerateSecureID(IDPrefix, 24)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		logger.GetLogger().WithError(err).Error("diagram cache: id generation failed")
		return ""
	}
	s.entries[id] = newCacheEntry(id, puml, now)
	return id
}

// GetEntry returns a live entry by ID, or nil. An expired entry is removed
// on access. The read does not refresh the TTL.
func (s *CacheService) GetEntry(id string) *CacheEntry {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if ttlutil.Expired(entry.CreatedAt, s.ttl, s.now()) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil
	}
	return entry
}

// EnsureRendered fills any empty rendition slot of an already-fetched
// entry. It is a no-op when all slots are populated. Render failures
// propagate to the caller; the failed slot stays empty so a later request
// can retry.
func (s *CacheService) EnsureRendered(ctx context.Context, entry *CacheEntry) error {
	for _, format := range entry.missingFormats() {
		content, err := s.renderer.Render(ctx, entry.Puml, format)
		if err != nil {
			return err
		}
		entry.fillRendition(format, content)
	}
	return nil
}

// Sweep removes every entry older than the TTL. Expired entries are
// identified under a read lock; removal takes the write lock only for the
// deletes themselves.
func (s *CacheService) Sweep() {
	now := s.now()

	s.mu.RLock()
	expired := make([]string, 0)
	for id, entry := range s.entries {
		if ttlutil.Expired(entry.CreatedAt, s.ttl, now) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	s.mu.Lock()
	for _, id := range expired {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	logger.GetLogger().WithField("evicted", len(expired)).Debug("diagram cache sweep")
}

// Size returns the number of entries currently held, expired or not.
func (s *CacheService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
