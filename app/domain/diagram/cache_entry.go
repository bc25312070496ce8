package diagram

import (
	"sync"
	"time"

	"mew.ai/puml-api-gateway/app/infrastructure/renderer"
)

// CacheEntry holds one cached PlantUML source plus its lazily rendered
// formats. Puml and CreatedAt are immutable after creation; a rendition
// slot, once filled, never changes.
type CacheEntry struct {
	ID        string
	Puml      string
	CreatedAt time.Time

	mu         sync.Mutex
	renditions map[renderer.Format][]byte
}

func newCacheEntry(id, puml string, createdAt time.Time) *CacheEntry {
	return &CacheEntry{
		ID:         id,
		Puml:       puml,
		CreatedAt:  createdAt,
		renditions: make(map[renderer.Format][]byte),
	}
}

// Rendition returns the rendered payload for a format, if present.
func (e *CacheEntry) Rendition(format renderer.Format) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	content, ok := e.renditions[format]
	return content, ok
}

// FullyRendered reports whether every rendition slot is populated.
func (e *CacheEntry) FullyRendered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.renditions) == len(renderer.Formats)
}

// fillRendition populates a slot at most once. A concurrent filler that
// loses the race is a no-op, so a repeated-render race cannot corrupt the
// entry.
func (e *CacheEntry) fillRendition(format renderer.Format, content []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.renditions[format]; !ok {
		e.renditions[format] = content
	}
}

// missingFormats lists the rendition slots that are still empty.
func (e *CacheEntry) missingFormats() []renderer.Format {
	e.mu.Lock()
	defer e.mu.Unlock()
	missing := make([]renderer.Format, 0, len(renderer.Formats))
	for _, format := range renderer.Formats {
		if _, ok := e.renditions[format]; !ok {
			missing = append(missing, format)
		}
	}
	return missing
}
