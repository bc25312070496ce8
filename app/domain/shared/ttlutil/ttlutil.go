// Package ttlutil holds the expiry arithmetic shared by the in-memory
// stores. Both the diagram cache and the conversation store evict on a
// 30-minute TTL swept every 5 minutes; only the anchor timestamp differs.
package ttlutil

import "time"

const (
	// DefaultTTL is how long a store entry lives past its anchor timestamp.
	DefaultTTL = 30 * time.Minute

	// SweepSchedule is the crontab spec for the background eviction pass.
	SweepSchedule = "*/5 * * * *"
)

// Expired reports whether anchor is older than ttl relative to now.
func Expired(anchor time.Time, ttl time.Duration, now time.Time) bool {
	return anchor.Add(ttl).Before(now)
}
