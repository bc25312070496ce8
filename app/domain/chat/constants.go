package chat

import "time"

const (
	// IncrementDelay paces the simulated stream: one code point per event.
	IncrementDelay = 10 * time.Millisecond

	// StreamTimeout caps how long a client-visible stream may stay open.
	StreamTimeout = 60 * time.Second

	ChannelBufferSize = 64
	ErrorBufferSize   = 1
)
