// Package sse adapts a gin response writer to the chat.EventSink contract.
package sse

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const doneMarker = "[DONE]"

// GinEventSink writes stream events to a gin response as Server-Sent
// Events, flushing after every event so the client sees increments as they
// are produced.
type GinEventSink struct {
	c *gin.Context
}

func NewGinEventSink(c *gin.Context) *GinEventSink {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	return &GinEventSink{c: c}
}

// SendDelta writes one increment as a data event. Newlines inside the
// payload become continuation data lines per the SSE framing rules.
func (s *GinEventSink) SendDelta(text string) error {
	if err := s.c.Request.Context().Err(); err != nil {
		return err
	}
	var frame strings.Builder
	for _, line := range strings.Split(text, "\n") {
		frame.WriteString("data: ")
		frame.WriteString(line)
		frame.WriteString("\n")
	}
	frame.WriteString("\n")
	if _, err := s.c.Writer.Write([]byte(frame.String())); err != nil {
		return err
	}
	s.c.Writer.Flush()
	return nil
}

// SendDone closes the stream with the terminal marker.
func (s *GinEventSink) SendDone() {
	fmt.Fprintf(s.c.Writer, "data: %s\n\n", doneMarker)
	s.c.Writer.Flush()
}

// SendError emits a named error event. Best effort: the client may already
// be gone.
func (s *GinEventSink) SendError(err error) {
	fmt.Fprintf(s.c.Writer, "event: error\ndata: %s\n\n", strings.ReplaceAll(err.Error(), "\n", " "))
	s.c.Writer.Flush()
}
