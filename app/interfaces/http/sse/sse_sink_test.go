package sse

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) (*GinEventSink, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return NewGinEventSink(c), recorder
}

func TestHeaders(t *testing.T) {
	_, recorder := newTestSink(t)
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", recorder.Header().Get("Cache-Control"))
}

func TestSendDeltaFraming(t *testing.T) {
	sink, recorder := newTestSink(t)

	require.NoError(t, sink.SendDelta("a"))
	assert.Equal(t, "data: a\n\n", recorder.Body.String())
}

func TestSendDeltaNewline(t *testing.T) {
	sink, recorder := newTestSink(t)

	// A newline increment becomes an empty continuation line, which SSE
	// decoders reassemble into "\n".
	require.NoError(t, sink.SendDelta("\n"))
	assert.Equal(t, "data: \ndata: \n\n", recorder.Body.String())
}

func TestSendDone(t *testing.T) {
	sink, recorder := newTestSink(t)
	sink.SendDone()
	assert.Equal(t, "data: [DONE]\n\n", recorder.Body.String())
}

func TestSendError(t *testing.T) {
	sink, recorder := newTestSink(t)
	sink.SendError(errors.New("upstream\nfailed"))
	assert.Equal(t, "event: error\ndata: upstream failed\n\n", recorder.Body.String())
}
