package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"svg", "png", "text"} {
		format, ok := ParseFormat(valid)
		assert.True(t, ok)
		assert.Equal(t, Format(valid), format)
	}

	_, ok := ParseFormat("pdf")
	assert.False(t, ok)
	_, ok = ParseFormat("")
	assert.False(t, ok)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
}

func TestMentionsGraphviz(t *testing.T) {
	assert.True(t, mentionsGraphviz("Cannot find Graphviz"))
	assert.True(t, mentionsGraphviz("warning: the dot executable was not found"))
	assert.False(t, mentionsGraphviz("syntax error at line 3"))
	assert.False(t, mentionsGraphviz(""))
}

func TestRenderErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &RenderError{Format: FormatPNG, GraphvizMissing: true, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "png")

	var renderErr *RenderError
	assert.True(t, errors.As(error(err), &renderErr))
	assert.True(t, renderErr.GraphvizMissing)
}
