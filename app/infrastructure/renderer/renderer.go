package renderer

import (
	"context"
	"fmt"
)

// Format identifies a derived output format of a PlantUML diagram.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatText Format = "text"
)

// Formats lists every rendition format the cache materializes.
var Formats = []Format{FormatSVG, FormatPNG, FormatText}

// ParseFormat maps a URL path segment to a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatSVG, FormatPNG, FormatText:
		return Format(s), true
	default:
		return "", false
	}
}

// ContentType returns the HTTP content type for a rendition payload.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Renderer renders PlantUML source into one of the supported formats.
type Renderer interface {
	Render(ctx context.Context, puml string, format Format) ([]byte, error)
}

// RenderError wraps a failed render call. GraphvizMissing marks the
// tool-dependency sub-kind: PlantUML needs the Graphviz `dot` executable for
// several diagram types, and its absence is an operator problem rather than
// a bad diagram.
type RenderError struct {
	Format          Format
	GraphvizMissing bool
	Err             error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s failed: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// GraphvizInstallHint is returned to operators when a render fails because
// Graphviz is not installed on the host.
const GraphvizInstallHint = "Graphviz is required for some PlantUML diagram types (activity, component, etc.). " +
	"Install it with your package manager (apt-get install graphviz, yum install graphviz, brew install graphviz) " +
	"or download it from https://graphviz.org/download/"
